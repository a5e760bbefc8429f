package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 5, 4, h, m, 0, 0, time.UTC) } // a Monday

	cases := []struct {
		expr string
		t    time.Time
		want bool
	}{
		{"0 3 * * *", at(3, 0), true},
		{"0 3 * * *", at(3, 1), false},
		{"*/15 * * * *", at(9, 45), true},
		{"*/15 * * * *", at(9, 50), false},
		{"30 22 * * 1-5", at(22, 30), true},
		{"30 22 * * 0,6", at(22, 30), false},
		{"0 0-6/2 * * *", at(4, 0), true},
		{"0 0-6/2 * * *", at(5, 0), false},
		{"* * 4 5 *", at(12, 7), true},
	}
	for _, tc := range cases {
		fields, err := parse(tc.expr)
		require.NoError(t, err, tc.expr)
		e := &entry{fields: fields}
		assert.Equal(t, tc.want, e.matches(tc.t), "%s at %s", tc.expr, tc.t.Format("15:04"))
	}
}

func TestParseRejects(t *testing.T) {
	for _, expr := range []string{"", "* * * *", "60 * * * *", "* 24 * * *", "*/0 * * * *", "a * * * *", "5-1 * * * *"} {
		_, err := parse(expr)
		assert.Error(t, err, expr)
	}
	assert.Error(t, New().Cron("bad", "nope", func(context.Context) {}))
}

func TestDispatchOncePerMinute(t *testing.T) {
	s := New()
	var runs atomic.Int32
	require.NoError(t, s.Cron("count", "* * * * *", func(context.Context) { runs.Add(1) }))

	ctx := context.Background()
	now := time.Date(2026, 5, 4, 3, 0, 0, 0, time.UTC)
	s.dispatchDue(ctx, now)
	s.dispatchDue(ctx, now.Add(10*time.Second))
	s.wg.Wait()
	assert.Equal(t, int32(1), runs.Load())

	s.dispatchDue(ctx, now.Add(time.Minute))
	s.wg.Wait()
	assert.Equal(t, int32(2), runs.Load())
	assert.Equal(t, []string{"count  [* * * * *]"}, s.List())
}

func TestNoOverlap(t *testing.T) {
	s := New()
	release := make(chan struct{})
	var runs atomic.Int32
	require.NoError(t, s.Cron("slow", "* * * * *", func(context.Context) {
		runs.Add(1)
		<-release
	}))

	ctx := context.Background()
	now := time.Date(2026, 5, 4, 3, 0, 0, 0, time.UTC)
	s.dispatchDue(ctx, now)
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)
	s.dispatchDue(ctx, now.Add(time.Minute))
	close(release)
	s.wg.Wait()
	assert.Equal(t, int32(1), runs.Load())
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New()
	s.tick = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
