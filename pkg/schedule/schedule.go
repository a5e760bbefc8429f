// Package schedule runs tasks on 5-field cron expressions.
//
//	s := schedule.New()
//	if err := s.Cron("backup", "0 3 * * *", runBackup); err != nil { ... }
//	go s.Run(ctx) // returns when ctx is cancelled
//
// A task fires at most once per matching minute and never overlaps itself:
// a run that is still going when the next match comes around is skipped.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/pizzapos/pkg/logger"
)

// Task receives the scheduler's context, cancelled on shutdown.
type Task func(ctx context.Context)

type entry struct {
	name    string
	expr    string
	fields  [5]field
	task    Task
	mu      sync.Mutex
	running bool
	lastRun time.Time // minute of the last dispatch
}

type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
	tick    time.Duration
}

func New() *Scheduler {
	return &Scheduler{tick: time.Second}
}

// Cron registers task under name. expr is "min hour dom month dow"; each
// field is *, n, */step, a-b or a comma list of those.
func (s *Scheduler) Cron(name, expr string, task Task) error {
	fields, err := parse(expr)
	if err != nil {
		return fmt.Errorf("schedule: %s: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &entry{name: name, expr: expr, fields: fields, task: task})
	return nil
}

// List describes the registered entries, for operator output.
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, fmt.Sprintf("%s  [%s]", e.name, e.expr))
	}
	return out
}

// Run dispatches due tasks until ctx is cancelled, then waits for running
// tasks to return.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	logger.Info("schedule: started", "entries", len(s.List()))

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("schedule: stopped")
			return nil
		case now := <-ticker.C:
			s.dispatchDue(ctx, now)
		}
	}
}

func (s *Scheduler) dispatchDue(ctx context.Context, now time.Time) {
	s.mu.Lock()
	current := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	minute := now.Truncate(time.Minute)
	for _, e := range current {
		if e.matches(now) {
			s.dispatch(ctx, e, minute)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, minute time.Time) {
	e.mu.Lock()
	if e.lastRun.Equal(minute) {
		e.mu.Unlock()
		return
	}
	e.lastRun = minute
	if e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "task", e.name)
		return
	}
	e.running = true
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "task", e.name, "panic", r)
			}
		}()
		logger.Info("schedule: running task", "task", e.name)
		e.task(ctx)
	}()
}

// ------------------- Minimal cron parser -------------------

type field struct {
	any    bool
	values map[int]bool
}

var bounds = [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}

func parse(expr string) ([5]field, error) {
	var out [5]field
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return out, fmt.Errorf("cron %q: want 5 fields, got %d", expr, len(parts))
	}
	for i, p := range parts {
		f, err := parseField(p, bounds[i][0], bounds[i][1])
		if err != nil {
			return out, fmt.Errorf("cron %q: %w", expr, err)
		}
		out[i] = f
	}
	return out, nil
}

func parseField(s string, lo, hi int) (field, error) {
	if s == "*" {
		return field{any: true}, nil
	}
	f := field{values: map[int]bool{}}
	for _, part := range strings.Split(s, ",") {
		from, to, step := lo, hi, 1

		rangePart, stepPart, hasStep := strings.Cut(part, "/")
		if hasStep {
			n, err := strconv.Atoi(stepPart)
			if err != nil || n <= 0 {
				return field{}, fmt.Errorf("bad step %q", part)
			}
			step = n
		}
		switch {
		case rangePart == "*":
		case strings.Contains(rangePart, "-"):
			a, b, _ := strings.Cut(rangePart, "-")
			var err1, err2 error
			from, err1 = strconv.Atoi(a)
			to, err2 = strconv.Atoi(b)
			if err1 != nil || err2 != nil {
				return field{}, fmt.Errorf("bad range %q", part)
			}
		default:
			n, err := strconv.Atoi(rangePart)
			if err != nil {
				return field{}, fmt.Errorf("bad value %q", part)
			}
			from, to = n, n
		}
		if from < lo || to > hi || from > to {
			return field{}, fmt.Errorf("%q out of range %d-%d", part, lo, hi)
		}
		for v := from; v <= to; v += step {
			f.values[v] = true
		}
	}
	return f, nil
}

func (e *entry) matches(t time.Time) bool {
	vals := [5]int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range e.fields {
		if !f.any && !f.values[vals[i]] {
			return false
		}
	}
	return true
}
