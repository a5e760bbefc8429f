package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/pkg/event"
)

type published struct {
	channel string
	body    []byte
}

type fakeClient struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (f *fakeClient) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{channel: channel, body: message.([]byte)})
	return redis.NewIntResult(1, f.err)
}

func (f *fakeClient) decoded(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.msgs))
	for _, m := range f.msgs {
		var v map[string]any
		require.NoError(t, json.Unmarshal(m.body, &v))
		out = append(out, v)
	}
	return out
}

func TestAttachPublishesBusEvents(t *testing.T) {
	client := &fakeClient{}
	// two workers queue four tasks, so none of the events below is dropped
	n := New(client, "orders", 2)
	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return at }

	bus := event.New()
	n.Attach(bus)

	o := models.NewOrder("customer", models.Pickup)
	o.Status = models.StatusPending
	bus.Fire(event.OrderPlaced, o)
	bus.Fire(event.OrderStatusChanged, models.OrderEvent{OrderID: o.ID, Event: models.EventStartPrep, From: models.StatusPending, To: models.StatusPreparing})
	bus.Fire(event.TipRecorded, models.Tip{OrderID: o.ID, DriverUsername: "driver", Amount: 2})
	bus.Fire(event.SalesReset, services.ResetResult{Removed: []*models.Order{o}, Archive: "archive/x"})
	require.NoError(t, n.Close())

	byEvent := map[string]map[string]any{}
	for _, m := range client.decoded(t) {
		byEvent[m["event"].(string)] = m
	}
	require.Len(t, byEvent, 4)

	placed := byEvent[event.OrderPlaced]
	assert.Equal(t, o.ID, placed["order_id"])
	assert.Equal(t, "pending", placed["status"])
	assert.Equal(t, "2026-05-04T12:00:00Z", placed["at"])
	assert.Equal(t, "preparing", byEvent[event.OrderStatusChanged]["status"])
	assert.Equal(t, o.ID, byEvent[event.TipRecorded]["order_id"])
	assert.Equal(t, map[string]any{"archive": "archive/x", "order_ids": []any{o.ID}}, byEvent[event.SalesReset]["data"])

	for _, m := range client.msgs {
		assert.Equal(t, "orders", m.channel)
	}
}

func TestPublishReturnsClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("down")}
	n := New(client, "orders", 1)
	defer n.Close()

	err := n.Publish(context.Background(), event.TipRecorded, models.Tip{OrderID: "ORD-1"})
	assert.EqualError(t, err, "down")
}

func TestCloseNil(t *testing.T) {
	var n *Notifier
	assert.NoError(t, n.Close())
}
