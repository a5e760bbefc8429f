// Package notify publishes order lifecycle events to a Redis pub/sub channel
// so kitchen screens and driver apps can follow orders without polling.
//
// Publishing runs on a small worker pool: a slow or unreachable Redis delays
// notifications, never the request that caused them. When the pool is
// saturated the event is dropped and logged.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/config"
	"github.com/shashiranjanraj/pizzapos/pkg/collection"
	"github.com/shashiranjanraj/pizzapos/pkg/event"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/workerpool"
)

const (
	defaultWorkers = 4
	publishTimeout = 2 * time.Second
)

// Client is the part of *redis.Client the notifier needs.
type Client interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// Message is the JSON body published for every event.
type Message struct {
	Event   string    `json:"event"`
	At      time.Time `json:"at"`
	OrderID string    `json:"order_id,omitempty"`
	Status  string    `json:"status,omitempty"`
	Data    any       `json:"data"`
}

type Notifier struct {
	client  Client
	closer  io.Closer
	channel string
	pool    *workerpool.Pool
	now     func() time.Time
}

// New publishes through client on channel.
func New(client Client, channel string, workers int) *Notifier {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Notifier{
		client:  client,
		channel: channel,
		pool:    workerpool.New(workers),
		now:     time.Now,
	}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password, channel string) (*Notifier, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("notify: redis ping: %w", err)
	}
	n := New(rdb, channel, defaultWorkers)
	n.closer = rdb
	return n, nil
}

// FromConfig connects when REDIS_ADDR is set and returns nil otherwise.
func FromConfig(ctx context.Context) (*Notifier, error) {
	addr := config.RedisAddr()
	if addr == "" {
		return nil, nil
	}
	return Connect(ctx, addr, config.RedisPassword(), config.RedisChannel())
}

// Attach subscribes the notifier to every order event on bus.
func (n *Notifier) Attach(bus *event.Bus) {
	for _, name := range []string{event.OrderPlaced, event.OrderStatusChanged, event.TipRecorded, event.SalesReset} {
		name := name
		bus.Listen(name, func(payload any) { n.enqueue(name, payload) })
	}
}

func (n *Notifier) enqueue(name string, payload any) {
	msg := n.message(name, payload)
	err := n.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := n.publish(ctx, msg); err != nil {
			logger.Warn("notify: publish failed", "event", name, "order_id", msg.OrderID, "error", err)
		}
	})
	if errors.Is(err, workerpool.ErrPoolFull) || errors.Is(err, workerpool.ErrPoolClosed) {
		logger.Warn("notify: event dropped", "event", name, "order_id", msg.OrderID, "reason", err)
	}
}

// Publish sends one event synchronously.
func (n *Notifier) Publish(ctx context.Context, name string, payload any) error {
	return n.publish(ctx, n.message(name, payload))
}

func (n *Notifier) publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("notify: encode %s: %w", msg.Event, err)
	}
	return n.client.Publish(ctx, n.channel, body).Err()
}

func (n *Notifier) message(name string, payload any) Message {
	msg := Message{Event: name, At: n.now(), Data: payload}
	switch p := payload.(type) {
	case *models.Order:
		msg.OrderID, msg.Status = p.ID, string(p.Status)
	case models.OrderEvent:
		msg.OrderID, msg.Status = p.OrderID, string(p.To)
	case models.Tip:
		msg.OrderID = p.OrderID
	case services.ResetResult:
		ids := collection.Map(p.Removed, func(o *models.Order) string { return o.ID })
		msg.Data = map[string]any{"archive": p.Archive, "order_ids": ids}
	}
	return msg
}

// Close drains queued publishes and closes the Redis connection.
func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	n.pool.Shutdown()
	if n.closer != nil {
		return n.closer.Close()
	}
	return nil
}
