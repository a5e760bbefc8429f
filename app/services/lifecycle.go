package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/pkg/event"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/metrics"
)

// lifecycle applies status events through the store's serialization point and
// records what happened.
type lifecycle struct {
	store store.Store
	bus   *event.Bus
	now   func() time.Time
}

// transition loads the order, runs fn (which must apply ev), persists and
// appends the audit event. Nothing is written when fn fails.
func (l *lifecycle) transition(ctx context.Context, id, actor string, ev models.Event, fn store.OrderFunc) (*models.Order, error) {
	var from models.Status
	o, err := l.store.MutateOrder(id, func(o *models.Order) error {
		from = o.Status
		return fn(o)
	})
	metrics.RecordTransition(string(ev), err)
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) || errors.Is(err, models.ErrValidation) {
			logger.WithCtx(ctx).Info("transition rejected", "order_id", id, "event", ev, "error", err)
		}
		return nil, fmt.Errorf("services: %s %s: %w", ev, id, err)
	}

	l.record(ctx, models.OrderEvent{
		OrderID: o.ID,
		Event:   ev,
		From:    from,
		To:      o.Status,
		Actor:   actor,
		At:      l.now().Truncate(time.Second),
	})
	return o, nil
}

// apply is transition for events that need no extra arguments.
func (l *lifecycle) apply(ctx context.Context, id, actor string, ev models.Event) (*models.Order, error) {
	return l.transition(ctx, id, actor, ev, func(o *models.Order) error {
		return o.Apply(ev)
	})
}

// record appends to the audit trail and notifies listeners. The status change
// is already durable, so a failed append is logged rather than returned.
func (l *lifecycle) record(ctx context.Context, e models.OrderEvent) {
	log := logger.WithCtx(ctx)
	if err := l.store.AppendEvent(e); err != nil {
		log.Error("append order event", "order_id", e.OrderID, "event", e.Event, "error", err)
	}
	log.Info("order status changed", "order_id", e.OrderID, "event", e.Event, "from", e.From, "to", e.To, "actor", e.Actor)
	l.bus.Fire(event.OrderStatusChanged, e)
}
