package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/pkg/collection"
	"github.com/shashiranjanraj/pizzapos/pkg/event"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/metrics"
)

// DriverService is the delivery workflow.
type DriverService struct {
	store store.Store
	life  *lifecycle
	now   func() time.Time
}

func NewDriverService(s store.Store, bus *event.Bus) *DriverService {
	return &DriverService{
		store: s,
		life:  &lifecycle{store: s, bus: bus, now: time.Now},
		now:   time.Now,
	}
}

// Available lists unassigned delivery orders that are ready or still being
// prepared. Only ready orders can be claimed.
func (s *DriverService) Available() ([]*models.Order, error) {
	return s.store.ListAvailableDeliveryOrders()
}

// Claim assigns a ready order to driver and moves it out for delivery in one
// store mutation. A second claim on the same order fails with
// models.ErrInvalidTransition.
func (s *DriverService) Claim(ctx context.Context, id, driver string) (*models.Order, error) {
	u, err := lookupDriver(s.store, driver)
	if err != nil {
		return nil, err
	}
	return s.life.transition(ctx, id, driver, models.EventAssignDriver, func(o *models.Order) error {
		return o.AssignDriver(u)
	})
}

// Deliveries lists every order assigned to driver, newest first.
func (s *DriverService) Deliveries(driver string) ([]*models.Order, error) {
	orders, err := s.store.ListOrdersByDriver(driver)
	if err != nil {
		return nil, err
	}
	newestFirst(orders)
	return orders, nil
}

// Complete marks the driver's own order delivered.
func (s *DriverService) Complete(ctx context.Context, id, driver string) (*models.Order, error) {
	return s.life.transition(ctx, id, driver, models.EventComplete, func(o *models.Order) error {
		if o.AssignedDriver != driver {
			return ErrNotAssigned
		}
		return o.Apply(models.EventComplete)
	})
}

// RecordTip appends a tip for a delivered order that driver delivered.
func (s *DriverService) RecordTip(ctx context.Context, id, driver string, amount float64) (models.Tip, error) {
	o, err := s.store.FindOrder(id)
	if err != nil {
		return models.Tip{}, err
	}
	if o.AssignedDriver != driver {
		return models.Tip{}, ErrNotAssigned
	}
	if o.Status != models.StatusDelivered {
		return models.Tip{}, &models.ValidationError{Field: "order_id", Message: fmt.Sprintf("order is %s, tips need a delivered order", o.Status.Label())}
	}

	tip := models.Tip{
		OrderID:        id,
		DriverUsername: driver,
		Amount:         amount,
		Timestamp:      s.now().Truncate(time.Second),
	}
	if err := tip.Validate(); err != nil {
		return models.Tip{}, err
	}
	if err := s.store.AppendTip(tip); err != nil {
		return models.Tip{}, fmt.Errorf("services: record tip: %w", err)
	}

	metrics.RecordTip(amount)
	logger.WithCtx(ctx).Info("tip recorded", "order_id", id, "driver", driver, "amount", amount)
	s.life.bus.Fire(event.TipRecorded, tip)
	return tip, nil
}

// TipSummary is a driver's tip ledger.
type TipSummary struct {
	Tips  []models.Tip `json:"tips"`
	Total float64      `json:"total"`
}

func (s *DriverService) Tips(driver string) (TipSummary, error) {
	tips, err := s.store.ListTipsByDriver(driver)
	if err != nil {
		return TipSummary{}, err
	}
	if tips == nil {
		tips = []models.Tip{}
	}
	return TipSummary{
		Tips:  tips,
		Total: collection.Sum(tips, func(t models.Tip) float64 { return t.Amount }),
	}, nil
}
