package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/pricing"
	"github.com/shashiranjanraj/pizzapos/app/store"
	"github.com/shashiranjanraj/pizzapos/pkg/event"
	"github.com/shashiranjanraj/pizzapos/pkg/logger"
	"github.com/shashiranjanraj/pizzapos/pkg/metrics"
)

// CheckoutInput is a customer's cart at confirmation time.
type CheckoutInput struct {
	Customer            string           `json:"-"                    validate:"required,plain"`
	CustomerName        string           `json:"customer_name"        validate:"nullable,plain,max=100"`
	OrderType           string           `json:"order_type"           validate:"required,in=pickup,delivery"`
	DeliveryAddress     string           `json:"delivery_address"     validate:"nullable,plain,max=200"`
	PaymentMethod       string           `json:"payment_method"       validate:"nullable,plain,max=100"`
	SpecialInstructions string           `json:"special_instructions" validate:"nullable,plain,max=200"`
	Pizzas              []PizzaChoice    `json:"pizzas"`
	Beverages           []BeverageChoice `json:"beverages"`
}

// OrderService is the customer workflow.
type OrderService struct {
	store store.Store
	cart  *CartService
	life  *lifecycle
}

func NewOrderService(s store.Store, cart *CartService, bus *event.Bus) *OrderService {
	return &OrderService{store: s, cart: cart, life: &lifecycle{store: s, bus: bus, now: time.Now}}
}

// Quote builds and prices the order without confirming or saving it.
func (s *OrderService) Quote(in CheckoutInput) (*models.Order, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	typ, err := models.ParseOrderType(in.OrderType)
	if err != nil {
		return nil, err
	}
	items, err := s.cart.Items(in.Pizzas, in.Beverages)
	if err != nil {
		return nil, err
	}

	o := models.NewOrder(in.Customer, typ)
	o.CustomerName = strings.TrimSpace(in.CustomerName)
	if typ == models.Delivery {
		o.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)
	}
	o.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	o.SpecialInstructions = strings.TrimSpace(in.SpecialInstructions)
	if err := o.SetItems(items); err != nil {
		return nil, err
	}
	return o, nil
}

// Checkout confirms the cart (draft → pending) and persists it. Nothing is
// written when the cart is empty or a delivery order has no address.
func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	o, err := s.Quote(in)
	if err != nil {
		return nil, err
	}
	if err := o.Apply(models.EventConfirm); err != nil {
		metrics.RecordTransition(string(models.EventConfirm), err)
		return nil, err
	}
	if err := s.store.SaveOrder(o); err != nil {
		return nil, fmt.Errorf("services: checkout: %w", err)
	}
	metrics.RecordTransition(string(models.EventConfirm), nil)
	metrics.OrdersPlaced.WithLabelValues(string(o.Type)).Inc()

	logger.WithCtx(ctx).Info("order placed",
		"order_id", o.ID, "customer", o.CustomerUsername, "type", o.Type,
		"items", o.ItemCount(), "total", pricing.Round2(o.Total()))
	s.life.record(ctx, models.OrderEvent{
		OrderID: o.ID,
		Event:   models.EventConfirm,
		From:    models.StatusDraft,
		To:      o.Status,
		Actor:   o.CustomerUsername,
		At:      o.OrderDate,
	})
	s.life.bus.Fire(event.OrderPlaced, o.Clone())
	return o, nil
}

// History lists a customer's orders, newest first.
func (s *OrderService) History(username string) ([]*models.Order, error) {
	orders, err := s.store.ListOrdersByUser(username)
	if err != nil {
		return nil, err
	}
	newestFirst(orders)
	return orders, nil
}

// Order returns one of the customer's own orders. Another customer's order
// reads as not found.
func (s *OrderService) Order(id, username string) (*models.Order, error) {
	o, err := s.store.FindOrder(id)
	if err != nil {
		return nil, err
	}
	if o.CustomerUsername != username {
		return nil, store.ErrNotFound
	}
	return o, nil
}

// Events is the audit trail of an order, oldest first.
func (s *OrderService) Events(id string) ([]models.OrderEvent, error) {
	if _, err := s.store.FindOrder(id); err != nil {
		return nil, err
	}
	return s.store.ListEvents(id)
}

// CancelOwn lets a customer cancel their order while the kitchen has not
// started on it.
func (s *OrderService) CancelOwn(ctx context.Context, id, username string) (*models.Order, error) {
	return s.life.transition(ctx, id, username, models.EventCancel, func(o *models.Order) error {
		if o.CustomerUsername != username {
			return store.ErrNotFound
		}
		if o.Status != models.StatusPending {
			return &models.TransitionError{From: o.Status, Event: models.EventCancel}
		}
		return o.Apply(models.EventCancel)
	})
}

func newestFirst(orders []*models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }
