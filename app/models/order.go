package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/pizzapos/app/pricing"
)

type OrderType string

const (
	Pickup   OrderType = "pickup"
	Delivery OrderType = "delivery"
)

func (t OrderType) Valid() bool { return t == Pickup || t == Delivery }

func ParseOrderType(s string) (OrderType, error) {
	t := OrderType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", invalid("order_type", "must be pickup or delivery")
	}
	return t, nil
}

// NewOrderID returns a fresh order key.
func NewOrderID() string {
	return "ORD-" + uuid.NewString()
}

// Order is the aggregate root. Items and the three totals are private so the
// totals are recomputed by every method that changes the items.
type Order struct {
	ID                  string
	CustomerUsername    string
	CustomerName        string
	Status              Status
	Type                OrderType
	DeliveryAddress     string
	AssignedDriver      string
	AssignedDriverName  string
	PaymentMethod       string
	SpecialInstructions string
	OrderDate           time.Time

	items    []OrderItem
	subtotal float64
	tax      float64
	total    float64
}

// NewOrder starts a draft with a generated ID dated now. The date is kept to
// whole seconds, the resolution it is stored with.
func NewOrder(customer string, typ OrderType) *Order {
	return &Order{
		ID:               NewOrderID(),
		CustomerUsername: customer,
		Type:             typ,
		OrderDate:        time.Now().Truncate(time.Second),
	}
}

// Items returns a copy of the lines.
func (o *Order) Items() []OrderItem {
	out := make([]OrderItem, len(o.items))
	for i, it := range o.items {
		out[i] = it.clone()
	}
	return out
}

func (o *Order) ItemCount() int { return len(o.items) }

func (o *Order) Subtotal() float64 { return o.subtotal }
func (o *Order) Tax() float64      { return o.tax }
func (o *Order) Total() float64    { return o.total }

func (o *Order) Totals() pricing.Totals {
	return pricing.Totals{Subtotal: o.subtotal, Tax: o.tax, Total: o.total}
}

func (o *Order) AddItem(it OrderItem) error {
	if err := it.Validate(); err != nil {
		return err
	}
	o.items = append(o.items, it.clone())
	o.recalculate()
	return nil
}

func (o *Order) RemoveItem(index int) error {
	if index < 0 || index >= len(o.items) {
		return invalid("item", "no line %d", index)
	}
	o.items = append(o.items[:index:index], o.items[index+1:]...)
	o.recalculate()
	return nil
}

// SetQuantity replaces line index with a copy carrying quantity q.
func (o *Order) SetQuantity(index, q int) error {
	if index < 0 || index >= len(o.items) {
		return invalid("item", "no line %d", index)
	}
	it, err := o.items[index].WithQuantity(q)
	if err != nil {
		return err
	}
	o.items[index] = it
	o.recalculate()
	return nil
}

// SetItems replaces every line. Nothing changes if any item is invalid.
func (o *Order) SetItems(items []OrderItem) error {
	next := make([]OrderItem, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		next = append(next, it.clone())
	}
	o.items = next
	o.recalculate()
	return nil
}

func (o *Order) ClearItems() {
	o.items = nil
	o.recalculate()
}

// SetPersistedTotals restores totals read back from storage for an order
// whose lines were not stored. It is a no-op once the order has items.
func (o *Order) SetPersistedTotals(t pricing.Totals) {
	if len(o.items) > 0 {
		return
	}
	o.subtotal, o.tax, o.total = t.Subtotal, t.Tax, t.Total
}

func (o *Order) recalculate() {
	t := pricing.Compute(o.items)
	o.subtotal, o.tax, o.total = t.Subtotal, t.Tax, t.Total
}

func (o *Order) validateCheckout() error {
	if len(o.items) == 0 {
		return invalid("items", "cart is empty")
	}
	if !o.Type.Valid() {
		return invalid("order_type", "must be pickup or delivery")
	}
	if o.Type == Delivery && strings.TrimSpace(o.DeliveryAddress) == "" {
		return invalid("delivery_address", "is required for delivery")
	}
	return nil
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	cp := *o
	cp.items = o.Items()
	return &cp
}

type orderJSON struct {
	ID                  string         `json:"id"`
	CustomerUsername    string         `json:"customer_username"`
	CustomerName        string         `json:"customer_name,omitempty"`
	Status              Status         `json:"status"`
	StatusLabel         string         `json:"status_label"`
	Type                OrderType      `json:"order_type"`
	DeliveryAddress     string         `json:"delivery_address,omitempty"`
	AssignedDriver      string         `json:"assigned_driver,omitempty"`
	AssignedDriverName  string         `json:"assigned_driver_name,omitempty"`
	PaymentMethod       string         `json:"payment_method,omitempty"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	OrderDate           time.Time      `json:"order_date"`
	Items               []OrderItem    `json:"items"`
	Totals              pricing.Totals `json:"totals"`
	Display             pricing.Totals `json:"display_totals"`
}

func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderJSON{
		ID:                  o.ID,
		CustomerUsername:    o.CustomerUsername,
		CustomerName:        o.CustomerName,
		Status:              o.Status,
		StatusLabel:         o.Status.Label(),
		Type:                o.Type,
		DeliveryAddress:     o.DeliveryAddress,
		AssignedDriver:      o.AssignedDriver,
		AssignedDriverName:  o.AssignedDriverName,
		PaymentMethod:       o.PaymentMethod,
		SpecialInstructions: o.SpecialInstructions,
		OrderDate:           o.OrderDate,
		Items:               o.Items(),
		Totals:              o.Totals(),
		Display:             o.Totals().Rounded(),
	})
}
