package models

import (
	"github.com/shashiranjanraj/pizzapos/app/catalog"
)

type ItemType string

const (
	ItemPizza    ItemType = "pizza"
	ItemBeverage ItemType = "beverage"
)

func (t ItemType) Valid() bool { return t == ItemPizza || t == ItemBeverage }

// OrderItem is one priced line. UnitPrice is fixed when the item is built;
// use WithQuantity to change the quantity.
type OrderItem struct {
	Type                ItemType             `json:"type"`
	Name                string               `json:"name"`
	UnitPrice           float64              `json:"unit_price"`
	Quantity            int                  `json:"quantity"`
	PizzaSize           catalog.PizzaSize    `json:"pizza_size,omitempty"`
	CrustType           catalog.CrustType    `json:"crust_type,omitempty"`
	Toppings            []string             `json:"toppings,omitempty"`
	BeverageSize        catalog.BeverageSize `json:"beverage_size,omitempty"`
	CheeseType          string               `json:"cheese_type,omitempty"`
	SauceType           string               `json:"sauce_type,omitempty"`
	SpecialInstructions string               `json:"special_instructions,omitempty"`
}

// TotalPrice is UnitPrice × Quantity.
func (it OrderItem) TotalPrice() float64 {
	return it.UnitPrice * float64(it.Quantity)
}

// WithQuantity returns a copy of the item with a new quantity.
func (it OrderItem) WithQuantity(q int) (OrderItem, error) {
	if q < 1 {
		return OrderItem{}, invalid("quantity", "must be at least 1")
	}
	out := it.clone()
	out.Quantity = q
	return out, nil
}

func (it OrderItem) Validate() error {
	if !it.Type.Valid() {
		return invalid("type", "unknown item type %q", it.Type)
	}
	if it.Name == "" {
		return invalid("name", "is required")
	}
	if it.UnitPrice < 0 {
		return invalid("unit_price", "must not be negative")
	}
	if it.Quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}
	return nil
}

func (it OrderItem) clone() OrderItem {
	it.Toppings = append([]string(nil), it.Toppings...)
	if len(it.Toppings) == 0 {
		it.Toppings = nil
	}
	return it
}
