// Package pricing computes unit prices from the catalog and order totals.
//
// Amounts keep full float64 precision. Round2 is applied only when a value is
// shown to a person (reports, CLI tables, HTTP views).
package pricing

import (
	"fmt"
	"math"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
)

// TaxRate is applied to the subtotal of every order.
const TaxRate = 0.08

// UnknownToppingError is returned when a topping ID is not on the menu.
type UnknownToppingError struct {
	ID string
}

func (e *UnknownToppingError) Error() string {
	return fmt.Sprintf("pricing: unknown topping %q", e.ID)
}

// Pricer prices items against one catalog.
type Pricer struct {
	menu *catalog.Catalog
}

func New(menu *catalog.Catalog) *Pricer {
	return &Pricer{menu: menu}
}

// PizzaUnitPrice is base price + size surcharge + the price of every listed
// topping. Toppings are charged as given; callers decide whether a pizza's
// default toppings are part of the list.
func (p *Pricer) PizzaUnitPrice(pizza catalog.Pizza, size catalog.PizzaSize, toppingIDs []string) (float64, error) {
	price := pizza.BasePrice + size.Surcharge()
	for _, id := range toppingIDs {
		t, ok := p.menu.FindTopping(id)
		if !ok {
			return 0, &UnknownToppingError{ID: id}
		}
		price += t.Price
	}
	return price, nil
}

func (p *Pricer) BeverageUnitPrice(b catalog.Beverage, size catalog.BeverageSize) float64 {
	return b.Price(size)
}

// Priced is anything with a line total.
type Priced interface {
	TotalPrice() float64
}

// Totals is the money summary of a set of items.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Compute sums line totals and derives tax and grand total.
func Compute[T Priced](items []T) Totals {
	var sub float64
	for _, it := range items {
		sub += it.TotalPrice()
	}
	return FromSubtotal(sub)
}

func FromSubtotal(sub float64) Totals {
	tax := sub * TaxRate
	return Totals{Subtotal: sub, Tax: tax, Total: sub + tax}
}

// Rounded returns a copy with every amount rounded to cents.
func (t Totals) Rounded() Totals {
	return Totals{Subtotal: Round2(t.Subtotal), Tax: Round2(t.Tax), Total: Round2(t.Total)}
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Money formats v as a dollar amount.
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", Round2(v))
}
