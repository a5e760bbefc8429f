package pricing_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
	"github.com/shashiranjanraj/pizzapos/app/pricing"
)

type line float64

func (l line) TotalPrice() float64 { return float64(l) }

func TestPizzaUnitPrice(t *testing.T) {
	menu := catalog.Default()
	p := pricing.New(menu)
	byo, _ := menu.FindPizza("build-your-own")

	price, err := p.PizzaUnitPrice(byo, catalog.SizeLarge, []string{"bacon", "olives"})
	require.NoError(t, err)
	assert.InDelta(t, 7.99+6.00+1.75+1.25, price, 1e-9)

	_, err = p.PizzaUnitPrice(byo, catalog.SizeSmall, []string{"pineapple"})
	var unknown *pricing.UnknownToppingError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "pineapple", unknown.ID)
}

func TestBeverageUnitPrice(t *testing.T) {
	menu := catalog.Default()
	b, _ := menu.FindBeverage("rockin-rhino-rootbeer")
	assert.Equal(t, 3.49, pricing.New(menu).BeverageUnitPrice(b, catalog.BeverageMedium))
}

func TestComputeTotals(t *testing.T) {
	got := pricing.Compute([]line{12.99, 1.50})

	assert.InDelta(t, 14.49, got.Subtotal, 1e-9)
	assert.InDelta(t, got.Subtotal*pricing.TaxRate, got.Tax, 1e-9)
	assert.InDelta(t, got.Subtotal+got.Tax, got.Total, 1e-9)

	r := got.Rounded()
	assert.Equal(t, 14.49, r.Subtotal)
	assert.Equal(t, 1.16, r.Tax)
	assert.Equal(t, 15.65, r.Total)
}

func TestComputeEmpty(t *testing.T) {
	assert.Equal(t, pricing.Totals{}, pricing.Compute([]line(nil)))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$1.16", pricing.Money(1.1592))
	assert.Equal(t, "$0.00", pricing.Money(0))
}
