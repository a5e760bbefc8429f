package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
)

func TestDefaultMenu(t *testing.T) {
	c := catalog.Default()

	assert.Len(t, c.ListToppings(), 8)
	assert.Len(t, c.ListPizzas(), 6)
	assert.Len(t, c.ListBeverages(), 5)

	p, ok := c.FindPizza("cowabunga-classic")
	require.True(t, ok)
	assert.Equal(t, 8.99, p.BasePrice)

	_, ok = c.FindTopping("pineapple")
	assert.False(t, ok)
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := catalog.Default()

	pizzas := c.ListPizzas()
	pizzas[0].BasePrice = 0
	pizzas[0].DefaultToppings[0] = "anchovies"

	p, _ := c.FindPizza(pizzas[0].ID)
	assert.Equal(t, 8.99, p.BasePrice)
	assert.Equal(t, "pepperoni", p.DefaultToppings[0])

	b, _ := c.FindBeverage("ninja-water")
	b.Prices[catalog.BeverageLarge] = 100

	again, _ := c.FindBeverage("ninja-water")
	assert.Equal(t, 2.49, again.Price(catalog.BeverageLarge))
}

func TestNewCopiesInput(t *testing.T) {
	toppings := []catalog.Topping{{ID: "basil", Name: "Basil", Price: 0.5}}
	c := catalog.New(toppings, nil, nil)
	toppings[0].Price = 9

	got, ok := c.FindTopping("basil")
	require.True(t, ok)
	assert.Equal(t, 0.5, got.Price)
}

func TestSizeParsing(t *testing.T) {
	size, err := catalog.ParsePizzaSize("medium")
	require.NoError(t, err)
	assert.Equal(t, 4.0, size.Surcharge())

	empty, err := catalog.ParsePizzaSize("")
	require.NoError(t, err)
	assert.Equal(t, catalog.PizzaSize(""), empty)

	_, err = catalog.ParsePizzaSize("huge")
	assert.Error(t, err)
	_, err = catalog.ParseCrustType("stuffed")
	assert.Error(t, err)
	_, err = catalog.ParseBeverageSize("bucket")
	assert.Error(t, err)
}
