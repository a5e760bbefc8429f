// Package catalog holds the shop's menu as an immutable value.
//
// A Catalog is built once at startup (Default, or New for a custom menu) and
// passed to whatever needs it. Every accessor hands out copies, so callers
// cannot change what other callers see.
package catalog

// Catalog is read-only reference data for pizzas, toppings and beverages.
type Catalog struct {
	toppings  []Topping
	pizzas    []Pizza
	beverages []Beverage
}

// New copies the given entries into a Catalog.
func New(toppings []Topping, pizzas []Pizza, beverages []Beverage) *Catalog {
	c := &Catalog{
		toppings:  append([]Topping(nil), toppings...),
		pizzas:    make([]Pizza, len(pizzas)),
		beverages: make([]Beverage, len(beverages)),
	}
	for i, p := range pizzas {
		c.pizzas[i] = copyPizza(p)
	}
	for i, b := range beverages {
		c.beverages[i] = copyBeverage(b)
	}
	return c
}

func (c *Catalog) ListToppings() []Topping {
	return append([]Topping(nil), c.toppings...)
}

func (c *Catalog) ListPizzas() []Pizza {
	out := make([]Pizza, len(c.pizzas))
	for i, p := range c.pizzas {
		out[i] = copyPizza(p)
	}
	return out
}

func (c *Catalog) ListBeverages() []Beverage {
	out := make([]Beverage, len(c.beverages))
	for i, b := range c.beverages {
		out[i] = copyBeverage(b)
	}
	return out
}

func (c *Catalog) FindTopping(id string) (Topping, bool) {
	for _, t := range c.toppings {
		if t.ID == id {
			return t, true
		}
	}
	return Topping{}, false
}

func (c *Catalog) FindPizza(id string) (Pizza, bool) {
	for _, p := range c.pizzas {
		if p.ID == id {
			return copyPizza(p), true
		}
	}
	return Pizza{}, false
}

func (c *Catalog) FindBeverage(id string) (Beverage, bool) {
	for _, b := range c.beverages {
		if b.ID == id {
			return copyBeverage(b), true
		}
	}
	return Beverage{}, false
}

func copyPizza(p Pizza) Pizza {
	p.DefaultToppings = append([]string(nil), p.DefaultToppings...)
	return p
}

func copyBeverage(b Beverage) Beverage {
	prices := make(map[BeverageSize]float64, len(b.Prices))
	for k, v := range b.Prices {
		prices[k] = v
	}
	b.Prices = prices
	return b
}
