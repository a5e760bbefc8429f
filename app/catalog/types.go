package catalog

import "fmt"

// Topping is a priced pizza add-on.
type Topping struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Pizza is a menu pizza. DefaultToppings lists the topping IDs it comes with;
// like any other topping each one is charged on top of BasePrice.
type Pizza struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	BasePrice       float64  `json:"base_price"`
	DefaultToppings []string `json:"default_toppings"`
}

// Beverage carries one price per cup size.
type Beverage struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Prices      map[BeverageSize]float64 `json:"prices"`
}

// Price returns the price for size, falling back to the small price.
func (b Beverage) Price(size BeverageSize) float64 {
	if p, ok := b.Prices[size]; ok {
		return p
	}
	return b.Prices[BeverageSmall]
}

// PizzaSize is a pizza size with a surcharge over the base price.
type PizzaSize string

const (
	SizePersonal PizzaSize = "personal"
	SizeSmall    PizzaSize = "small"
	SizeMedium   PizzaSize = "medium"
	SizeLarge    PizzaSize = "large"
)

var pizzaSizes = map[PizzaSize]struct {
	label     string
	surcharge float64
}{
	SizePersonal: {`Personal (8")`, 0.00},
	SizeSmall:    {`Small (10")`, 2.00},
	SizeMedium:   {`Medium (12")`, 4.00},
	SizeLarge:    {`Large (16")`, 6.00},
}

// Surcharge is the amount added to a pizza's base price for this size.
func (s PizzaSize) Surcharge() float64 { return pizzaSizes[s].surcharge }

func (s PizzaSize) Label() string { return pizzaSizes[s].label }

func (s PizzaSize) Valid() bool {
	_, ok := pizzaSizes[s]
	return ok
}

// CrustType is the dough choice. It does not affect price.
type CrustType string

const (
	CrustHandTossed CrustType = "hand-tossed"
	CrustThinNinja  CrustType = "thin-ninja"
	CrustDeepDish   CrustType = "deep-dish"
	CrustOozeFilled CrustType = "ooze-filled"
)

var crustLabels = map[CrustType]string{
	CrustHandTossed: "Hand-Tossed",
	CrustThinNinja:  "Thin Ninja Style",
	CrustDeepDish:   "Deep Dish",
	CrustOozeFilled: "Ooze Filled Crust (Provolone Cheese Filled Crust)",
}

func (c CrustType) Label() string { return crustLabels[c] }

func (c CrustType) Valid() bool {
	_, ok := crustLabels[c]
	return ok
}

// BeverageSize indexes a beverage's price triplet.
type BeverageSize string

const (
	BeverageSmall  BeverageSize = "small"
	BeverageMedium BeverageSize = "medium"
	BeverageLarge  BeverageSize = "large"
)

var beverageLabels = map[BeverageSize]string{
	BeverageSmall:  "Small (12 oz)",
	BeverageMedium: "Medium (20 oz)",
	BeverageLarge:  "Large (32 oz)",
}

func (s BeverageSize) Label() string { return beverageLabels[s] }

func (s BeverageSize) Valid() bool {
	_, ok := beverageLabels[s]
	return ok
}

// ParsePizzaSize accepts the persisted form of a size. Empty means unset.
func ParsePizzaSize(s string) (PizzaSize, error) {
	size := PizzaSize(s)
	if s == "" || size.Valid() {
		return size, nil
	}
	return "", fmt.Errorf("catalog: unknown pizza size %q", s)
}

// ParseCrustType accepts the persisted form of a crust. Empty means unset.
func ParseCrustType(s string) (CrustType, error) {
	crust := CrustType(s)
	if s == "" || crust.Valid() {
		return crust, nil
	}
	return "", fmt.Errorf("catalog: unknown crust type %q", s)
}

// ParseBeverageSize accepts the persisted form of a cup size. Empty means unset.
func ParseBeverageSize(s string) (BeverageSize, error) {
	size := BeverageSize(s)
	if s == "" || size.Valid() {
		return size, nil
	}
	return "", fmt.Errorf("catalog: unknown beverage size %q", s)
}
