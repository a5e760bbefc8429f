package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/pricing"
)

// MaxToppings is the most toppings a single pizza can carry.
const MaxToppings = 4

// PizzaChoice describes one pizza line. A nil Toppings list means the pizza's
// default toppings; an empty, non-nil list means plain cheese.
type PizzaChoice struct {
	PizzaID             string   `json:"pizza_id"             validate:"required,plain"`
	Size                string   `json:"size"                 validate:"required,in=personal,small,medium,large"`
	Crust               string   `json:"crust"                validate:"nullable,in=hand-tossed,thin-ninja,deep-dish,ooze-filled"`
	Toppings            []string `json:"toppings"             validate:"plain"`
	Cheese              string   `json:"cheese"               validate:"nullable,plain,max=50"`
	Sauce               string   `json:"sauce"                validate:"nullable,plain,max=50"`
	SpecialInstructions string   `json:"special_instructions" validate:"nullable,plain,max=200"`
	Quantity            int      `json:"quantity"             validate:"gte=0,lte=99"`
}

// BeverageChoice describes one beverage line.
type BeverageChoice struct {
	BeverageID string `json:"beverage_id" validate:"required,plain"`
	Size       string `json:"size"        validate:"required,in=small,medium,large"`
	Quantity   int    `json:"quantity"    validate:"gte=0,lte=99"`
}

// CartService turns menu choices into priced order items.
type CartService struct {
	menu   *catalog.Catalog
	pricer *pricing.Pricer
}

func NewCartService(menu *catalog.Catalog) *CartService {
	return &CartService{menu: menu, pricer: pricing.New(menu)}
}

func (s *CartService) Menu() *catalog.Catalog { return s.menu }

// checkToppings allows at most MaxToppings distinct topping IDs.
func checkToppings(ids []string) error {
	if len(ids) > MaxToppings {
		return &models.ValidationError{Field: "toppings", Message: fmt.Sprintf("at most %d toppings", MaxToppings)}
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return &models.ValidationError{Field: "toppings", Message: "duplicate topping " + id}
		}
		seen[id] = true
	}
	return nil
}

// PizzaItem prices c against the catalog. The unit price is frozen on the
// returned item. A zero quantity means one.
func (s *CartService) PizzaItem(c PizzaChoice) (models.OrderItem, error) {
	if err := check(c); err != nil {
		return models.OrderItem{}, err
	}
	pizza, ok := s.menu.FindPizza(c.PizzaID)
	if !ok {
		return models.OrderItem{}, &models.ValidationError{Field: "pizza_id", Message: "unknown pizza " + c.PizzaID}
	}
	size, err := catalog.ParsePizzaSize(c.Size)
	if err != nil {
		return models.OrderItem{}, err
	}
	crust, err := catalog.ParseCrustType(c.Crust)
	if err != nil {
		return models.OrderItem{}, err
	}
	if crust == "" {
		crust = catalog.CrustHandTossed
	}

	if err := checkToppings(c.Toppings); err != nil {
		return models.OrderItem{}, err
	}
	toppings := c.Toppings
	if toppings == nil {
		toppings = pizza.DefaultToppings
	}
	unit, err := s.pricer.PizzaUnitPrice(pizza, size, toppings)
	if err != nil {
		var unknown *pricing.UnknownToppingError
		if errors.As(err, &unknown) {
			return models.OrderItem{}, &models.ValidationError{Field: "toppings", Message: "unknown topping " + unknown.ID}
		}
		return models.OrderItem{}, err
	}

	return models.OrderItem{
		Type:                models.ItemPizza,
		Name:                pizza.Name,
		UnitPrice:           unit,
		Quantity:            quantity(c.Quantity),
		PizzaSize:           size,
		CrustType:           crust,
		Toppings:            append([]string(nil), toppings...),
		CheeseType:          c.Cheese,
		SauceType:           c.Sauce,
		SpecialInstructions: c.SpecialInstructions,
	}, nil
}

// BeverageItem prices c against the catalog.
func (s *CartService) BeverageItem(c BeverageChoice) (models.OrderItem, error) {
	if err := check(c); err != nil {
		return models.OrderItem{}, err
	}
	bev, ok := s.menu.FindBeverage(c.BeverageID)
	if !ok {
		return models.OrderItem{}, &models.ValidationError{Field: "beverage_id", Message: "unknown beverage " + c.BeverageID}
	}
	size, err := catalog.ParseBeverageSize(c.Size)
	if err != nil {
		return models.OrderItem{}, err
	}
	return models.OrderItem{
		Type:         models.ItemBeverage,
		Name:         bev.Name,
		UnitPrice:    s.pricer.BeverageUnitPrice(bev, size),
		Quantity:     quantity(c.Quantity),
		BeverageSize: size,
	}, nil
}

// Items prices every choice in order, pizzas first.
func (s *CartService) Items(pizzas []PizzaChoice, beverages []BeverageChoice) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(pizzas)+len(beverages))
	for _, c := range pizzas {
		it, err := s.PizzaItem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	for _, c := range beverages {
		it, err := s.BeverageItem(c)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func quantity(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}
