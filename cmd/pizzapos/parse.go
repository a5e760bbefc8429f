package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/pizzapos/app/services"
)

// parsePizza reads id:size[:crust[:toppings[:qty]]]. Toppings are joined
// with "+"; "none" means plain cheese and an omitted or empty field keeps the
// pizza's default toppings.
func parsePizza(arg string) (services.PizzaChoice, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 5 {
		return services.PizzaChoice{}, fmt.Errorf("pizza %q: want id:size[:crust[:toppings[:qty]]]", arg)
	}
	c := services.PizzaChoice{PizzaID: parts[0], Size: parts[1]}
	if len(parts) > 2 {
		c.Crust = parts[2]
	}
	if len(parts) > 3 {
		switch t := parts[3]; t {
		case "":
		case "none":
			c.Toppings = []string{}
		default:
			c.Toppings = strings.Split(t, "+")
		}
	}
	if len(parts) > 4 {
		q, err := strconv.Atoi(parts[4])
		if err != nil {
			return services.PizzaChoice{}, fmt.Errorf("pizza %q: bad quantity %q", arg, parts[4])
		}
		c.Quantity = q
	}
	return c, nil
}

// parseBeverage reads id:size[:qty].
func parseBeverage(arg string) (services.BeverageChoice, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return services.BeverageChoice{}, fmt.Errorf("beverage %q: want id:size[:qty]", arg)
	}
	c := services.BeverageChoice{BeverageID: parts[0], Size: parts[1]}
	if len(parts) == 3 {
		q, err := strconv.Atoi(parts[2])
		if err != nil {
			return services.BeverageChoice{}, fmt.Errorf("beverage %q: bad quantity %q", arg, parts[2])
		}
		c.Quantity = q
	}
	return c, nil
}
