package catalog

// Default returns the shop's standard menu.
func Default() *Catalog {
	return New(defaultToppings(), defaultPizzas(), defaultBeverages())
}

func defaultToppings() []Topping {
	return []Topping{
		{ID: "pepperoni", Name: "Pepperoni", Price: 1.50},
		{ID: "sausage", Name: "Italian Sausage", Price: 1.50},
		{ID: "mushrooms", Name: "Fresh Mushrooms", Price: 1.25},
		{ID: "onions", Name: "Onions", Price: 1.00},
		{ID: "bell-peppers", Name: "Bell Peppers", Price: 1.00},
		{ID: "olives", Name: "Black Olives", Price: 1.25},
		{ID: "bacon", Name: "Crispy Bacon", Price: 1.75},
		{ID: "extra-cheese", Name: "Extra Cheese", Price: 1.50},
	}
}

func defaultPizzas() []Pizza {
	return []Pizza{
		{
			ID: "cowabunga-classic", Name: "Cowabunga Classic",
			Description:     "Crispy pepperoni and melty mozzarella",
			BasePrice:       8.99,
			DefaultToppings: []string{"pepperoni", "extra-cheese"},
		},
		{
			ID: "shredder-supreme", Name: "Shredder Supreme",
			Description:     "Sausage, mushroom and green peppers",
			BasePrice:       11.99,
			DefaultToppings: []string{"sausage", "mushrooms", "bell-peppers"},
		},
		{
			ID: "mutant-veggie-melt", Name: "Mutant Veggie Melt",
			Description:     "Spinach, red peppers, mushrooms and black olives",
			BasePrice:       9.99,
			DefaultToppings: []string{"mushrooms", "bell-peppers", "olives"},
		},
		{
			ID: "ninja-chicken", Name: "Ninja Chicken Combo",
			Description:     "Grilled chicken, smoky bacon and red onions",
			BasePrice:       11.99,
			DefaultToppings: []string{"bacon", "onions"},
		},
		{
			ID: "splinters-wisdom", Name: "Splinter's Wisdom",
			Description:     "Alfredo base with ricotta, mozzarella and parmesan",
			BasePrice:       8.99,
			DefaultToppings: []string{"extra-cheese"},
		},
		{
			ID: "build-your-own", Name: "Build Your Own",
			Description: "Classic cheese plus up to 4 toppings of your choice",
			BasePrice:   7.99,
		},
	}
}

func defaultBeverages() []Beverage {
	prices := func(s, m, l float64) map[BeverageSize]float64 {
		return map[BeverageSize]float64{BeverageSmall: s, BeverageMedium: m, BeverageLarge: l}
	}
	return []Beverage{
		{ID: "mutant-ooze", Name: "Mutant Ooze", Description: "Lime soda, pineapple juice and a splash of coconut", Prices: prices(1.99, 2.49, 2.99)},
		{ID: "turtle-juice", Name: "Turtle Juice", Description: "Spinach, kiwi and green apple", Prices: prices(1.99, 2.49, 2.99)},
		{ID: "rockin-rhino-rootbeer", Name: "Rockin Rhino Rootbeer", Description: "Vanilla and sassafras with a creamy foam top", Prices: prices(2.99, 3.49, 3.99)},
		{ID: "fruit-ninja", Name: "Fruit Ninja", Description: "Strawberry, mango, pineapple and orange", Prices: prices(2.99, 3.49, 3.99)},
		{ID: "ninja-water", Name: "Ninja Water", Description: "Bottled water", Prices: prices(1.49, 1.99, 2.49)},
	}
}
