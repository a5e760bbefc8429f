package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/pizzapos/app/catalog"
	"github.com/shashiranjanraj/pizzapos/pkg/response"
)

type MenuController struct {
	menu *catalog.Catalog
}

func NewMenuController(menu *catalog.Catalog) *MenuController {
	return &MenuController{menu: menu}
}

func (c *MenuController) Index(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]any{
		"pizzas":    c.menu.ListPizzas(),
		"toppings":  c.menu.ListToppings(),
		"beverages": c.menu.ListBeverages(),
	})
}
