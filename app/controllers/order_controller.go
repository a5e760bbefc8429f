package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/pkg/bind"
	"github.com/shashiranjanraj/pizzapos/pkg/middleware"
	"github.com/shashiranjanraj/pizzapos/pkg/response"
)

// OrderController serves the customer's own orders.
type OrderController struct {
	service *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{service: s}
}

// checkoutInput decodes the cart and takes the customer from the token. The
// service validates the whole input once Customer is set.
func (c *OrderController) checkoutInput(w http.ResponseWriter, r *http.Request) (services.CheckoutInput, bool) {
	var in services.CheckoutInput
	if err := bind.Decode(w, r, &in); err != nil {
		fail(w, r, err)
		return in, false
	}
	in.Customer, _ = middleware.UserFromCtx(r)
	return in, true
}

// Quote prices a cart without saving it.
func (c *OrderController) Quote(w http.ResponseWriter, r *http.Request) {
	in, ok := c.checkoutInput(w, r)
	if !ok {
		return
	}
	o, err := c.service.Quote(in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, o)
}

func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	in, ok := c.checkoutInput(w, r)
	if !ok {
		return
	}
	o, err := c.service.Checkout(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, o)
}

func (c *OrderController) History(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromCtx(r)
	orders, err := c.service.History(user)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromCtx(r)
	o, err := c.service.Order(orderID(r), user)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, o)
}

func (c *OrderController) Events(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromCtx(r)
	if _, err := c.service.Order(orderID(r), user); err != nil {
		fail(w, r, err)
		return
	}
	events, err := c.service.Events(orderID(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, events)
}

func (c *OrderController) Cancel(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.UserFromCtx(r)
	o, err := c.service.CancelOwn(r.Context(), orderID(r), user)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, o)
}
