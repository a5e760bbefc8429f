package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/pkg/middleware"
	"github.com/shashiranjanraj/pizzapos/pkg/response"
)

type DriverController struct {
	service *services.DriverService
}

func NewDriverController(s *services.DriverService) *DriverController {
	return &DriverController{service: s}
}

func (c *DriverController) Available(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.Available()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *DriverController) Claim(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.UserFromCtx(r)
	o, err := c.service.Claim(r.Context(), orderID(r), driver)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, o)
}

func (c *DriverController) Deliveries(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.UserFromCtx(r)
	orders, err := c.service.Deliveries(driver)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *DriverController) Complete(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.UserFromCtx(r)
	o, err := c.service.Complete(r.Context(), orderID(r), driver)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, o)
}

func (c *DriverController) Tip(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount float64 `json:"amount" validate:"gte=0"`
	}
	if !decode(w, r, &body) {
		return
	}
	driver, _ := middleware.UserFromCtx(r)
	tip, err := c.service.RecordTip(r.Context(), orderID(r), driver, body.Amount)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, tip)
}

func (c *DriverController) Tips(w http.ResponseWriter, r *http.Request) {
	driver, _ := middleware.UserFromCtx(r)
	sum, err := c.service.Tips(driver)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, sum)
}
