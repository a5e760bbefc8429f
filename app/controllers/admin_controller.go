package controllers

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/pkg/collection"
	"github.com/shashiranjanraj/pizzapos/pkg/middleware"
	"github.com/shashiranjanraj/pizzapos/pkg/response"
)

// AdminController serves the order queue, reports and maintenance endpoints.
type AdminController struct {
	service *services.AdminService
	backup  *services.BackupService
}

func NewAdminController(s *services.AdminService, backup *services.BackupService) *AdminController {
	return &AdminController{service: s, backup: backup}
}

// Orders lists orders, optionally filtered with ?status=.
func (c *AdminController) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.Orders(r.URL.Query().Get("status"))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *AdminController) Show(w http.ResponseWriter, r *http.Request) {
	o, err := c.service.Order(orderID(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, o)
}

func (c *AdminController) Events(w http.ResponseWriter, r *http.Request) {
	events, err := c.service.Events(orderID(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, events)
}

type transitionFunc func(ctx context.Context, id, actor string) (*models.Order, error)

func (c *AdminController) transition(fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.UserFromCtx(r)
		o, err := fn(r.Context(), orderID(r), actor)
		if err != nil {
			fail(w, r, err)
			return
		}
		response.Success(w, o)
	}
}

func (c *AdminController) StartPreparing() http.HandlerFunc {
	return c.transition(c.service.StartPreparing)
}

func (c *AdminController) MarkReady() http.HandlerFunc { return c.transition(c.service.MarkReady) }

func (c *AdminController) MarkPickedUp() http.HandlerFunc {
	return c.transition(c.service.MarkPickedUp)
}

func (c *AdminController) Cancel() http.HandlerFunc { return c.transition(c.service.Cancel) }

func (c *AdminController) AssignDriver(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Driver string `json:"driver" validate:"required,plain"`
	}
	if !decode(w, r, &body) {
		return
	}
	actor, _ := middleware.UserFromCtx(r)
	o, err := c.service.AssignDriver(r.Context(), orderID(r), body.Driver, actor)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, o)
}

func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := c.service.Dashboard()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, d)
}

// DailyReport reports on ?date=YYYY-MM-DD, today by default.
func (c *AdminController) DailyReport(w http.ResponseWriter, r *http.Request) {
	d, err := day(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	rep, err := c.service.DailyReport(d)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, rep.Rounded())
}

func (c *AdminController) SalesReport(w http.ResponseWriter, r *http.Request) {
	rep, err := c.service.SalesReport()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, rep.Rounded())
}

// Users lists accounts without their passwords.
func (c *AdminController) Users(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.Users()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, collection.Map(users, func(u models.User) map[string]string {
		return map[string]string{"username": u.Username, "role": string(u.Role)}
	}))
}

// ResetSales archives and deletes the orders of ?date=, today by default.
// The body must carry {"confirm": true}.
func (c *AdminController) ResetSales(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Confirm bool `json:"confirm"`
	}
	if !decode(w, r, &body) {
		return
	}
	d, err := day(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := c.service.ResetSales(r.Context(), d, body.Confirm)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, res)
}

func (c *AdminController) Backup(w http.ResponseWriter, r *http.Request) {
	b, err := c.backup.Run(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, b)
}
