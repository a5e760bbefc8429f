package routes

import (
	"net/http"

	"github.com/shashiranjanraj/pizzapos/app/controllers"
	"github.com/shashiranjanraj/pizzapos/app/models"
	"github.com/shashiranjanraj/pizzapos/app/services"
	"github.com/shashiranjanraj/pizzapos/pkg/auth"
	"github.com/shashiranjanraj/pizzapos/pkg/metrics"
	"github.com/shashiranjanraj/pizzapos/pkg/middleware"
	"github.com/shashiranjanraj/pizzapos/pkg/rbac"
	"github.com/shashiranjanraj/pizzapos/pkg/response"
	"github.com/shashiranjanraj/pizzapos/pkg/router"
)

func RegisterAPI(r *router.Router, svc *services.Set, iss *auth.Issuer) {
	authController := controllers.NewAuthController(svc.Auth)
	menuController := controllers.NewMenuController(svc.Cart.Menu())
	orderController := controllers.NewOrderController(svc.Orders)
	adminController := controllers.NewAdminController(svc.Admin, svc.Backup)
	driverController := controllers.NewDriverController(svc.Drivers)

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")
	api.Post("/signup", "auth.signup", authController.Signup)
	api.Post("/login", "auth.login", authController.Login)
	api.Get("/menu", "menu.index", menuController.Index)

	protected := api.Group("", middleware.Auth(iss))
	protected.Get("/me", "auth.me", authController.Me)

	orders := protected.Group("/orders", rbac.HasRole(string(models.RoleCustomer)))
	orders.Get("", "orders.history", orderController.History)
	orders.Post("", "orders.place", orderController.Place)
	orders.Post("/quote", "orders.quote", orderController.Quote)
	orders.Get("/{id}", "orders.show", orderController.Show)
	orders.Get("/{id}/events", "orders.events", orderController.Events)
	orders.Post("/{id}/cancel", "orders.cancel", orderController.Cancel)

	admin := protected.Group("/admin", rbac.HasRole(string(models.RoleAdmin)))
	admin.Get("/orders", "admin.orders", adminController.Orders)
	admin.Get("/orders/{id}", "admin.orders.show", adminController.Show)
	admin.Get("/orders/{id}/events", "admin.orders.events", adminController.Events)
	admin.Post("/orders/{id}/start", "admin.orders.start", adminController.StartPreparing())
	admin.Post("/orders/{id}/ready", "admin.orders.ready", adminController.MarkReady())
	admin.Post("/orders/{id}/picked-up", "admin.orders.picked_up", adminController.MarkPickedUp())
	admin.Post("/orders/{id}/cancel", "admin.orders.cancel", adminController.Cancel())
	admin.Post("/orders/{id}/assign", "admin.orders.assign", adminController.AssignDriver)
	admin.Get("/dashboard", "admin.dashboard", adminController.Dashboard)
	admin.Get("/reports/daily", "admin.reports.daily", adminController.DailyReport)
	admin.Get("/reports/sales", "admin.reports.sales", adminController.SalesReport)
	admin.Get("/users", "admin.users", adminController.Users)
	admin.Post("/reset-sales", "admin.reset_sales", adminController.ResetSales)
	admin.Post("/backup", "admin.backup", adminController.Backup)

	driver := protected.Group("/driver", rbac.HasRole(string(models.RoleDriver)))
	driver.Get("/available", "driver.available", driverController.Available)
	driver.Get("/deliveries", "driver.deliveries", driverController.Deliveries)
	driver.Get("/tips", "driver.tips", driverController.Tips)
	driver.Post("/orders/{id}/claim", "driver.claim", driverController.Claim)
	driver.Post("/orders/{id}/complete", "driver.complete", driverController.Complete)
	driver.Post("/orders/{id}/tip", "driver.tip", driverController.Tip)
}
