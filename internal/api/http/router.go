package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Public routes stay outside the
// authentication gate; everything else runs behind it.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/login", cfg.Users.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/users/logout", cfg.Users.Logout)
	authProtected.Get("/users/me", cfg.Users.Me)

	orders := app.Group("/api/orders", cfg.AuthMiddleware.Handle)
	orders.Post("/create", cfg.Orders.Create)
	orders.Post("/update", cfg.Orders.Update)
	orders.Get("/:id", cfg.Orders.Get)
}
