package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/userdir/directory-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Users  *handlers.UsersHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	users := app.Group("/users")
	users.Get("", cfg.Users.List)
	users.Get("/suggestions", cfg.Users.Suggestions)
	users.Get("/options", cfg.Users.Options)
	users.Post("", cfg.Users.Create)
	users.Get("/:email", cfg.Users.Get)
	users.Put("/:email", cfg.Users.Update)
	users.Post("/:email/delete", cfg.Users.RequestDelete)

	del := app.Group("/delete")
	del.Get("", cfg.Users.StagedDelete)
	del.Post("/confirm", cfg.Users.ConfirmDelete)
	del.Post("/cancel", cfg.Users.CancelDelete)
}
