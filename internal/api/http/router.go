package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cloudavize/ticket-relay/internal/api/http/handlers"
	"github.com/cloudavize/ticket-relay/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Notify         *handlers.NotifyHandler
	Messages       *handlers.MessagesHandler
	Assignments    *handlers.AssignmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/notify", cfg.AuthMiddleware.Handle, cfg.Notify.Notify)
	app.Post("/api/messages", cfg.Messages.Receive)

	app.Get("/assignments", cfg.AuthMiddleware.Handle, cfg.Assignments.ListRecent)
}
