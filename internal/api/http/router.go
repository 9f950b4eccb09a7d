package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-queue/internal/api/http/handlers"
	"github.com/spec-kit/demand-queue/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Demands        *handlers.DemandsHandler
	Operators      *handlers.OperatorsHandler
	Picklists      *handlers.PicklistsHandler
	Reports        *handlers.ReportsHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	demands := app.Group("/demands")
	demands.Post("", cfg.Demands.Create)
	demands.Get("", cfg.Demands.ListActive)
	demands.Get("/stream", cfg.Demands.Stream)
	demands.Get("/:id", cfg.Demands.Get)
	demands.Post("/:id/claim", cfg.Demands.Claim)
	demands.Post("/:id/complete", cfg.Demands.Complete)
	demands.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Demands.Delete)

	operators := app.Group("/operators")
	operators.Get("", cfg.Operators.List)
	operators.Post("", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Operators.Create)
	operators.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Operators.Rename)
	operators.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Operators.Delete)

	picklists := app.Group("/picklists")
	picklists.Get("/:kind", cfg.Picklists.List)
	picklists.Post("/:kind", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Picklists.Add)
	picklists.Delete("/:kind", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Picklists.Remove)

	app.Get("/reports/daily", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Reports.Daily)
}
