package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/claims-service/internal/api/http/handlers"
	"github.com/spec-kit/claims-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Claims         *handlers.ClaimsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	claims := app.Group("/claims", cfg.AuthMiddleware.Handle)
	// report routes come first so "report" is not captured as a claim id
	claims.Post("/report", cfg.Reports.Generate)
	claims.Get("/report/:task_id", cfg.Reports.Status)
	claims.Get("/", cfg.Claims.List)
	claims.Post("/", cfg.Claims.Add)
	claims.Get("/:id", cfg.Claims.Get)
	claims.Put("/:id", cfg.Claims.UpdateStatus)
	claims.Delete("/:id", cfg.Claims.Delete)

	app.Get("/download/:task_id", cfg.AuthMiddleware.Handle, cfg.Reports.Download)
}
