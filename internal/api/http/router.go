package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lenslink/moderation-service/internal/api/http/handlers"
	"github.com/lenslink/moderation-service/internal/auth"
	"github.com/lenslink/moderation-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Reports        *handlers.ReportsHandler
	Admin          *handlers.AdminHandler
	Account        *handlers.AccountHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api")
	api.Get("/reports/reasons", cfg.Reports.Reasons)

	authed := api.Group("", cfg.AuthMiddleware.Handle)
	authed.Get("/me", cfg.Account.Me)

	active := authed.Group("", auth.RequireNotRestricted())
	active.Get("/notifications", cfg.Account.Notifications)
	active.Post("/reports", auth.RequireRole(domain.RoleUser), cfg.Reports.Submit)

	admin := active.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/reports/pending", cfg.Admin.PendingReports)
	admin.Get("/photographers/:id/full", cfg.Admin.PhotographerFull)
	admin.Put("/reports/:id/moderate", cfg.Admin.Moderate)
	admin.Get("/restricted-users", cfg.Admin.RestrictedUsers)
	admin.Put("/unrestrict/:id", cfg.Admin.Unrestrict)
	admin.Get("/stats", cfg.Admin.Stats)
}
