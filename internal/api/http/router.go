package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/parcel-service/internal/api/http/handlers"
	"github.com/spec-kit/parcel-service/internal/auth"
	"github.com/spec-kit/parcel-service/internal/domain"
	"github.com/spec-kit/parcel-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Parcels        *handlers.ParcelsHandler
	Feedback       *handlers.FeedbackHandler
	Support        *handlers.SupportHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authenticated := cfg.AuthMiddleware.Handle
	admin := auth.RequireRole(domain.UserRoleAdmin)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Get("/all", authenticated, admin, cfg.Users.List)
	users.Put("/update/:id", authenticated, auth.RequireAuthenticated(), cfg.Users.Update)
	users.Put("/admin/user/:id", authenticated, admin, cfg.Users.AdminUpdate)
	users.Delete("/delete/:id", authenticated, admin, cfg.Users.Delete)

	parcels := api.Group("/parcels")
	parcels.Post("/add", cfg.Parcels.Add)
	parcels.Get("/all", cfg.Parcels.All)
	parcels.Get("/track/:trackingId", cfg.Parcels.Track)
	parcels.Get("/track/:trackingId/history", cfg.Parcels.History)
	parcels.Put("/update/:id", cfg.Parcels.Update)
	parcels.Put("/status/:id", cfg.Parcels.UpdateStatus)
	parcels.Delete("/delete/:id", authenticated, admin, cfg.Parcels.Delete)
	parcels.Get("/user/:email", cfg.Parcels.ByUser)
	parcels.Get("/status/:status", cfg.Parcels.ByStatus)
	parcels.Get("/stats", cfg.Parcels.Stats)
	parcels.Get("/recent", cfg.Parcels.Recent)
	parcels.Get("/search", cfg.Parcels.Search)

	feedback := api.Group("/feedback")
	feedback.Post("/submit", cfg.Feedback.Submit)
	feedback.Get("/can-give-feedback/:trackingId/:userEmail", cfg.Feedback.CanSubmit)
	feedback.Get("/parcel/:trackingId", cfg.Feedback.ByParcel)
	feedback.Get("/user/:userEmail", cfg.Feedback.ByUser)
	feedback.Get("/stats", cfg.Feedback.Stats)
	feedback.Get("/recent", cfg.Feedback.Recent)
	feedback.Delete("/delete/:id", authenticated, admin, cfg.Feedback.Delete)

	api.Post("/contact/submit", cfg.Support.Contact)

	support := api.Group("/support")
	support.Post("/submit", cfg.Support.Submit)
	support.Get("/user/:email", cfg.Support.ByUser)
	support.Get("/admin/all", authenticated, admin, cfg.Support.All)
	support.Put("/admin/:id/status", authenticated, admin, cfg.Support.UpdateStatus)
}
