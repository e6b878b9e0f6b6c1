package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/niftrix/referral-admin/internal/api/http/handlers"
	"github.com/niftrix/referral-admin/internal/auth"
	"github.com/niftrix/referral-admin/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Lifecycle     *handlers.LifecycleHandler
	Members       *handlers.MembersHandler
	Activity      *handlers.ActivityHandler
	Premium       *handlers.PremiumHandler
	Imports       *handlers.ImportHandler
	Notifications *handlers.NotificationHandler
	Audit         *handlers.AuditHandler
	Gate          *auth.Gate
	Metrics       *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/admin-api")
	api.Post("/auth/login", cfg.Auth.Login)
	api.Post("/auth/logout", cfg.Auth.Logout)

	protected := api.Group("", cfg.Gate.Handle)
	protected.Get("/get-profile", cfg.Auth.Profile)

	users := protected.Group("/users")
	users.Post("/set-user-verified", cfg.Lifecycle.Verify)
	users.Post("/suspend-user", cfg.Lifecycle.Suspend)
	users.Post("/fetch-all-users", cfg.Members.List)
	users.Post("/search-profiles", cfg.Members.Search)
	users.Get("/fetch-user-detail", cfg.Members.Detail)
	users.Post("/activity-history", cfg.Activity.History)
	users.Post("/premium-banner-activity", cfg.Activity.PremiumBanners)
	users.Post("/trending-banner-activity", cfg.Activity.TrendingBanners)
	users.Post("/featured-profile-activity", cfg.Activity.FeaturedProfiles)
	users.Post("/search-preference-activity", cfg.Activity.SearchPreferences)
	users.Post("/referrals-given-activity", cfg.Activity.ReferralsGiven)
	users.Post("/referrals-received-activity", cfg.Activity.ReferralsReceived)
	users.Post("/add-users-from-csv", cfg.Imports.Users)
	users.Post("/send-notification", cfg.Notifications.Send)
	users.Post("/audit-history", cfg.Audit.History)

	protected.Post("/premium/fetch-payments", cfg.Premium.Payments)
	protected.Post("/content/fetch-all-banners", cfg.Premium.Banners)

	settings := protected.Group("/settings")
	settings.Post("/add-club", cfg.Imports.Club)
	settings.Post("/add-industry", cfg.Imports.Industry)
}
