package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/tablemates/tablemates-backend/internal/config"
	"github.com/tablemates/tablemates-backend/internal/handlers"
	"github.com/tablemates/tablemates-backend/internal/middleware"
	"github.com/tablemates/tablemates-backend/internal/modules"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	settingsHandler *handlers.SettingsHandler,
	legalHandler *handlers.LegalHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	mods []modules.Module,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public app content
	api.Get("/settings", settingsHandler.GetPublic)
	api.Get("/legal/terms", legalHandler.TermsOfService)
	api.Get("/legal/privacy", legalHandler.PrivacyPolicy)
	api.Get("/legal/faq", legalHandler.FAQ)
	api.Get("/legal/guidelines", legalHandler.Guidelines)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/apple", authHandler.AppleSignIn)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so public routes stay untouched
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)
	api.Get("/users/me", middleware.JWTProtected(cfg), userHandler.Me)
	api.Put("/users/me", middleware.JWTProtected(cfg), userHandler.UpdateMe)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Get("/users", userHandler.List)
	admin.Get("/users/export", userHandler.Export)
	admin.Get("/analytics/overview", analyticsHandler.Overview)
	admin.Get("/settings", settingsHandler.GetAll)
	admin.Put("/settings/:key", settingsHandler.SetKey)
	admin.Delete("/settings/:key", settingsHandler.DeleteKey)

	// Role assignment is super-admin only
	api.Put("/admin/users/:id/roles",
		middleware.JWTProtected(cfg), middleware.SuperAdminRequired(db, cfg),
		userHandler.AssignRoles)

	// Feature modules: member routes behind JWT, admin routes behind the
	// admin group, public routes on the bare /api group.
	protected := api.Group("", middleware.JWTProtected(cfg))
	for _, m := range mods {
		m.RegisterRoutes(protected, db, cfg)
		if am, ok := m.(modules.AdminModule); ok {
			am.RegisterAdminRoutes(admin, db, cfg)
		}
		if pm, ok := m.(modules.PublicModule); ok {
			pm.RegisterPublicRoutes(api, db, cfg)
		}
	}
}
