package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/tablemates/tablemates-backend/internal/config"
	"github.com/tablemates/tablemates-backend/internal/database"
	"github.com/tablemates/tablemates-backend/internal/handlers"
	"github.com/tablemates/tablemates-backend/internal/logging"
	"github.com/tablemates/tablemates-backend/internal/middleware"
	"github.com/tablemates/tablemates-backend/internal/modules"
	"github.com/tablemates/tablemates-backend/internal/modules/assessment"
	"github.com/tablemates/tablemates-backend/internal/modules/bookings"
	"github.com/tablemates/tablemates-backend/internal/modules/content"
	"github.com/tablemates/tablemates-backend/internal/modules/credits"
	"github.com/tablemates/tablemates-backend/internal/modules/events"
	"github.com/tablemates/tablemates-backend/internal/modules/pairing"
	"github.com/tablemates/tablemates-backend/internal/modules/payments"
	"github.com/tablemates/tablemates-backend/internal/routes"
	"github.com/tablemates/tablemates-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Assessment step definitions: built-in set unless overridden by file
	registry := assessment.DefaultRegistry()
	if cfg.StepsConfigPath != "" {
		var err error
		registry, err = assessment.LoadFromFile(cfg.StepsConfigPath)
		if err != nil {
			slog.Error("failed to load step definitions", "path", cfg.StepsConfigPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("assessment steps loaded", "steps", registry.Last())

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared models
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Services. Credits feed bookings, bookings gate content and events,
	// content records the wizard's outside-city branch.
	authService := services.NewAuthService(database.DB, cfg)
	creditService := credits.NewService(database.DB)
	bookingService := bookings.NewService(database.DB, creditService)
	contentService := content.NewService(database.DB, bookingService)
	assessmentService := assessment.NewService(database.DB, registry, contentService)
	pairingService := pairing.NewService(database.DB, assessmentService)
	paymentService := payments.NewService(database.DB, bookingService, cfg.DefaultCurrency)

	mods := []modules.Module{
		assessment.New(assessmentService),
		events.New(bookingService),
		bookings.New(bookingService),
		credits.New(creditService),
		pairing.New(pairingService),
		payments.New(paymentService),
		content.New(contentService),
	}

	// Migrate module models
	for _, m := range mods {
		if models := m.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("module migration failed", "module", m.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("module migrated", "module", m.ID(), "models", len(models))
		}
	}

	// Handlers for the shared surfaces
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	userHandler := handlers.NewUserHandler(database.DB)
	settingsHandler := handlers.NewSettingsHandler(database.DB)
	legalHandler := handlers.NewLegalHandler()
	analyticsHandler := handlers.NewAnalyticsHandler(database.DB)

	slog.Info("seeding settings defaults")
	if err := settingsHandler.SeedDefaults(); err != nil {
		slog.Error("settings seed failed", "error", err)
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, userHandler,
		settingsHandler, legalHandler, analyticsHandler, mods)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
