package modules

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/config"
	"gorm.io/gorm"
)

// Module is the interface every feature area of the platform implements.
type Module interface {
	// ID returns the unique module identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts member-facing routes on the given Fiber group.
	// The group is already prefixed with /api and has JWT middleware applied.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminModule extends Module with admin-only route registration.
type AdminModule interface {
	Module

	// RegisterAdminRoutes mounts admin-only routes on the given Fiber group.
	// The group has both JWT and Admin middleware applied.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// PublicModule extends Module with routes that require no authentication.
type PublicModule interface {
	Module

	// RegisterPublicRoutes mounts unauthenticated routes on the /api group.
	RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
