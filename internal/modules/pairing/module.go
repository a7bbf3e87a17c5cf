package pairing

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/config"
	"gorm.io/gorm"
)

// PairingModule is admin-only: members never see the seating workspace.
type PairingModule struct {
	svc *Service
}

func New(svc *Service) *PairingModule {
	return &PairingModule{svc: svc}
}

func (m *PairingModule) ID() string { return "pairing" }

func (m *PairingModule) Models() []interface{} {
	return []interface{}{
		&PairingGuest{},
		&PairingRestaurant{},
		&PairingTable{},
		&PairingConstraint{},
		&PairingAssignment{},
		&PairingAudit{},
	}
}

func (m *PairingModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	// no member-facing routes
}

func (m *PairingModule) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc)
	g := router.Group("/pairing/:eventId")

	g.Get("/dashboard", handler.Dashboard)

	g.Get("/guests", handler.ListGuests)
	g.Post("/guests", handler.AddGuest)
	g.Put("/guests/:guestId", handler.UpdateGuest)
	g.Delete("/guests/:guestId", handler.DeleteGuest)
	g.Post("/guests/import", handler.ImportGuests)
	g.Post("/guests/categorize", handler.CategorizeAll)
	g.Get("/guests/export", handler.ExportGuests)

	g.Get("/restaurants", handler.ListRestaurants)
	g.Post("/restaurants", handler.AddRestaurant)
	g.Delete("/restaurants/:restaurantId", handler.DeleteRestaurant)

	g.Get("/tables", handler.ListTables)
	g.Post("/tables", handler.AddTable)
	g.Delete("/tables/:tableId", handler.DeleteTable)

	g.Get("/constraints", handler.ListConstraints)
	g.Post("/constraints", handler.AddConstraint)
	g.Delete("/constraints/:constraintId", handler.DeleteConstraint)

	g.Get("/assignments", handler.ListAssignments)
	g.Get("/assignments/export", handler.ExportAssignments)
	g.Post("/assignments", handler.ManualAssign)
	g.Delete("/assignments/:guestId", handler.Unassign)

	g.Post("/generate", handler.GenerateGroups)
	g.Post("/rebalance", handler.Rebalance)
	g.Get("/suggestions", handler.Suggest)

	g.Post("/lock", handler.Lock)
	g.Get("/audit", handler.AuditLog)
}
