package credits

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/config"
	"gorm.io/gorm"
)

type CreditsModule struct {
	svc *Service
}

func New(svc *Service) *CreditsModule {
	return &CreditsModule{svc: svc}
}

func (m *CreditsModule) ID() string { return "credits" }

func (m *CreditsModule) Models() []interface{} {
	return []interface{}{
		&CreditTransaction{},
	}
}

func (m *CreditsModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc)

	router.Get("/credits", handler.GetLedger)
}

func (m *CreditsModule) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc)

	router.Post("/users/:id/credits/grant", handler.AdminGrant)
	router.Post("/users/:id/credits/revoke", handler.AdminRevoke)
}
