package payments

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/config"
	"gorm.io/gorm"
)

type PaymentsModule struct {
	svc *Service
}

func New(svc *Service) *PaymentsModule {
	return &PaymentsModule{svc: svc}
}

func (m *PaymentsModule) ID() string { return "payments" }

func (m *PaymentsModule) Models() []interface{} {
	return []interface{}{
		&Payment{},
	}
}

func (m *PaymentsModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc, cfg.PaymentWebhookAuth)

	router.Post("/payments", handler.Initiate)
	router.Get("/payments", handler.List)
}

// RegisterPublicRoutes mounts the provider webhook, which authenticates with
// a shared secret instead of a user token, and the sandbox driver outside
// production.
func (m *PaymentsModule) RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc, cfg.PaymentWebhookAuth)

	router.Post("/payments/webhook", handler.Webhook)
	if cfg.Sandbox() {
		router.Post("/sandbox/payments/:ref/:action", handler.SandboxTransition)
	}
}
