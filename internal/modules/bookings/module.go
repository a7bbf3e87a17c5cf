package bookings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/config"
	"gorm.io/gorm"
)

type BookingsModule struct {
	svc *Service
}

func New(svc *Service) *BookingsModule {
	return &BookingsModule{svc: svc}
}

func (m *BookingsModule) ID() string { return "bookings" }

func (m *BookingsModule) Models() []interface{} {
	return []interface{}{
		&Booking{},
	}
}

func (m *BookingsModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc)

	router.Get("/bookings", handler.List)
	router.Post("/bookings", handler.Create)
	router.Post("/bookings/:id/cancel", handler.Cancel)
	router.Post("/bookings/:id/reschedule", handler.Reschedule)
}
