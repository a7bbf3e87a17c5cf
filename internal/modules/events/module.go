package events

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/config"
	"gorm.io/gorm"
)

type EventsModule struct {
	bookings BookingChecker
}

func New(bookings BookingChecker) *EventsModule {
	return &EventsModule{bookings: bookings}
}

func (m *EventsModule) ID() string { return "events" }

func (m *EventsModule) Models() []interface{} {
	return []interface{}{
		&Event{},
		&Venue{},
		&Icebreaker{},
	}
}

func (m *EventsModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(db, m.bookings)

	router.Get("/events", handler.List)
	router.Get("/events/:id", handler.Detail)
	router.Get("/events/:id/conversation-starters", handler.ConversationStarters)
}

func (m *EventsModule) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(db, m.bookings)

	router.Get("/events", handler.AdminList)
	router.Post("/events", handler.Create)
	router.Put("/events/:id", handler.Update)
	router.Delete("/events/:id", handler.Delete)
	router.Put("/events/:id/snapshot", handler.SetSnapshot)
	router.Post("/events/:id/icebreakers", handler.AddIcebreaker)
	router.Delete("/icebreakers/:id", handler.DeleteIcebreaker)

	router.Get("/venues", handler.ListVenues)
	router.Post("/venues", handler.CreateVenue)
	router.Put("/venues/:id", handler.UpdateVenue)
	router.Delete("/venues/:id", handler.DeleteVenue)
}
