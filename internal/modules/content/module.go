package content

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/config"
	"gorm.io/gorm"
)

type ContentModule struct {
	svc *Service
}

func New(svc *Service) *ContentModule {
	return &ContentModule{svc: svc}
}

func (m *ContentModule) ID() string { return "content" }

func (m *ContentModule) Models() []interface{} {
	return []interface{}{
		&Country{},
		&Announcement{},
		&OutsideCityInterest{},
		&FriendInvitation{},
	}
}

func (m *ContentModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc)

	router.Post("/friend-invitations", handler.CreateInvitation)
	router.Get("/friend-invitations", handler.ListInvitations)
}

func (m *ContentModule) RegisterPublicRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc)

	router.Get("/countries", handler.PublicCountries)
	router.Get("/announcements", handler.PublicFeed)
	router.Post("/friend-invitations/:token/accept", handler.AcceptInvitation)
	router.Post("/friend-invitations/:token/decline", handler.DeclineInvitation)
}

func (m *ContentModule) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc)

	router.Get("/countries", handler.AdminCountries)
	router.Post("/countries", handler.CreateCountry)
	router.Put("/countries/:id", handler.UpdateCountry)
	router.Delete("/countries/:id", handler.DeleteCountry)

	router.Get("/announcements", handler.AdminAnnouncements)
	router.Post("/announcements", handler.CreateAnnouncement)
	router.Put("/announcements/:id", handler.UpdateAnnouncement)
	router.Delete("/announcements/:id", handler.DeleteAnnouncement)

	router.Get("/outside-city-interests", handler.ListInterests)
	router.Get("/outside-city-interests/export", handler.ExportInterests)
}
