package content

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/authn"
	"github.com/tablemates/tablemates-backend/internal/dto"
	"github.com/tablemates/tablemates-backend/internal/export"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// --- countries ---

// PublicCountries handles GET /countries: the active countries and their
// served cities, as the signup wizard consumes them.
func (h *Handler) PublicCountries(c *fiber.Ctx) error {
	countries, err := h.svc.PublicCountries()
	if err != nil {
		return internalError(c, "Failed to load countries")
	}
	return c.JSON(countries)
}

func (h *Handler) AdminCountries(c *fiber.Ctx) error {
	countries, err := h.svc.AllCountries()
	if err != nil {
		return internalError(c, "Failed to load countries")
	}
	return c.JSON(countries)
}

func (h *Handler) CreateCountry(c *fiber.Ctx) error {
	var req UpsertCountryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.Code == "" {
		return badRequest(c, "Name and code are required")
	}
	country, err := h.svc.CreateCountry(req)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Country already exists",
			})
		}
		return internalError(c, "Failed to create country")
	}
	return c.Status(fiber.StatusCreated).JSON(country)
}

func (h *Handler) UpdateCountry(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid country ID")
	}
	var req UpsertCountryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	country, err := h.svc.UpdateCountry(id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to update country")
	}
	return c.JSON(country)
}

func (h *Handler) DeleteCountry(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid country ID")
	}
	if err := h.svc.DeleteCountry(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to delete country")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- announcements ---

func (h *Handler) PublicFeed(c *fiber.Ctx) error {
	announcements, err := h.svc.PublicFeed()
	if err != nil {
		return internalError(c, "Failed to load announcements")
	}
	return c.JSON(announcements)
}

func (h *Handler) AdminAnnouncements(c *fiber.Ctx) error {
	announcements, err := h.svc.AllAnnouncements()
	if err != nil {
		return internalError(c, "Failed to load announcements")
	}
	return c.JSON(announcements)
}

func (h *Handler) CreateAnnouncement(c *fiber.Ctx) error {
	var req UpsertAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Title == "" {
		return badRequest(c, "Title is required")
	}
	announcement, err := h.svc.CreateAnnouncement(req)
	if err != nil {
		return internalError(c, "Failed to create announcement")
	}
	return c.Status(fiber.StatusCreated).JSON(announcement)
}

func (h *Handler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}
	var req UpsertAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	announcement, err := h.svc.UpdateAnnouncement(id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to update announcement")
	}
	return c.JSON(announcement)
}

func (h *Handler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid announcement ID")
	}
	if err := h.svc.DeleteAnnouncement(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to delete announcement")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- outside-city interests ---

func (h *Handler) ListInterests(c *fiber.Ctx) error {
	interests, err := h.svc.ListInterests()
	if err != nil {
		return internalError(c, "Failed to load interests")
	}
	return c.JSON(interests)
}

func (h *Handler) ExportInterests(c *fiber.Ctx) error {
	interests, err := h.svc.ListInterests()
	if err != nil {
		return internalError(c, "Failed to load interests")
	}
	rows := make([][]string, 0, len(interests))
	for _, i := range interests {
		rows = append(rows, []string{
			i.UserID.String(),
			i.Country,
			i.City,
			i.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return export.Send(c, "outside-city-interests.csv",
		[]string{"user_id", "country", "city", "created_at"}, rows)
}

// --- friend invitations ---

func (h *Handler) CreateInvitation(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req CreateInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.EventID == uuid.Nil {
		return badRequest(c, "event_id is required")
	}
	invitation, err := h.svc.CreateInvitation(userID, req)
	if err != nil {
		if errors.Is(err, ErrNoBooking) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "You need an active booking to invite a friend",
			})
		}
		return internalError(c, "Failed to create invitation")
	}
	return c.Status(fiber.StatusCreated).JSON(invitation)
}

func (h *Handler) ListInvitations(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	invitations, err := h.svc.ListInvitations(userID)
	if err != nil {
		return internalError(c, "Failed to load invitations")
	}
	return c.JSON(invitations)
}

// AcceptInvitation and DeclineInvitation answer by token, no login needed.
func (h *Handler) AcceptInvitation(c *fiber.Ctx) error {
	return h.respond(c, true)
}

func (h *Handler) DeclineInvitation(c *fiber.Ctx) error {
	return h.respond(c, false)
}

func (h *Handler) respond(c *fiber.Ctx, accept bool) error {
	invitation, err := h.svc.RespondToInvitation(c.Params("token"), accept)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c)
		}
		if errors.Is(err, ErrAnswered) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "This invitation has already been answered",
			})
		}
		return internalError(c, "Failed to update invitation")
	}
	return c.JSON(invitation)
}

// --- helpers ---

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: "Not found",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
