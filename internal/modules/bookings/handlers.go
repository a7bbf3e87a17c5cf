package bookings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/authn"
	"github.com/tablemates/tablemates-backend/internal/dto"
	"github.com/tablemates/tablemates-backend/internal/modules/credits"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /bookings.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	bookings, err := h.svc.List(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load bookings",
		})
	}
	return c.JSON(bookings)
}

// Create handles POST /bookings.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.EventID == uuid.Nil {
		return badRequest(c, "event_id is required")
	}

	booking, err := h.svc.Create(userID, req)
	if err != nil {
		return bookingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// Cancel handles POST /bookings/:id/cancel.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid booking ID")
	}

	booking, err := h.svc.Cancel(userID, bookingID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(booking)
}

// Reschedule handles POST /bookings/:id/reschedule.
func (h *Handler) Reschedule(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	bookingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid booking ID")
	}

	var req RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.NewEventID == uuid.Nil {
		return badRequest(c, "new_event_id is required")
	}

	booking, err := h.svc.Reschedule(userID, bookingID, req.NewEventID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// bookingError maps service errors onto the status codes the client expects.
// The duplicate booking case surfaces as "already booked".
func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Booking not found",
		})
	case errors.Is(err, ErrAlreadyBooked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "You have already booked this event",
		})
	case errors.Is(err, ErrEventFull):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "This event is fully booked",
		})
	case errors.Is(err, ErrNotBookable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "This event is not open for booking",
		})
	case errors.Is(err, ErrNotActive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "This booking is no longer active",
		})
	case errors.Is(err, ErrWindowClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "Bookings can no longer be changed within 48 hours of the event",
		})
	case errors.Is(err, credits.ErrInsufficientCredits):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "You do not have enough credits",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process booking",
		})
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
