package payments

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/authn"
	"github.com/tablemates/tablemates-backend/internal/dto"
)

// WebhookTokenHeader carries the shared secret the provider is configured
// to send with every callback.
const WebhookTokenHeader = "X-Webhook-Token"

type Handler struct {
	svc          *Service
	webhookToken string
}

func NewHandler(svc *Service, webhookToken string) *Handler {
	return &Handler{svc: svc, webhookToken: webhookToken}
}

// Initiate handles POST /payments.
func (h *Handler) Initiate(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req InitiateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.BookingID == uuid.Nil {
		return badRequest(c, "booking_id is required")
	}

	payment, err := h.svc.Initiate(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Booking not found",
			})
		case errors.Is(err, ErrNotPayable):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "This booking is not awaiting payment",
			})
		default:
			return internalError(c, "Failed to initiate payment")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// List handles GET /payments.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	payments, err := h.svc.List(userID)
	if err != nil {
		return internalError(c, "Failed to load payments")
	}
	return c.JSON(payments)
}

// Webhook handles POST /payments/webhook. The shared secret is compared in
// constant time; a wrong or missing token gets an opaque 401.
func (h *Handler) Webhook(c *fiber.Ctx) error {
	token := c.Get(WebhookTokenHeader)
	if h.webhookToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.webhookToken)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req WebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	payment, err := h.svc.HandleEvent(req.Type, req.ProviderRef)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown payment reference",
			})
		case errors.Is(err, ErrBadEvent):
			return badRequest(c, "Unknown event type")
		case errors.Is(err, ErrWrongStatus):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Payment cannot take this transition",
			})
		default:
			return internalError(c, "Failed to process webhook")
		}
	}
	return c.JSON(payment)
}

// SandboxTransition handles POST /sandbox/payments/:ref/:action in
// non-production environments, standing in for the real provider.
func (h *Handler) SandboxTransition(c *fiber.Ctx) error {
	eventType := ""
	switch c.Params("action") {
	case "succeed":
		eventType = EventSucceeded
	case "fail":
		eventType = EventFailed
	case "refund":
		eventType = EventRefunded
	default:
		return badRequest(c, "Unknown action")
	}

	payment, err := h.svc.HandleEvent(eventType, c.Params("ref"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown payment reference",
			})
		}
		if errors.Is(err, ErrWrongStatus) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Payment cannot take this transition",
			})
		}
		return internalError(c, "Failed to transition payment")
	}
	return c.JSON(payment)
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
