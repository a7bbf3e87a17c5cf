package credits

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/authn"
	"github.com/tablemates/tablemates-backend/internal/dto"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetLedger handles GET /credits, the member-facing balance and history view.
func (h *Handler) GetLedger(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	resp, err := h.svc.Ledger(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load credit history",
		})
	}
	return c.JSON(resp)
}

// AdminGrant handles POST /admin/users/:id/credits/grant.
func (h *Handler) AdminGrant(c *fiber.Ctx) error {
	return h.adminAdjust(c, TypeAdminGrant)
}

// AdminRevoke handles POST /admin/users/:id/credits/revoke. The request
// carries the number of credits to remove as a positive count.
func (h *Handler) AdminRevoke(c *fiber.Ctx) error {
	return h.adminAdjust(c, TypeAdminRevoke)
}

func (h *Handler) adminAdjust(c *fiber.Ctx, txType string) error {
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req AdminAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Amount must be a positive number of credits",
		})
	}

	amount := req.Amount
	if txType == TypeAdminRevoke {
		amount = -req.Amount
	}

	var actorID *uuid.UUID
	if id, err := authn.GetUserID(c); err == nil {
		actorID = &id
	}

	entry, err := h.svc.Append(targetID, txType, amount, req.Note, nil, actorID)
	if err != nil {
		if errors.Is(err, ErrInsufficientCredits) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "User does not have enough credits to revoke",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to adjust credits",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}
