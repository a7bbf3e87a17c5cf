package assessment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/authn"
	"github.com/tablemates/tablemates-backend/internal/dto"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetProgress handles GET /assessments/progress. Absence of saved progress is
// a normal case and returns an empty progress body, not an error.
func (h *Handler) GetProgress(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.svc.Progress(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load progress",
		})
	}
	return c.JSON(resp)
}

// SaveProgress handles PUT /assessments/progress, the auto-save overwrite path.
func (h *Handler) SaveProgress(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req SaveProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.svc.SaveProgress(userID, &req)
	if err != nil {
		if errors.Is(err, ErrCompleted) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Assessment already completed; edit individual answers instead",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save progress",
		})
	}
	return c.JSON(resp)
}

// Advance handles POST /assessments/advance.
func (h *Handler) Advance(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req AdvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.svc.Advance(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCompleted), errors.Is(err, ErrTerminal):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			// Per-step validation failure: the client shows this as a toast.
			return badRequest(c, err.Error())
		}
	}
	return c.JSON(resp)
}

// Back handles POST /assessments/back.
func (h *Handler) Back(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.svc.Back(userID)
	if err != nil {
		if errors.Is(err, ErrCompleted) || errors.Is(err, ErrTerminal) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update progress",
		})
	}
	return c.JSON(resp)
}

// ReturnToBirthday handles POST /assessments/return-to-birthday, the explicit
// exit from the underage message back to the birthday question.
func (h *Handler) ReturnToBirthday(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.svc.ReturnToBirthday(userID)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(resp)
}

// Submit handles POST /assessments/submit.
func (h *Handler) Submit(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req SaveProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.svc.Submit(userID, &req)
	if err != nil {
		if errors.Is(err, ErrCompleted) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(resp)
}

// UpdateAnswer handles PATCH /assessments/answers/:key, the post-completion
// single-field edit path.
func (h *Handler) UpdateAnswer(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	key := c.Params("key")
	if key == "" {
		return badRequest(c, "Answer key is required")
	}

	var req UpdateAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.svc.UpdateAnswer(userID, key, req.Value)
	if err != nil {
		if errors.Is(err, ErrNotCompleted) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: "Single-field edits require a completed assessment",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update answer",
		})
	}
	return c.JSON(resp)
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
