package pairing

import (
	"errors"
	"fmt"
	"strconv"

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

// --- guests ---

func (h *Handler) ListGuests(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	guests, err := h.svc.ListGuests(eventID)
	if err != nil {
		return internalError(c, "Failed to load guests")
	}
	return c.JSON(guests)
}

func (h *Handler) AddGuest(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	var req UpsertGuestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "Guest name is required")
	}
	guest, err := h.svc.AddGuest(eventID, req)
	if err != nil {
		return serviceError(c, err, "Failed to create guest")
	}
	return c.Status(fiber.StatusCreated).JSON(guest)
}

func (h *Handler) UpdateGuest(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	guestID, err := uuid.Parse(c.Params("guestId"))
	if err != nil {
		return badRequest(c, "Invalid guest ID")
	}
	var req UpsertGuestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	guest, err := h.svc.UpdateGuest(eventID, guestID, req)
	if err != nil {
		return serviceError(c, err, "Failed to update guest")
	}
	return c.JSON(guest)
}

func (h *Handler) DeleteGuest(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	guestID, err := uuid.Parse(c.Params("guestId"))
	if err != nil {
		return badRequest(c, "Invalid guest ID")
	}
	if err := h.svc.DeleteGuest(eventID, guestID); err != nil {
		return serviceError(c, err, "Failed to delete guest")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ImportGuests(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	created, err := h.svc.ImportGuests(eventID)
	if err != nil {
		return serviceError(c, err, "Failed to import guests")
	}
	return c.JSON(fiber.Map{"imported": created})
}

func (h *Handler) CategorizeAll(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	categorized, err := h.svc.CategorizeAll(eventID)
	if err != nil {
		return serviceError(c, err, "Failed to categorize guests")
	}
	return c.JSON(fiber.Map{"categorized": categorized})
}

// --- restaurants and tables ---

func (h *Handler) ListRestaurants(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	restaurants, err := h.svc.ListRestaurants(eventID)
	if err != nil {
		return internalError(c, "Failed to load restaurants")
	}
	return c.JSON(restaurants)
}

func (h *Handler) AddRestaurant(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	var req UpsertRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "Restaurant name is required")
	}
	restaurant, err := h.svc.AddRestaurant(eventID, req)
	if err != nil {
		return serviceError(c, err, "Failed to create restaurant")
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

func (h *Handler) DeleteRestaurant(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	restaurantID, err := uuid.Parse(c.Params("restaurantId"))
	if err != nil {
		return badRequest(c, "Invalid restaurant ID")
	}
	if err := h.svc.DeleteRestaurant(eventID, restaurantID); err != nil {
		return serviceError(c, err, "Failed to delete restaurant")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListTables(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	tables, err := h.svc.ListTables(eventID)
	if err != nil {
		return internalError(c, "Failed to load tables")
	}
	return c.JSON(tables)
}

func (h *Handler) AddTable(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	var req UpsertTableRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	table, err := h.svc.AddTable(eventID, req)
	if err != nil {
		return serviceError(c, err, "Failed to create table")
	}
	return c.Status(fiber.StatusCreated).JSON(table)
}

func (h *Handler) DeleteTable(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	tableID, err := uuid.Parse(c.Params("tableId"))
	if err != nil {
		return badRequest(c, "Invalid table ID")
	}
	if err := h.svc.DeleteTable(eventID, tableID); err != nil {
		return serviceError(c, err, "Failed to delete table")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- constraints ---

func (h *Handler) ListConstraints(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	constraints, err := h.svc.ListConstraints(eventID)
	if err != nil {
		return internalError(c, "Failed to load constraints")
	}
	return c.JSON(constraints)
}

func (h *Handler) AddConstraint(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	var req CreateConstraintRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	constraint, err := h.svc.AddConstraint(eventID, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(c)
		}
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(constraint)
}

func (h *Handler) DeleteConstraint(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	constraintID, err := uuid.Parse(c.Params("constraintId"))
	if err != nil {
		return badRequest(c, "Invalid constraint ID")
	}
	if err := h.svc.DeleteConstraint(eventID, constraintID); err != nil {
		return serviceError(c, err, "Failed to delete constraint")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// --- solver, assignments, lock ---

func (h *Handler) ListAssignments(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	assignments, err := h.svc.ListAssignments(eventID)
	if err != nil {
		return internalError(c, "Failed to load assignments")
	}
	return c.JSON(assignments)
}

// GenerateGroups runs the full solver, discarding previous generated seatings.
func (h *Handler) GenerateGroups(c *fiber.Ctx) error {
	return h.generate(c, false)
}

// Rebalance keeps existing seatings and only places guests without one.
func (h *Handler) Rebalance(c *fiber.Ctx) error {
	return h.generate(c, true)
}

func (h *Handler) generate(c *fiber.Ctx, incremental bool) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	result, err := h.svc.Generate(eventID, incremental)
	if err != nil {
		if errors.Is(err, ErrContradiction) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, "Failed to generate groups")
	}
	return c.JSON(result)
}

func (h *Handler) ManualAssign(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	var req ManualAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	assignment, err := h.svc.ManualAssign(eventID, req)
	if err != nil {
		return serviceError(c, err, "Failed to assign guest")
	}
	return c.Status(fiber.StatusCreated).JSON(assignment)
}

func (h *Handler) Unassign(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	guestID, err := uuid.Parse(c.Params("guestId"))
	if err != nil {
		return badRequest(c, "Invalid guest ID")
	}
	if err := h.svc.Unassign(eventID, guestID); err != nil {
		return serviceError(c, err, "Failed to unassign guest")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Suggest(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	limit := c.QueryInt("limit", 10)
	suggestions, err := h.svc.Suggest(eventID, limit)
	if err != nil {
		return internalError(c, "Failed to compute suggestions")
	}
	return c.JSON(suggestions)
}

func (h *Handler) Lock(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	var actorID *uuid.UUID
	if id, err := authn.GetUserID(c); err == nil {
		actorID = &id
	}
	audit, err := h.svc.Lock(eventID, actorID)
	if err != nil {
		return internalError(c, "Failed to lock pairing")
	}
	return c.Status(fiber.StatusCreated).JSON(audit)
}

func (h *Handler) AuditLog(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	entries, err := h.svc.AuditLog(eventID)
	if err != nil {
		return internalError(c, "Failed to load audit log")
	}
	return c.JSON(entries)
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	dashboard, err := h.svc.Dashboard(eventID)
	if err != nil {
		return internalError(c, "Failed to load dashboard")
	}
	return c.JSON(dashboard)
}

// --- exports ---

func (h *Handler) ExportGuests(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	guests, err := h.svc.ListGuests(eventID)
	if err != nil {
		return internalError(c, "Failed to load guests")
	}

	rows := make([][]string, 0, len(guests))
	for _, g := range guests {
		rows = append(rows, []string{
			g.ID.String(),
			g.Name,
			g.Gender,
			g.Category,
			strconv.Itoa(g.IntrovertScale),
			strconv.Itoa(g.OpennessScale),
			g.DietaryNotes,
		})
	}
	return export.Send(c, fmt.Sprintf("guests-%s.csv", eventID),
		[]string{"id", "name", "gender", "category", "introvert_scale", "openness_scale", "dietary_notes"},
		rows)
}

func (h *Handler) ExportAssignments(c *fiber.Ctx) error {
	eventID, err := eventParam(c)
	if err != nil {
		return badRequest(c, "Invalid event ID")
	}
	assignments, err := h.svc.ListAssignments(eventID)
	if err != nil {
		return internalError(c, "Failed to load assignments")
	}
	guests, err := h.svc.ListGuests(eventID)
	if err != nil {
		return internalError(c, "Failed to load guests")
	}
	names := make(map[uuid.UUID]string, len(guests))
	for _, g := range guests {
		names[g.ID] = g.Name
	}

	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, []string{
			a.GuestID.String(),
			names[a.GuestID],
			a.RestaurantID.String(),
			a.TableID.String(),
			strconv.Itoa(a.Seat),
			strconv.FormatBool(a.Manual),
			strconv.FormatBool(a.Locked),
		})
	}
	return export.Send(c, fmt.Sprintf("assignments-%s.csv", eventID),
		[]string{"guest_id", "guest_name", "restaurant_id", "table_id", "seat", "manual", "locked"},
		rows)
}

// --- helpers ---

func eventParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("eventId"))
}

func serviceError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, ErrNotFound) {
		return notFound(c)
	}
	return internalError(c, fallback)
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
