package events

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/authn"
	"github.com/tablemates/tablemates-backend/internal/dto"
	"gorm.io/gorm"
)

// BookingChecker reports whether a user holds an active booking for an event.
// Implemented by the bookings service; injected to avoid an import cycle.
type BookingChecker interface {
	HasActiveBooking(userID, eventID uuid.UUID) (bool, error)
}

type Handler struct {
	db       *gorm.DB
	bookings BookingChecker
	now      func() time.Time
}

func NewHandler(db *gorm.DB, bookings BookingChecker) *Handler {
	return &Handler{db: db, bookings: bookings, now: time.Now}
}

// List handles GET /events: visible upcoming events, optionally filtered by city.
func (h *Handler) List(c *fiber.Ctx) error {
	query := h.db.Model(&Event{}).
		Where("is_visible = true AND start_time > ?", h.now().Add(-6*time.Hour)).
		Order("start_time")
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var evts []Event
	if err := query.Find(&evts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch events",
		})
	}

	resp := make([]EventResponse, len(evts))
	for i := range evts {
		resp[i] = toResponse(&evts[i])
	}
	return c.JSON(resp)
}

// Detail handles GET /events/:id with the time-gated reveals applied.
func (h *Handler) Detail(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid event id",
		})
	}
	userID, err := authn.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var event Event
	if err := h.db.Preload("Venue").First(&event, "id = ?", eventID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Event not found",
		})
	}

	booked, err := h.bookings.HasActiveBooking(userID, eventID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to check booking",
		})
	}

	var icebreakers []Icebreaker
	h.db.Where("event_id = ?", eventID).Order("position").Find(&icebreakers)

	now := h.now()
	reveal := RevealAt(now, event.StartTime, booked, event.SnapshotText != "", len(icebreakers) > 0)

	resp := EventDetailResponse{
		EventResponse:      toResponse(&event),
		Booked:             booked,
		HoursUntilStart:    event.StartTime.Sub(now).Hours(),
		VenueVisible:       reveal.VenueVisible,
		SnapshotVisible:    reveal.SnapshotVisible,
		IcebreakersVisible: reveal.IcebreakersVisible,
	}
	if reveal.VenueVisible {
		resp.Venue = event.Venue
	}
	if reveal.SnapshotVisible {
		resp.SnapshotText = &event.SnapshotText
	}
	if reveal.IcebreakersVisible {
		resp.Icebreakers = icebreakers
	}
	return c.JSON(resp)
}

// ConversationStarters handles GET /events/:id/conversation-starters.
func (h *Handler) ConversationStarters(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid event id",
		})
	}
	userID, err := authn.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var event Event
	if err := h.db.First(&event, "id = ?", eventID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Event not found",
		})
	}

	booked, err := h.bookings.HasActiveBooking(userID, eventID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to check booking",
		})
	}

	var icebreakers []Icebreaker
	h.db.Where("event_id = ?", eventID).Order("position").Find(&icebreakers)

	reveal := RevealAt(h.now(), event.StartTime, booked, event.SnapshotText != "", len(icebreakers) > 0)
	if !reveal.IcebreakersVisible {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Conversation starters unlock when the dinner begins",
		})
	}
	return c.JSON(icebreakers)
}

// --- Admin ---

// AdminList handles GET /admin/events including hidden events.
func (h *Handler) AdminList(c *fiber.Ctx) error {
	var evts []Event
	if err := h.db.Order("start_time DESC").Find(&evts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch events",
		})
	}
	resp := make([]EventResponse, len(evts))
	for i := range evts {
		resp[i] = toResponse(&evts[i])
	}
	return c.JSON(resp)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req UpsertEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Title == "" || req.StartTime.IsZero() || req.Capacity < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Title, start time and a capacity of at least 2 are required",
		})
	}

	event := Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		EventType:   defaultStr(req.EventType, "dinner"),
		StartTime:   req.StartTime,
		PriceCents:  req.PriceCents,
		Currency:    defaultStr(req.Currency, "EUR"),
		Capacity:    req.Capacity,
		Country:     req.Country,
		City:        req.City,
		VenueID:     req.VenueID,
	}
	if req.IsVisible != nil {
		event.IsVisible = *req.IsVisible
	}

	if err := h.db.Create(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create event",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(toResponse(&event))
}

func (h *Handler) Update(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid event id",
		})
	}

	var event Event
	if err := h.db.First(&event, "id = ?", eventID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Event not found",
		})
	}

	var req UpsertEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.EventType != "" {
		event.EventType = req.EventType
	}
	if !req.StartTime.IsZero() {
		event.StartTime = req.StartTime
	}
	if req.PriceCents > 0 {
		event.PriceCents = req.PriceCents
	}
	if req.Currency != "" {
		event.Currency = req.Currency
	}
	if req.Capacity > 0 {
		event.Capacity = req.Capacity
	}
	if req.Country != "" {
		event.Country = req.Country
	}
	if req.City != "" {
		event.City = req.City
	}
	if req.VenueID != nil {
		event.VenueID = req.VenueID
	}
	if req.IsVisible != nil {
		event.IsVisible = *req.IsVisible
	}

	if err := h.db.Save(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update event",
		})
	}
	return c.JSON(toResponse(&event))
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid event id",
		})
	}

	result := h.db.Delete(&Event{}, "id = ?", eventID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete event",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Event not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Event deleted successfully"})
}

// SetSnapshot handles PUT /admin/events/:id/snapshot, the attendee snapshot text.
func (h *Handler) SetSnapshot(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid event id",
		})
	}

	var req SnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result := h.db.Model(&Event{}).Where("id = ?", eventID).Update("snapshot_text", req.Text)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update snapshot",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Event not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Snapshot updated successfully"})
}

// --- Venues ---

func (h *Handler) ListVenues(c *fiber.Ctx) error {
	var venues []Venue
	if err := h.db.Order("name").Find(&venues).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch venues",
		})
	}
	return c.JSON(venues)
}

func (h *Handler) CreateVenue(c *fiber.Ctx) error {
	var req UpsertVenueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Venue name is required",
		})
	}

	venue := Venue{
		ID:      uuid.New(),
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
		MapURL:  req.MapURL,
		Notes:   req.Notes,
	}
	if err := h.db.Create(&venue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create venue",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(venue)
}

func (h *Handler) UpdateVenue(c *fiber.Ctx) error {
	venueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid venue id",
		})
	}

	var venue Venue
	if err := h.db.First(&venue, "id = ?", venueID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Venue not found",
		})
	}

	var req UpsertVenueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Name != "" {
		venue.Name = req.Name
	}
	if req.Address != "" {
		venue.Address = req.Address
	}
	if req.City != "" {
		venue.City = req.City
	}
	if req.Country != "" {
		venue.Country = req.Country
	}
	if req.MapURL != "" {
		venue.MapURL = req.MapURL
	}
	if req.Notes != "" {
		venue.Notes = req.Notes
	}

	if err := h.db.Save(&venue).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update venue",
		})
	}
	return c.JSON(venue)
}

func (h *Handler) DeleteVenue(c *fiber.Ctx) error {
	venueID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid venue id",
		})
	}

	result := h.db.Delete(&Venue{}, "id = ?", venueID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete venue",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Venue not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Venue deleted successfully"})
}

// --- Icebreakers ---

func (h *Handler) AddIcebreaker(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid event id",
		})
	}

	var req IcebreakerRequest
	if err := c.BodyParser(&req); err != nil || req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Question is required",
		})
	}

	ib := Icebreaker{
		ID:       uuid.New(),
		EventID:  eventID,
		Question: req.Question,
		Position: req.Position,
	}
	if err := h.db.Create(&ib).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create icebreaker",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(ib)
}

func (h *Handler) DeleteIcebreaker(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid icebreaker id",
		})
	}

	result := h.db.Delete(&Icebreaker{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete icebreaker",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Icebreaker not found",
		})
	}
	return c.JSON(fiber.Map{"message": "Icebreaker deleted successfully"})
}

func toResponse(e *Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventType:   e.EventType,
		StartTime:   e.StartTime,
		PriceCents:  e.PriceCents,
		Currency:    e.Currency,
		Capacity:    e.Capacity,
		BookedCount: e.BookedCount,
		Country:     e.Country,
		City:        e.City,
		IsVisible:   e.IsVisible,
	}
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
