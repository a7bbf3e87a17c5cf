package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/dto"
	"github.com/tablemates/tablemates-backend/internal/models"
	"gorm.io/gorm"
)

// AnalyticsHandler serves the admin overview counters. Counts are computed
// live; the admin dashboard polls this infrequently.
type AnalyticsHandler struct {
	db *gorm.DB
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	var resp dto.AnalyticsOverviewResponse

	if err := h.db.Model(&models.User{}).Count(&resp.Users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to compute analytics",
		})
	}
	h.db.Model(&models.User{}).Where("assessment_completed = true").Count(&resp.CompletedAssessments)
	h.db.Table("events").Count(&resp.Events)
	h.db.Table("bookings").Where("status IN ?", []string{"pending", "confirmed", "rescheduled"}).Count(&resp.ActiveBookings)

	var credits struct{ Total int64 }
	h.db.Model(&models.User{}).Select("COALESCE(SUM(event_credits),0) AS total").Scan(&credits)
	resp.CreditsOutstanding = credits.Total

	return c.JSON(resp)
}
