package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/dto"
	"github.com/tablemates/tablemates-backend/internal/models"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	db *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// GetPublic returns public settings as a typed key-value map.
func (h *SettingsHandler) GetPublic(c *fiber.Ctx) error {
	var settings []models.Setting
	if err := h.db.Where("public = true").Find(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch settings",
		})
	}

	return c.JSON(settingsToMap(settings))
}

// GetAll returns every setting including private ones (admin only).
func (h *SettingsHandler) GetAll(c *fiber.Ctx) error {
	var settings []models.Setting
	if err := h.db.Order("key").Find(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch settings",
		})
	}
	return c.JSON(settings)
}

// SetKey sets or updates a setting key (admin only).
func (h *SettingsHandler) SetKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	var payload struct {
		Value  string `json:"value"`
		Type   string `json:"type"` // string, bool, int, json
		Public *bool  `json:"public"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if payload.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Value is required",
		})
	}
	if payload.Type == "" {
		payload.Type = "string"
	}

	var setting models.Setting
	err := h.db.Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		setting = models.Setting{
			ID:        uuid.New(),
			Key:       key,
			Value:     payload.Value,
			Type:      payload.Type,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if payload.Public != nil {
			setting.Public = *payload.Public
		}
		if err := h.db.Create(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to create setting",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to query setting",
		})
	} else {
		setting.Value = payload.Value
		setting.Type = payload.Type
		if payload.Public != nil {
			setting.Public = *payload.Public
		}
		setting.UpdatedAt = time.Now()
		if err := h.db.Save(&setting).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update setting",
			})
		}
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Setting updated successfully",
		"setting": fiber.Map{
			"key":    setting.Key,
			"value":  setting.Value,
			"type":   setting.Type,
			"public": setting.Public,
		},
	})
}

// DeleteKey deletes a setting key (admin only).
func (h *SettingsHandler) DeleteKey(c *fiber.Ctx) error {
	key := c.Params("key", "")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Key parameter is required",
		})
	}

	result := h.db.Where("key = ?", key).Delete(&models.Setting{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete setting",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Setting not found",
		})
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Setting deleted successfully",
	})
}

// SeedDefaults creates default settings on first boot; existing keys are left alone.
func (h *SettingsHandler) SeedDefaults() error {
	defaults := []models.Setting{
		{Key: "platform_name", Value: "Tablemates", Type: "string", Public: true},
		{Key: "default_language", Value: "en", Type: "string", Public: true},
		{Key: "supported_languages", Value: "en,pt,es,fr,de", Type: "string", Public: true},
		{Key: "maintenance_mode", Value: "false", Type: "bool", Public: true},
		{Key: "announcement_banner", Value: "", Type: "string", Public: true},
		{Key: "default_event_price_cents", Value: "3500", Type: "int", Public: false},
		{Key: "booking_modification_window_hours", Value: "48", Type: "int", Public: true},
	}

	for _, def := range defaults {
		var existing models.Setting
		err := h.db.Where("key = ?", def.Key).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			def.ID = uuid.New()
			if err := h.db.Create(&def).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func settingsToMap(settings []models.Setting) map[string]interface{} {
	result := make(map[string]interface{})
	for _, s := range settings {
		var value interface{}
		switch s.Type {
		case "bool":
			value, _ = strconv.ParseBool(s.Value)
		case "int":
			value, _ = strconv.Atoi(s.Value)
		case "json":
			json.Unmarshal([]byte(s.Value), &value)
		default:
			value = s.Value
		}
		result[s.Key] = value
	}
	return result
}
