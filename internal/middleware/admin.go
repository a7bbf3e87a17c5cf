package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/authn"
	"github.com/tablemates/tablemates-backend/internal/config"
	"github.com/tablemates/tablemates-backend/internal/dto"
	"github.com/tablemates/tablemates-backend/internal/models"
	"gorm.io/gorm"
)

// AdminRequired checks, in order:
// 1. Config-based admin token/emails/IDs
// 2. Roles claim on the access token
// 3. DB-based user roles
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return roleRequired(db, cfg, func(roles []string) bool {
		return contains(roles, models.RoleAdmin) || contains(roles, models.RoleSuperAdmin)
	})
}

// SuperAdminRequired gates routes reserved for super admins (role assignment).
func SuperAdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return roleRequired(db, cfg, func(roles []string) bool {
		return contains(roles, models.RoleSuperAdmin)
	})
}

func roleRequired(db *gorm.DB, cfg *config.Config, allowed func([]string) bool) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)
	adminUserIDs := parseCSV(cfg.AdminUserIDs)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if c.Get("X-Admin-Token") == cfg.AdminToken {
				return c.Next()
			}
		}

		userID, err := authn.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if contains(adminEmails, authn.GetEmail(c)) || contains(adminUserIDs, userID.String()) {
			return c.Next()
		}

		if allowed(authn.GetRoles(c)) {
			return c.Next()
		}

		// Roles claim may be stale after an admin grant; fall back to the DB.
		if dbRoles := lookupRoles(db, userID); allowed(dbRoles) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func lookupRoles(db *gorm.DB, userID uuid.UUID) []string {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil
	}
	return user.RoleList()
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
