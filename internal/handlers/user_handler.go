package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tablemates/tablemates-backend/internal/authn"
	"github.com/tablemates/tablemates-backend/internal/dto"
	"github.com/tablemates/tablemates-backend/internal/export"
	"github.com/tablemates/tablemates-backend/internal/models"
	"github.com/tablemates/tablemates-backend/internal/services"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	return c.JSON(services.UserToResponse(&user))
}

// UpdateMe handles PUT /users/me with partial profile updates.
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := authn.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "No fields to update",
		})
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update profile",
		})
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load profile",
		})
	}

	return c.JSON(services.UserToResponse(&user))
}

// List handles GET /admin/users with pagination and email search.
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("email ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to count users",
		})
	}

	var users []models.User
	if err := query.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch users",
		})
	}

	resp := dto.UserListResponse{Total: total, Page: page, Limit: limit}
	resp.Users = make([]dto.UserResponse, len(users))
	for i := range users {
		resp.Users[i] = services.UserToResponse(&users[i])
	}
	return c.JSON(resp)
}

// Export handles GET /admin/users/export as a CSV attachment.
func (h *UserHandler) Export(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("created_at").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch users",
		})
	}

	header := []string{"id", "email", "first_name", "last_name", "country", "city", "assessment_completed", "event_credits", "created_at"}
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{
			u.ID.String(),
			u.Email,
			u.FirstName,
			u.LastName,
			u.Country,
			u.City,
			strconv.FormatBool(u.AssessmentCompleted),
			strconv.Itoa(u.EventCredits),
			u.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
	}

	return export.Send(c, "users.csv", header, rows)
}

// AssignRoles handles PUT /admin/users/:id/roles (super admin only).
func (h *UserHandler) AssignRoles(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	var req dto.AssignRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if len(req.Roles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "At least one role is required",
		})
	}
	for _, r := range req.Roles {
		if r != models.RoleMember && r != models.RoleAdmin && r != models.RoleSuperAdmin {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown role: " + r,
			})
		}
	}

	result := h.db.Model(&models.User{}).Where("id = ?", userID).
		Update("roles", models.RolesJSON(req.Roles))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update roles",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "User not found",
		})
	}

	return c.JSON(fiber.Map{"message": "Roles updated successfully", "roles": req.Roles})
}
