package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/response"
	"gorm.io/gorm"
)

// UserHandler serves the admin user listing
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler creates a new admin user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// ListUsers handles GET /api/admin/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	page, limit = response.ClampPageLimit(page, limit)
	search := c.Query("search", "")

	query := h.db.Model(&model.User{})

	if search != "" {
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var users []model.User
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Paginated(c, users, pagination)
}
