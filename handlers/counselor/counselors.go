package counselor

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/response"
	"gorm.io/gorm"
)

// CounselorHandler serves the counseling team listing
type CounselorHandler struct {
	db *gorm.DB
}

// NewCounselorHandler creates a new counselor handler
func NewCounselorHandler(db *gorm.DB) *CounselorHandler {
	return &CounselorHandler{db: db}
}

// ListCounselors handles GET /api/counselors; only active counselors
// are returned.
func (h *CounselorHandler) ListCounselors(c *fiber.Ctx) error {
	var counselors []model.Counselor
	if err := h.db.Where("is_active = ?", true).Order("name").Find(&counselors).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch counselors")
	}

	return response.Success(c, counselors)
}
