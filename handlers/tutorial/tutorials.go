package tutorial

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/response"
	"gorm.io/gorm"
)

// TutorialHandler serves the guidance tutorial listing
type TutorialHandler struct {
	db *gorm.DB
}

// NewTutorialHandler creates a new tutorial handler
func NewTutorialHandler(db *gorm.DB) *TutorialHandler {
	return &TutorialHandler{db: db}
}

// ListTutorials handles GET /api/tutorials; active tutorials, newest first.
func (h *TutorialHandler) ListTutorials(c *fiber.Ctx) error {
	var tutorials []model.Tutorial
	if err := h.db.Where("is_active = ?", true).Order("created_at DESC").Find(&tutorials).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch tutorials")
	}

	return response.Success(c, tutorials)
}
