package favorite

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/middleware"
	"github.com/gradglobe/counsel-api/utils/response"
	"gorm.io/gorm"
)

// FavoriteHandler manages a user's saved courses. Favorites are stored
// in the same persistent store as everything else, scoped per user, with
// uniqueness on the (user, course) pair.
type FavoriteHandler struct {
	db *gorm.DB
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{db: db}
}

// AddFavoriteRequest represents the request body for saving a course
type AddFavoriteRequest struct {
	CourseID uint `json:"course_id"`
}

// ListFavorites handles GET /api/favorites
func (h *FavoriteHandler) ListFavorites(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var favorites []model.Favorite
	err := h.db.Preload("Course").Preload("Course.University").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch favorites")
	}

	return response.Success(c, favorites)
}

// AddFavorite handles POST /api/favorites
func (h *FavoriteHandler) AddFavorite(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req AddFavoriteRequest
	if err := c.BodyParser(&req); err != nil || req.CourseID == 0 {
		return response.BadRequest(c, "course_id is required")
	}

	// The saved course must exist
	var course model.Course
	if err := h.db.First(&course, req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to verify course")
	}

	favorite := model.Favorite{
		UserID:   userID,
		CourseID: req.CourseID,
	}

	if err := h.db.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "Course already saved")
		}
		return response.InternalServerError(c, "Failed to save favorite")
	}

	return response.Created(c, favorite)
}

// RemoveFavorite handles DELETE /api/favorites/:courseId
func (h *FavoriteHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courseID, err := strconv.ParseUint(c.Params("courseId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course id")
	}

	result := h.db.Where("user_id = ? AND course_id = ?", userID, uint(courseID)).
		Delete(&model.Favorite{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to remove favorite")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Favorite not found")
	}

	return response.NoContent(c)
}
