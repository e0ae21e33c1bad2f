package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/auth"
	"github.com/gradglobe/counsel-api/utils/middleware"
	"github.com/gradglobe/counsel-api/utils/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuthHandler serves the delegated-authentication endpoints
type AuthHandler struct {
	db *gorm.DB
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// GetCurrentUser handles GET /api/auth/user.
// The auth middleware has already resolved (and if needed provisioned)
// the local record for the verified subject.
func (h *AuthHandler) GetCurrentUser(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	return response.Success(c, user)
}

// CreateUser handles POST /api/auth/create-user: an idempotent upsert of
// the local user record from the identity-provider profile claims.
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok || claims == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	firstName, lastName := auth.SplitFullName(claims.FullName)
	user := model.User{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: firstName,
		LastName:  lastName,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name"}),
	}).Create(&user).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	// Read back so the admin flag and timestamps reflect the stored row
	if err := h.db.First(&user, "id = ?", claims.Subject).Error; err != nil {
		return response.InternalServerError(c, "Failed to load user")
	}

	return response.Success(c, user)
}
