package university

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/services"
	"github.com/gradglobe/counsel-api/utils/response"
	"github.com/gradglobe/counsel-api/utils/validation"
	"gorm.io/gorm"
)

const uploadURLExpiry = 15 * time.Minute

// UniversityHandler handles catalog university requests
type UniversityHandler struct {
	db        *gorm.DB
	media     *services.MediaService // nil when storage is not configured
	validator *validation.Validator
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(db *gorm.DB, media *services.MediaService) *UniversityHandler {
	return &UniversityHandler{
		db:        db,
		media:     media,
		validator: validation.NewValidator(),
	}
}

// CreateUniversityRequest represents the request body for creating a university.
// Either a ready ImageURL or an ImageKey (object key in the media bucket)
// may be supplied.
type CreateUniversityRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	City     string `json:"city" validate:"required,min=2,max=255"`
	Country  string `json:"country" validate:"required,min=2,max=255"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	ImageKey string `json:"image_key" validate:"omitempty,min=3,max=512"`
}

// ListUniversities handles GET /api/universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	var universities []model.University
	if err := h.db.Order("name").Find(&universities).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch universities")
	}

	return response.Success(c, universities)
}

// CreateUniversity handles POST /api/universities (admin only)
func (h *UniversityHandler) CreateUniversity(c *fiber.Ctx) error {
	var req CreateUniversityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	university := model.University{
		Name:     req.Name,
		City:     req.City,
		Country:  req.Country,
		ImageURL: req.ImageURL,
	}

	// When an image key is supplied and media storage is configured,
	// the stored URL points at the bucket and the response carries a
	// presigned PUT URL for the actual upload.
	var uploadURL string
	if req.ImageKey != "" && h.media != nil {
		key := fmt.Sprintf("universities/%s", req.ImageKey)
		university.ImageURL = h.media.PublicURL(key)

		presigned, err := h.media.PresignUpload(key, "image/jpeg", uploadURLExpiry)
		if err != nil {
			return response.InternalServerError(c, "Failed to prepare media upload")
		}
		uploadURL = presigned
	}

	if err := h.db.Create(&university).Error; err != nil {
		return response.InternalServerError(c, "Failed to create university")
	}

	if uploadURL != "" {
		return response.Created(c, fiber.Map{
			"university": university,
			"upload_url": uploadURL,
		})
	}
	return response.Created(c, university)
}
