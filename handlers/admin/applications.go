package admin

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/services"
	"github.com/gradglobe/counsel-api/utils/response"
	"github.com/gradglobe/counsel-api/utils/validation"
	"gorm.io/gorm"
)

// ApplicationHandler serves the admin application endpoints
type ApplicationHandler struct {
	db           *gorm.DB
	applications *services.ApplicationService
	validator    *validation.Validator
}

// NewApplicationHandler creates a new admin application handler
func NewApplicationHandler(db *gorm.DB, applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		db:           db,
		applications: applications,
		validator:    validation.NewValidator(),
	}
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,min=2,max=50"`
}

// ListApplications handles GET /api/admin/applications
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	page, limit = response.ClampPageLimit(page, limit)
	status := c.Query("status", "")

	query := h.db.Model(&model.Application{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count applications")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var applications []model.Application
	if err := query.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Paginated(c, applications, pagination)
}

// UpdateStatus handles PATCH /api/admin/applications/:id/status.
// Exactly one notification for the owning user is part of the contract;
// its failure fails the request.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	applicationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application id")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	application, err := h.applications.UpdateStatus(c.Context(), uint(applicationID), req.Status)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		log.Printf("update status of application %d failed: %v", applicationID, err)
		return response.InternalServerError(c, "Failed to update application status")
	}

	return response.Success(c, application)
}
