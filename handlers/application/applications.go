package application

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/services"
	"github.com/gradglobe/counsel-api/utils/middleware"
	"github.com/gradglobe/counsel-api/utils/response"
)

// ApplicationHandler serves the applicant-facing application endpoints
type ApplicationHandler struct {
	applications *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// ListApplications handles GET /api/applications: the caller's own
// applications, newest first, with selected courses resolved.
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	applications, err := h.applications.ListForUser(c.Context(), userID)
	if err != nil {
		log.Printf("list applications for user %s failed: %v", userID, err)
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, applications)
}

// SubmitApplication handles POST /api/applications
func (h *ApplicationHandler) SubmitApplication(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req services.SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	application, err := h.applications.Submit(c.Context(), userID, req)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return response.ValidationFailed(c, validationErr.Fields)
		}
		log.Printf("submit application for user %s failed: %v", userID, err)
		return response.InternalServerError(c, "Failed to submit application")
	}

	return response.Created(c, application)
}
