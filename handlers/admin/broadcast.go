package admin

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/services"
	"github.com/gradglobe/counsel-api/utils/response"
	"github.com/gradglobe/counsel-api/utils/validation"
)

// BroadcastHandler serves the admin notification broadcast endpoint
type BroadcastHandler struct {
	notifications *services.NotificationService
	validator     *validation.Validator
}

// NewBroadcastHandler creates a new broadcast handler
func NewBroadcastHandler(notifications *services.NotificationService) *BroadcastHandler {
	return &BroadcastHandler{
		notifications: notifications,
		validator:     validation.NewValidator(),
	}
}

// BroadcastRequest represents the request body for a broadcast. With no
// user ids supplied, every known user is a recipient.
type BroadcastRequest struct {
	UserIDs []string `json:"user_ids" validate:"omitempty,dive,min=1"`
	Title   string   `json:"title" validate:"required,min=2,max=255"`
	Message string   `json:"message" validate:"required,min=2,max=5000"`
}

// Broadcast handles POST /api/admin/notifications.
// The fan-out is best-effort: the response reports how many recipients
// were actually notified.
func (h *BroadcastHandler) Broadcast(c *fiber.Ctx) error {
	var req BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	result, err := h.notifications.Broadcast(c.Context(), req.UserIDs, model.NotificationTypeBroadcast, req.Title, req.Message)
	if err != nil {
		log.Printf("broadcast failed before fan-out: %v", err)
		return response.InternalServerError(c, "Failed to broadcast notification")
	}

	return response.SuccessWithMessage(c, "Broadcast dispatched", result)
}
