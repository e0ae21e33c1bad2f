package notification

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/services"
	"github.com/gradglobe/counsel-api/utils/middleware"
	"github.com/gradglobe/counsel-api/utils/response"
)

// NotificationHandler handles notification-related API endpoints
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GetNotifications handles GET /api/notifications
// Returns the authenticated user's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	unreadOnly := c.Query("unread_only") == "true"
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit > 100 {
		limit = 100
	}

	notifications, total, err := h.notifications.GetByUser(c.Context(), services.ListNotificationsOptions{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch notifications")
	}

	responseData := make([]interface{}, 0, len(notifications))
	for _, n := range notifications {
		responseData = append(responseData, n.ToResponse())
	}

	// The embedded unread count degrades to zero instead of failing
	// the listing
	unreadCount, err := h.notifications.UnreadCount(c.Context(), userID)
	if err != nil {
		log.Printf("unread count for user %s failed: %v", userID, err)
	}

	return response.Success(c, fiber.Map{
		"notifications": responseData,
		"total":         total,
		"unread_count":  unreadCount,
	})
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	count, err := h.notifications.UnreadCount(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to count notifications")
	}

	return response.Success(c, fiber.Map{"unread_count": count})
}

// MarkAsRead handles PATCH /api/notifications/:id/read.
// Idempotent: re-marking an already-read notification succeeds.
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	notificationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid notification id")
	}

	if err := h.notifications.MarkAsRead(c.Context(), uint(notificationID), userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification as read")
	}

	return response.SuccessWithMessage(c, "Notification marked as read", nil)
}

// MarkAllAsRead handles POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	updated, err := h.notifications.MarkAllAsRead(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to mark notifications as read")
	}

	return response.Success(c, fiber.Map{"updated": updated})
}
