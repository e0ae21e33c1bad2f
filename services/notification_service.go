package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/cache"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a notification id does not resolve
var ErrNotificationNotFound = errors.New("notification not found")

const unreadCountTTL = 30 * time.Second

// NotificationService creates and reads per-user notification records
type NotificationService struct {
	db    *gorm.DB
	cache *cache.RedisCache // optional; nil disables unread-count caching
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB, redisCache *cache.RedisCache) *NotificationService {
	return &NotificationService{db: db, cache: redisCache}
}

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	UserID   string
	Type     model.NotificationType
	Title    string
	Message  string
	Metadata map[string]interface{}
}

// ListNotificationsOptions represents options for listing notifications
type ListNotificationsOptions struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}

// BroadcastResult reports the outcome of a fan-out. The loop is
// best-effort: some recipients may have received the notification while
// others did not.
type BroadcastResult struct {
	BatchID    string `json:"batch_id"`
	Recipients int    `json:"recipients"`
	Succeeded  int    `json:"succeeded"`
	Failed     int    `json:"failed"`
}

// Create persists a new unread notification for a user
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*model.Notification, error) {
	notification := &model.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Read:    false,
	}

	if req.Metadata != nil {
		metadataJSON, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(metadataJSON)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.invalidateUnreadCount(ctx, req.UserID)

	log.Printf("Created notification %d for user %s: %s", notification.ID, req.UserID, req.Title)
	return notification, nil
}

// GetByUser retrieves notifications for a user, newest first
func (s *NotificationService) GetByUser(ctx context.Context, opts ListNotificationsOptions) ([]model.Notification, int64, error) {
	var notifications []model.Notification
	var total int64

	query := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ?", opts.UserID)

	if opts.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	// Get total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	// Apply pagination
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	} else {
		query = query.Limit(50) // Default limit
	}

	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	// Order by most recent first
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkAsRead marks a notification as read. Marking an already-read
// notification is a no-op, not an error; only a missing id fails.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uint, userID string) error {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	s.invalidateUnreadCount(ctx, userID)
	return nil
}

// MarkAllAsRead marks all notifications for a user as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", result.Error)
	}

	s.invalidateUnreadCount(ctx, userID)
	return result.RowsAffected, nil
}

// UnreadCount returns the count of unread notifications for a user.
// The count is cached briefly; the database stays the source of truth.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	cacheKey := unreadCountKey(userID)

	if s.cache != nil {
		var cached int64
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, count, unreadCountTTL); err != nil {
			log.Printf("unread-count cache set failed for user %s: %v", userID, err)
		}
	}

	return count, nil
}

// Broadcast fans a notification out to the given user ids, or to every
// known user when none are supplied. One record per recipient, no
// transactional guarantee: a failure mid-loop leaves earlier recipients
// notified. The result reports how many creates succeeded.
func (s *NotificationService) Broadcast(ctx context.Context, userIDs []string, notificationType model.NotificationType, title, message string) (*BroadcastResult, error) {
	if len(userIDs) == 0 {
		if err := s.db.WithContext(ctx).Model(&model.User{}).Pluck("id", &userIDs).Error; err != nil {
			return nil, fmt.Errorf("failed to list broadcast recipients: %w", err)
		}
	}

	result := &BroadcastResult{
		BatchID:    uuid.New().String(),
		Recipients: len(userIDs),
	}

	for _, userID := range userIDs {
		_, err := s.Create(ctx, CreateNotificationRequest{
			UserID:  userID,
			Type:    notificationType,
			Title:   title,
			Message: message,
			Metadata: map[string]interface{}{
				"broadcast_id": result.BatchID,
			},
		})
		if err != nil {
			result.Failed++
			log.Printf("broadcast %s: failed to notify user %s: %v", result.BatchID, userID, err)
			continue
		}
		result.Succeeded++
	}

	log.Printf("broadcast %s: notified %d/%d users", result.BatchID, result.Succeeded, result.Recipients)
	return result, nil
}

// CleanupOld removes read notifications older than the given duration
func (s *NotificationService) CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result := s.db.WithContext(ctx).
		Where("created_at < ? AND read = ?", cutoff, true).
		Delete(&model.Notification{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup old notifications: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d old notifications", result.RowsAffected)
	}

	return result.RowsAffected, nil
}

func unreadCountKey(userID string) string {
	return "notifications:unread:" + userID
}

func (s *NotificationService) invalidateUnreadCount(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, unreadCountKey(userID)); err != nil {
		log.Printf("unread-count cache invalidation failed for user %s: %v", userID, err)
	}
}
