package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradglobe/counsel-api/model"
)

func TestNotificationMarkAsReadIsIdempotent(t *testing.T) {
	db := openNotificationServiceTestDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	user := seedTestUser(t, db, "notif-1", "notif1@example.com")

	created, err := svc.Create(ctx, CreateNotificationRequest{
		UserID:  user.ID,
		Type:    model.NotificationTypeGeneral,
		Title:   "Welcome",
		Message: "Welcome to the platform",
	})
	require.NoError(t, err)
	require.False(t, created.Read)

	require.NoError(t, svc.MarkAsRead(ctx, created.ID, user.ID))

	// Marking again is a no-op, not an error
	require.NoError(t, svc.MarkAsRead(ctx, created.ID, user.ID))

	var stored model.Notification
	require.NoError(t, db.First(&stored, created.ID).Error)
	require.True(t, stored.Read)
}

func TestNotificationMarkAsReadNotFound(t *testing.T) {
	db := openNotificationServiceTestDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	user := seedTestUser(t, db, "notif-2", "notif2@example.com")
	other := seedTestUser(t, db, "notif-3", "notif3@example.com")

	created, err := svc.Create(ctx, CreateNotificationRequest{
		UserID:  user.ID,
		Type:    model.NotificationTypeGeneral,
		Title:   "Private",
		Message: "Only for its owner",
	})
	require.NoError(t, err)

	// Unknown id
	require.ErrorIs(t, svc.MarkAsRead(ctx, 9999, user.ID), ErrNotificationNotFound)

	// Someone else's notification behaves like a missing one
	require.ErrorIs(t, svc.MarkAsRead(ctx, created.ID, other.ID), ErrNotificationNotFound)
}

func TestNotificationUnreadCountAndMarkAll(t *testing.T) {
	db := openNotificationServiceTestDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	user := seedTestUser(t, db, "notif-4", "notif4@example.com")

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateNotificationRequest{
			UserID:  user.ID,
			Type:    model.NotificationTypeGeneral,
			Title:   "Update",
			Message: "Something happened",
		})
		require.NoError(t, err)
	}

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	marked, err := svc.MarkAllAsRead(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, marked)

	count, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	// Second pass has nothing left to mark
	marked, err = svc.MarkAllAsRead(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, marked)
}

func TestNotificationGetByUserNewestFirst(t *testing.T) {
	db := openNotificationServiceTestDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	user := seedTestUser(t, db, "notif-5", "notif5@example.com")

	now := time.Now()
	older := model.Notification{
		UserID: user.ID, Type: model.NotificationTypeGeneral,
		Title: "Older", Message: "first", CreatedAt: now.Add(-2 * time.Hour),
	}
	newer := model.Notification{
		UserID: user.ID, Type: model.NotificationTypeGeneral,
		Title: "Newer", Message: "second", Read: true, CreatedAt: now.Add(-1 * time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	listed, total, err := svc.GetByUser(ctx, ListNotificationsOptions{UserID: user.ID})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, listed, 2)
	require.Equal(t, "Newer", listed[0].Title)
	require.Equal(t, "Older", listed[1].Title)

	unread, total, err := svc.GetByUser(ctx, ListNotificationsOptions{UserID: user.ID, UnreadOnly: true})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, unread, 1)
	require.Equal(t, "Older", unread[0].Title)
}

func TestNotificationBroadcast(t *testing.T) {
	db := openNotificationServiceTestDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	alice := seedTestUser(t, db, "bc-1", "alice@example.com")
	bob := seedTestUser(t, db, "bc-2", "bob@example.com")
	carol := seedTestUser(t, db, "bc-3", "carol@example.com")

	// Targeted broadcast
	result, err := svc.Broadcast(ctx, []string{alice.ID, bob.ID}, model.NotificationTypeBroadcast, "Maintenance", "Scheduled downtime on Sunday")
	require.NoError(t, err)
	require.Equal(t, 2, result.Recipients)
	require.Equal(t, 2, result.Succeeded)
	require.Zero(t, result.Failed)
	require.NotEmpty(t, result.BatchID)

	var notifications []model.Notification
	require.NoError(t, db.Where("type = ?", model.NotificationTypeBroadcast).Find(&notifications).Error)
	require.Len(t, notifications, 2)

	// Every record carries the batch id in its metadata
	for _, n := range notifications {
		var metadata map[string]string
		require.NoError(t, json.Unmarshal(n.Metadata, &metadata))
		require.Equal(t, result.BatchID, metadata["broadcast_id"])
	}

	// Untargeted broadcast fans out to every user
	result, err = svc.Broadcast(ctx, nil, model.NotificationTypeBroadcast, "New courses", "Fresh programs just landed")
	require.NoError(t, err)
	require.Equal(t, 3, result.Recipients)
	require.Equal(t, 3, result.Succeeded)

	var carolCount int64
	require.NoError(t, db.Model(&model.Notification{}).Where("user_id = ?", carol.ID).Count(&carolCount).Error)
	require.EqualValues(t, 1, carolCount)
}

func TestNotificationCleanupOld(t *testing.T) {
	db := openNotificationServiceTestDB(t)
	svc := NewNotificationService(db, nil)
	ctx := context.Background()

	user := seedTestUser(t, db, "clean-1", "clean@example.com")

	now := time.Now()
	oldRead := model.Notification{
		UserID: user.ID, Type: model.NotificationTypeGeneral,
		Title: "Old read", Read: true, CreatedAt: now.Add(-120 * 24 * time.Hour),
	}
	oldUnread := model.Notification{
		UserID: user.ID, Type: model.NotificationTypeGeneral,
		Title: "Old unread", CreatedAt: now.Add(-120 * 24 * time.Hour),
	}
	recentRead := model.Notification{
		UserID: user.ID, Type: model.NotificationTypeGeneral,
		Title: "Recent read", Read: true, CreatedAt: now.Add(-24 * time.Hour),
	}
	require.NoError(t, db.Create(&oldRead).Error)
	require.NoError(t, db.Create(&oldUnread).Error)
	require.NoError(t, db.Create(&recentRead).Error)

	deleted, err := svc.CleanupOld(ctx, 90*24*time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	// Only the old read notification is gone
	var remaining []model.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, n := range remaining {
		require.NotEqual(t, "Old read", n.Title)
	}
}

func openNotificationServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Notification{},
	))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
