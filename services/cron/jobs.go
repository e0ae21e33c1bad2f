package cron

import (
	"context"
	"fmt"
	"time"
)

// notificationRetention is how long read notifications are kept around
const notificationRetention = 90 * 24 * time.Hour

// CleanupReadNotifications removes read notifications past the retention
// window. Unread notifications are never touched.
func (m *CronManager) CleanupReadNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	jobName := "cleanup_read_notifications"

	removed, err := m.notifications.CleanupOld(ctx, notificationRetention)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("removed %d notifications", removed))
}
