package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/session"
)

// NotificationService fetches and caches the signed-in user's
// notifications. Read flags are flipped locally once the backend
// accepts the write.
type NotificationService struct {
	mu            sync.Mutex
	notifications []api.Notification
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// Refresh fetches the user's notifications, newest first.
func (ns *NotificationService) Refresh(ctx context.Context) ([]api.Notification, error) {
	userID := session.CurrentUserID()
	logger.Debug("Refreshing notifications", "user_id", userID)

	notifications, err := api.GetNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	ns.mu.Lock()
	ns.notifications = notifications
	ns.mu.Unlock()
	return ns.Notifications(), nil
}

// Notifications returns the cached notifications.
func (ns *NotificationService) Notifications() []api.Notification {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	out := make([]api.Notification, len(ns.notifications))
	copy(out, ns.notifications)
	return out
}

// UnreadCount counts cached notifications that are still unread.
func (ns *NotificationService) UnreadCount() int {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	count := 0
	for _, n := range ns.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead marks one notification read and flips the cached flag.
func (ns *NotificationService) MarkRead(ctx context.Context, notificationID string) error {
	logger.Debug("Marking notification read", "notification_id", notificationID)

	if err := api.MarkNotificationRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()
	for i := range ns.notifications {
		if ns.notifications[i].ID == notificationID {
			ns.notifications[i].Read = true
			break
		}
	}
	return nil
}

// MarkAllRead marks every notification read and clears the unread
// badge locally.
func (ns *NotificationService) MarkAllRead(ctx context.Context) error {
	userID := session.CurrentUserID()
	logger.Debug("Marking all notifications read", "user_id", userID)

	if err := api.MarkAllNotificationsRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()
	for i := range ns.notifications {
		ns.notifications[i].Read = true
	}
	return nil
}

// Watch polls for notifications on the configured interval until ctx
// is cancelled. Overlapping ticks are skipped.
func (ns *NotificationService) Watch(ctx context.Context, onUpdate func([]api.Notification, int)) {
	interval := config.GetInterval("sync.notification_interval")
	logger.Debug("Starting notification watcher", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	running := false
	var runMu sync.Mutex
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Notification watcher stopped")
			return
		case <-ticker.C:
			runMu.Lock()
			if running {
				runMu.Unlock()
				continue
			}
			running = true
			runMu.Unlock()

			notifications, err := ns.Refresh(ctx)
			if err != nil {
				logger.Warn("Notification refresh failed", "error", err)
			} else if onUpdate != nil {
				onUpdate(notifications, ns.UnreadCount())
			}

			runMu.Lock()
			running = false
			runMu.Unlock()
		}
	}
}
