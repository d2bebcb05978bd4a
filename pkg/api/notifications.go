package api

import (
	"context"
	"fmt"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/logger"
)

// GetNotifications retrieves all notifications for a user
func GetNotifications(ctx context.Context, userID string) ([]Notification, error) {
	logger.Debug("Fetching notifications", "user_id", userID)

	var notifications []Notification
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetResult(&notifications).
		Get(fmt.Sprintf("/notifications/%s", userID))

	if err := CheckResponse(resp, err); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}

// MarkNotificationRead marks a single notification as read
func MarkNotificationRead(ctx context.Context, notificationID string) error {
	logger.Debug("Marking notification read", "notification_id", notificationID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Put(fmt.Sprintf("/notifications/%s", notificationID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

// MarkAllNotificationsRead marks every notification for a user as read
func MarkAllNotificationsRead(ctx context.Context, userID string) error {
	logger.Debug("Marking all notifications read", "user_id", userID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		Put(fmt.Sprintf("/notifications/mark-all/%s", userID))

	if err := CheckResponse(resp, err); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}

	return nil
}
