package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/output"
	"github.com/filxconnect/cli/pkg/service"
	"github.com/filxconnect/cli/pkg/session"
)

var notificationsWatch bool

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "View your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		notificationService := service.NewNotificationService()
		notifications, err := notificationService.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		displayNotifications(notifications, notificationService.UnreadCount())

		if !notificationsWatch {
			return nil
		}
		output.PrintInfo("Watching notifications. Press Ctrl+C to stop.")
		notificationService.Watch(cmd.Context(), func(notifications []api.Notification, unread int) {
			displayNotifications(notifications, unread)
		})
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		notificationService := service.NewNotificationService()
		notifications, err := notificationService.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		if err := notificationService.MarkRead(cmd.Context(), args[0]); err != nil {
			return err
		}
		output.PrintSuccess("Notification marked read")

		for _, n := range notifications {
			if n.ID == args[0] && n.PostID != "" {
				// A bare "feed like" afterwards targets this post.
				if err := session.SetViewPost(n.PostID); err != nil {
					logger.Warn("Failed to save view-post hint", "error", err)
				}
				break
			}
		}
		return nil
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark all notifications read",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		notificationService := service.NewNotificationService()
		if err := notificationService.MarkAllRead(cmd.Context()); err != nil {
			return err
		}
		output.PrintSuccess("All notifications marked read")
		return nil
	},
}

func displayNotifications(notifications []api.Notification, unread int) {
	if len(notifications) == 0 {
		fmt.Println("No notifications.")
		return
	}

	if output.GetFormat() == output.FormatJSON {
		output.Print(notifications)
		return
	}

	for _, n := range notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s: %s (%s)\n", marker, n.ID, n.Sender, n.Message, output.RelativeTime(n.CreatedAt))
	}
	fmt.Printf("\n%d unread\n", unread)
}

func init() {
	notificationsCmd.Flags().BoolVar(&notificationsWatch, "watch", false, "Keep polling for new notifications")

	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)
}
