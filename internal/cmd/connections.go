package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/output"
	"github.com/filxconnect/cli/pkg/service"
)

var connectionsCmd = &cobra.Command{
	Use:     "connections",
	Aliases: []string{"conn"},
	Short:   "Manage who you follow",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		connectionService := service.NewConnectionService()
		connections, err := connectionService.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(connections) == 0 {
			fmt.Println("You are not following anyone yet.")
			return nil
		}
		return displayUsers(connections)
	},
}

var connectionsSuggestedCmd = &cobra.Command{
	Use:   "suggested",
	Short: "Show users you might want to follow",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		connectionService := service.NewConnectionService()
		suggested, err := connectionService.Suggested(cmd.Context())
		if err != nil {
			return err
		}
		if len(suggested) == 0 {
			fmt.Println("No suggestions right now.")
			return nil
		}
		return displayUsers(suggested)
	},
}

var connectionsFollowCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		connectionService := service.NewConnectionService()
		if err := connectionService.Follow(cmd.Context(), args[0]); err != nil {
			return err
		}
		output.PrintSuccess("Now following %s", args[0])
		return nil
	},
}

var connectionsUnfollowCmd = &cobra.Command{
	Use:   "unfollow <user-id>",
	Short: "Unfollow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		connectionService := service.NewConnectionService()
		if err := connectionService.Unfollow(cmd.Context(), args[0]); err != nil {
			return err
		}
		output.PrintSuccess("Unfollowed %s", args[0])
		return nil
	},
}

func displayUsers(users []api.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Username, truncate(u.Bio, 50)})
	}
	return output.PrintList(users, []string{"ID", "Username", "Bio"}, rows)
}

func init() {
	connectionsCmd.AddCommand(connectionsSuggestedCmd)
	connectionsCmd.AddCommand(connectionsFollowCmd)
	connectionsCmd.AddCommand(connectionsUnfollowCmd)
}
