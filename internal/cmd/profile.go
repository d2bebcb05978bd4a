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

var (
	profileUsername string
	profileBio      string
)

var profileCmd = &cobra.Command{
	Use:   "profile [user-id]",
	Short: "View a profile",
	Long:  "View your own profile, or another user's by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		userID := ""
		if len(args) == 1 {
			userID = args[0]
		} else if hinted, err := session.TakeViewUser(); err == nil {
			userID = hinted
		}

		profileService := service.NewProfileService()
		profile, err := profileService.View(cmd.Context(), userID)
		if err != nil {
			return err
		}

		if !profile.IsSelf {
			// Remember this person so a bare "messages open" picks
			// them up.
			if err := session.SetMessageTarget(profile.User.ID, profile.User.Username, profile.AvatarURL); err != nil {
				logger.Warn("Failed to save message target", "error", err)
			}
		}

		if output.GetFormat() == output.FormatJSON {
			return output.Print(profile)
		}

		fmt.Printf("@%s\n", profile.User.Username)
		if profile.User.Bio != "" {
			fmt.Printf("%s\n", profile.User.Bio)
		}
		fmt.Printf("avatar: %s\n", profile.AvatarURL)
		fmt.Printf("%d followers | %d following | %d posts\n\n", profile.Followers, profile.Following, len(profile.Posts))

		for _, p := range profile.Posts {
			status := ""
			if profile.IsSelf && p.Status != api.PostStatusApproved {
				status = " [pending]"
				if p.Status == api.PostStatusRejected {
					status = " [rejected]"
				}
			}
			fmt.Printf("[%s] %s%s (%s)\n", p.ID, p.Title, status, output.RelativeTime(p.CreatedAt))
		}
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your username or bio",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		if profileUsername == "" && profileBio == "" {
			return fmt.Errorf("nothing to update, pass --username or --bio")
		}

		profileService := service.NewProfileService()
		user, err := profileService.Edit(cmd.Context(), profileUsername, profileBio)
		if err != nil {
			return err
		}
		output.PrintSuccess("Profile updated for %s", user.Username)
		return nil
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <image-file>",
	Short: "Upload a new profile picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		profileService := service.NewProfileService()
		avatarURL, err := profileService.SetAvatar(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		output.PrintSuccess("Profile picture updated")
		output.PrintInfo("%s", avatarURL)
		return nil
	},
}

func init() {
	profileEditCmd.Flags().StringVar(&profileUsername, "username", "", "New username")
	profileEditCmd.Flags().StringVar(&profileBio, "bio", "", "New bio")

	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileAvatarCmd)
}
