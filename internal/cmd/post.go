package cmd

import (
	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/output"
	"github.com/filxconnect/cli/pkg/prompter"
	"github.com/filxconnect/cli/pkg/service"
)

var postImages []string

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create and manage your posts",
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new post",
	Long:  "Create a post. It stays pending until a moderator approves it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		title, err := prompter.PromptString("Title: ")
		if err != nil {
			return err
		}
		content, err := prompter.PromptMultiline("Content")
		if err != nil {
			return err
		}

		profileService := service.NewProfileService()
		post, err := profileService.CreatePost(cmd.Context(), title, content, postImages)
		if err != nil {
			return err
		}

		output.PrintSuccess("Post %s created", post.ID)
		output.PrintInfo("It will appear in feeds once approved by moderation.")
		return nil
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		confirm, err := prompter.PromptConfirm("Delete this post?")
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}

		profileService := service.NewProfileService()
		if err := profileService.DeletePost(cmd.Context(), args[0]); err != nil {
			return err
		}
		output.PrintSuccess("Post %s deleted", args[0])
		return nil
	},
}

func init() {
	postCreateCmd.Flags().StringArrayVar(&postImages, "image", nil, "Attach an image file (repeatable)")

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postDeleteCmd)
}
