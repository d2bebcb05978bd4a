package cmd

import (
	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/output"
	"github.com/filxconnect/cli/pkg/prompter"
	"github.com/filxconnect/cli/pkg/service"
)

var reportCmd = &cobra.Command{
	Use:   "report <user-id>",
	Short: "Report a user to moderation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		reason, err := prompter.PromptString("Reason: ")
		if err != nil {
			return err
		}

		profileService := service.NewProfileService()
		if err := profileService.Report(cmd.Context(), args[0], reason); err != nil {
			return err
		}
		output.PrintSuccess("Report filed. A moderator will review it.")
		return nil
	},
}
