package cmd

import (
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/errors"
	"github.com/filxconnect/cli/pkg/output"
	"github.com/filxconnect/cli/pkg/prompter"
	"github.com/filxconnect/cli/pkg/service"
	"github.com/filxconnect/cli/pkg/session"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Sign up, sign in and sign out of FilxConnect",
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, err := prompter.PromptString("Username: ")
		if err != nil {
			return err
		}
		email, err := prompter.PromptString("Email: ")
		if err != nil {
			return err
		}
		password, err := prompter.PromptPassword("Password: ")
		if err != nil {
			return err
		}

		authService := service.NewAuthService()
		user, err := authService.SignUp(cmd.Context(), username, email, password)
		if err != nil {
			return err
		}

		output.PrintSuccess("Account created for %s", user.Username)
		output.PrintInfo("Your account is pending approval. You will gain full access once a moderator approves it.")
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := prompter.PromptString("Email: ")
		if err != nil {
			return err
		}
		password, err := prompter.PromptPassword("Password: ")
		if err != nil {
			return err
		}

		authService := service.NewAuthService()
		user, err := authService.SignIn(cmd.Context(), email, password)
		if err != nil {
			var cliErr *errors.CLIError
			if stderrors.As(err, &cliErr) {
				switch cliErr.Type {
				case errors.ErrorTypeAccountBlocked:
					output.PrintError("Your account has been blocked by moderation.")
					return nil
				case errors.ErrorTypeAccountPending:
					output.PrintWarning("Your account is still pending approval.")
					output.PrintInfo("Run 'filxconnect auth status --watch' to be notified when it is approved.")
					return nil
				}
			}
			return err
		}

		output.PrintSuccess("Signed in as %s", user.Username)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !session.IsSignedIn() {
			output.PrintWarning("Not signed in")
			return nil
		}
		confirm, err := prompter.PromptConfirm("Sign out?")
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}

		authService := service.NewAuthService()
		if err := authService.SignOut(); err != nil {
			return err
		}
		output.PrintSuccess("Signed out")
		return nil
	},
}

var authWatchStatus bool

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your account's moderation status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		statusService := service.NewStatusService()
		status, err := statusService.Check(cmd.Context())
		if err != nil {
			return err
		}
		printAccountStatus(status)

		if !authWatchStatus {
			return nil
		}
		output.PrintInfo("Watching for status changes. Press Ctrl+C to stop.")
		statusService.Watch(cmd.Context(), func(t service.StatusTransition) {
			printAccountStatus(t.To)
		})
		return nil
	},
}

func printAccountStatus(status api.UserStatus) {
	switch status {
	case api.UserStatusActive:
		output.PrintSuccess("Account status: active")
	case api.UserStatusPending:
		output.PrintWarning("Account status: pending approval")
	case api.UserStatusBlocked:
		output.PrintError("Account status: blocked")
	default:
		output.PrintInfo("Account status: unknown (%d)", int(status))
	}
}

func init() {
	authStatusCmd.Flags().BoolVar(&authWatchStatus, "watch", false, "Keep polling until the status changes")

	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}
