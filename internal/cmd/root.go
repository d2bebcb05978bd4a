package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/client"
	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/errors"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/output"
	"github.com/filxconnect/cli/pkg/session"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "filxconnect",
	Short: "FilxConnect CLI - Moderated social networking from the terminal",
	Long: `FilxConnect CLI is a command-line client for the FilxConnect
social platform. Browse your connection feed, message other users,
and manage your profile directly from the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Init(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			os.Exit(1)
		}

		logger.Init(verbose)

		if !output.ValidFormat(outputFmt) {
			fmt.Fprintf(os.Stderr, "Error: invalid output format %q\n", outputFmt)
			os.Exit(1)
		}
		// The flag default must not clobber a persisted format.
		if cmd.Flags().Changed("output") {
			config.Set("output.format", outputFmt)
		}

		client.Init()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.FormatError(err))
		os.Exit(1)
	}
}

// requireSession guards commands that only make sense signed in.
func requireSession() error {
	if !session.IsSignedIn() {
		return errors.SessionMissingError()
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/filxconnect/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(connectionsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
}
