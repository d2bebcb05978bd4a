package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/output"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage CLI settings",
	Long:  "Read and write persisted configuration values",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.GetString(args[0]))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetString(args[0], args[1]); err != nil {
			return err
		}
		output.PrintSuccess("%s = %s", args[0], args[1])
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where configuration is stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.GetConfigDir())
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
