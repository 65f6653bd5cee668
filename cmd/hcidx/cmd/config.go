package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/hcidx/pkg/config"
)

// configCmd is the parent for configuration-file subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the hcidx YAML configuration file",
}

// configInitCmd writes a default config file.
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if len(args) == 1 {
			path = args[0]
		}

		if config.Exists(path) {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}
		}

		if err := config.Save(config.Default(), path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}
