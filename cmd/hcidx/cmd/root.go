/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/hcidx/pkg/config"
	"github.com/ssargent/hcidx/pkg/di"
)

type contextKey string

const configContextKey contextKey = "config"

// container is wired by main() before Execute() runs.
var container *di.Container

// SetContainer injects the dependency injection container used by the
// bench and serve commands.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hcidx",
	Short: "hot/cold tiered B-tree index benchmark and demo server",
	Long: `hcidx builds an in-memory two-tier ordered-key index (a hot
B-tree cache in front of a cold B-tree of record) and either benchmarks
it against a synthetic workload or serves it over HTTP for interactive
inspection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		var cfg *config.Config
		if configPath != "" && config.Exists(configPath) {
			loaded, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		} else {
			cfg = config.Default()
		}

		cmd.SetContext(context.WithValue(cmd.Context(), configContextKey, cfg))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath(), "Path to the YAML config file")
}

// configFromContext retrieves the config.Config loaded by the root
// command's PersistentPreRunE.
func configFromContext(cmd *cobra.Command) *config.Config {
	cfg, ok := cmd.Context().Value(configContextKey).(*config.Config)
	if !ok {
		return config.Default()
	}
	return cfg
}
