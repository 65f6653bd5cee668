package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP demo API over a freshly built tiered index",
	Long: `Build a tiered index from config and serve it over HTTP for
interactive point lookups, range scans, inserts and stats.

Example:
  hcidx serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}
		if bind, _ := cmd.Flags().GetString("bind"); bind != "" {
			cfg.Server.Bind = bind
		}

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		idx, err := container.GetIndexFactory().CreateIndex(cfg.Index)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}

		for k := int64(0); k < cfg.Workload.NKeys; k++ {
			idx.Insert(k, k)
		}

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(idx, cfg.Server)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (default: from config)")
	serveCmd.Flags().String("bind", "", "Address to bind to (default: from config)")
}
