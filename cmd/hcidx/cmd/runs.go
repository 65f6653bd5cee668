package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/hcidx/pkg/report"
	"github.com/ssargent/hcidx/pkg/runstore"
)

// runsCmd is the parent for run-store inspection subcommands.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect persisted benchmark runs",
}

// runsListCmd lists every persisted run.
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted benchmark runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")

		store, err := runstore.Open(dataDir)
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer store.Close()

		ids, err := store.List()
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		if len(ids) == 0 {
			fmt.Println("no runs saved")
			return nil
		}

		for _, id := range ids {
			rec, err := store.Get(id)
			if err != nil {
				return fmt.Errorf("failed to load run %s: %w", id, err)
			}
			printRunSummary(id, rec)
		}
		return nil
	},
}

// runsShowCmd prints a full report for a single run.
var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full report for a persisted run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")

		id, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], err)
		}

		store, err := runstore.Open(dataDir)
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer store.Close()

		rec, err := store.Get(id)
		if err != nil {
			if errors.Is(err, runstore.ErrNotFound) {
				return fmt.Errorf("no such run: %s", id)
			}
			return fmt.Errorf("failed to load run %s: %w", id, err)
		}

		report.WriteHuman(cmd.OutOrStdout(), rec.Config, rec.Stats, rec.Elapsed())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsCmd.PersistentFlags().String("data-dir", "./hcidx-runs", "Run store directory")
}

func printRunSummary(id ksuid.KSUID, rec runstore.RunRecord) {
	fmt.Printf("%s  %-10s %s  queries=%-8d qps=%.1f\n",
		id,
		rec.Config.Workload.Kind,
		rec.CreatedAt.Format(time.RFC3339),
		rec.Stats.Queries,
		queriesPerSecond(rec),
	)
}

func queriesPerSecond(rec runstore.RunRecord) float64 {
	secs := rec.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(rec.Stats.Queries) / secs
}
