package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/hcidx/pkg/config"
	"github.com/ssargent/hcidx/pkg/report"
	"github.com/ssargent/hcidx/pkg/runstore"
	"github.com/ssargent/hcidx/pkg/tiered"
	"github.com/ssargent/hcidx/pkg/workload"
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run a synthetic point-lookup benchmark against a tiered index",
	Long: `Build a tiered index by inserting keys 0..nkeys, then run
nqueries point lookups drawn from the configured workload, reporting
throughput and hot/cold tier hit rates.

Example:
  hcidx bench --workload zipf --theta 1.1 --nkeys 100000 --nqueries 500000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFromContext(cmd)
		applyBenchFlags(cmd, cfg)

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

		sampler, err := newSampler(cfg.Workload)
		if err != nil {
			return fmt.Errorf("failed to build workload sampler: %w", err)
		}

		start := time.Now()
		for i := int64(0); i < cfg.Workload.NQueries; i++ {
			idx.Search(sampler.Next())
		}
		elapsed := time.Since(start)

		stats := idx.Stats()

		asCSV, _ := cmd.Flags().GetBool("csv")
		if asCSV {
			if err := report.WriteCSVHeader(os.Stdout); err != nil {
				return err
			}
			if err := report.WriteCSVRow(os.Stdout, *cfg, stats, elapsed); err != nil {
				return err
			}
		} else {
			report.WriteHuman(os.Stdout, *cfg, stats, elapsed)
		}

		save, _ := cmd.Flags().GetBool("save")
		if save {
			if err := saveRun(cfg, stats, elapsed); err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().Int64("nkeys", 0, "Number of keys to insert (default: from config)")
	benchCmd.Flags().Int64("nqueries", 0, "Number of queries to run (default: from config)")
	benchCmd.Flags().String("workload", "", "Workload kind: uniform or zipf (default: from config)")
	benchCmd.Flags().Float64("theta", 0, "Zipf exponent (default: from config)")
	benchCmd.Flags().Float64("decay", 0, "Hot-tier score decay alpha (default: from config)")
	benchCmd.Flags().Float64("hot-thresh", 0, "Promotion score threshold (default: from config)")
	benchCmd.Flags().Float64("hot-frac", 0, "Max fraction of keys allowed in the hot tier (default: from config)")
	benchCmd.Flags().Uint64("seed", 0, "Workload RNG seed (default: from config)")
	benchCmd.Flags().Bool("csv", false, "Emit a CSV row instead of a human-readable summary")
	benchCmd.Flags().Bool("save", false, "Persist this run via the run store")
	benchCmd.Flags().String("data-dir", "./hcidx-runs", "Run store directory, used with --save")
}

// applyBenchFlags overlays every bench flag with a positive value onto
// cfg (zero or negative values leave the config value in place), then
// raises Index.MaxKey to at least Workload.NKeys.
func applyBenchFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetInt64("nkeys"); v > 0 {
		cfg.Workload.NKeys = v
	}
	if v, _ := cmd.Flags().GetInt64("nqueries"); v > 0 {
		cfg.Workload.NQueries = v
	}
	if v, _ := cmd.Flags().GetString("workload"); v != "" {
		cfg.Workload.Kind = v
	}
	if v, _ := cmd.Flags().GetFloat64("theta"); v > 0 {
		cfg.Workload.Theta = v
	}
	if v, _ := cmd.Flags().GetFloat64("decay"); v > 0 {
		cfg.Index.DecayAlpha = v
	}
	if v, _ := cmd.Flags().GetFloat64("hot-thresh"); v > 0 {
		cfg.Index.HotThreshold = v
	}
	if v, _ := cmd.Flags().GetFloat64("hot-frac"); v > 0 {
		cfg.Index.MaxHotFraction = v
	}
	if v, _ := cmd.Flags().GetUint64("seed"); v > 0 {
		cfg.Workload.Seed = v
	}
	if cfg.Index.MaxKey < cfg.Workload.NKeys {
		cfg.Index.MaxKey = cfg.Workload.NKeys
	}
}

func newSampler(wl config.Workload) (workload.Sampler, error) {
	switch wl.Kind {
	case "uniform":
		return workload.NewUniform(wl.NKeys, wl.Seed), nil
	case "zipf", "":
		return workload.NewZipf(wl.NKeys, wl.Theta, wl.Seed)
	default:
		return nil, fmt.Errorf("unknown workload kind %q", wl.Kind)
	}
}

func saveRun(cfg *config.Config, stats tiered.Stats, elapsed time.Duration) error {
	dataDir, _ := benchCmd.Flags().GetString("data-dir")

	store, err := runstore.Open(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Put(runstore.RunRecord{
		Config:    *cfg,
		Stats:     stats,
		ElapsedNS: int64(elapsed),
	})
	if err != nil {
		return err
	}

	fmt.Printf("saved run %s\n", id)
	return nil
}
