// Package report renders a completed benchmark run as either a
// human-readable summary or a CSV row, matching the column layout of
// the original command-line tool's output so results stay diffable
// across rewrites.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/ssargent/hcidx/pkg/config"
	"github.com/ssargent/hcidx/pkg/tiered"
)

// csvHeader is the fixed column order every CSV row must match.
var csvHeader = []string{
	"mode", "workload", "theta", "nkeys", "nqueries", "hot_threshold",
	"decay_alpha", "hot_fraction", "seed", "elapsed_sec", "qps",
	"hot_hits", "cold_hits", "not_found", "hot_keys", "cold_keys",
	"avg_hot_nodes_per_q", "avg_cold_nodes_per_q",
}

// WriteHuman writes a multi-line, human-readable summary of a finished
// run to w.
func WriteHuman(w io.Writer, cfg config.Config, stats tiered.Stats, elapsed time.Duration) {
	qps := queriesPerSecond(stats, elapsed)

	fmt.Fprintf(w, "workload:     %s (theta=%.3f seed=%d)\n", cfg.Workload.Kind, cfg.Workload.Theta, cfg.Workload.Seed)
	fmt.Fprintf(w, "keys:         %d\n", cfg.Workload.NKeys)
	fmt.Fprintf(w, "queries:      %d\n", stats.Queries)
	fmt.Fprintf(w, "elapsed:      %s\n", elapsed)
	fmt.Fprintf(w, "throughput:   %.1f queries/sec\n", qps)
	fmt.Fprintf(w, "hot tier:     %d keys, %d hits, %.2f avg nodes/query\n",
		stats.HotKeys, stats.HotHits, avgNodesPerQuery(stats.HotNodeVisits, stats.Queries))
	fmt.Fprintf(w, "cold tier:    %d keys, %d hits, %.2f avg nodes/query\n",
		stats.ColdKeys, stats.ColdHits, avgNodesPerQuery(stats.ColdNodeVisits, stats.Queries))
	fmt.Fprintf(w, "not found:    %d\n", stats.NotFound)
}

// WriteCSVHeader writes the fixed CSV column header to w.
func WriteCSVHeader(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	return cw.Write(csvHeader)
}

// WriteCSVRow writes a single CSV data row for a finished run to w.
func WriteCSVRow(w io.Writer, cfg config.Config, stats tiered.Stats, elapsed time.Duration) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	row := []string{
		"bench",
		cfg.Workload.Kind,
		fmt.Sprintf("%g", cfg.Workload.Theta),
		fmt.Sprintf("%d", cfg.Workload.NKeys),
		fmt.Sprintf("%d", stats.Queries),
		fmt.Sprintf("%g", cfg.Index.HotThreshold),
		fmt.Sprintf("%g", cfg.Index.DecayAlpha),
		fmt.Sprintf("%g", cfg.Index.MaxHotFraction),
		fmt.Sprintf("%d", cfg.Workload.Seed),
		fmt.Sprintf("%g", elapsed.Seconds()),
		fmt.Sprintf("%g", queriesPerSecond(stats, elapsed)),
		fmt.Sprintf("%d", stats.HotHits),
		fmt.Sprintf("%d", stats.ColdHits),
		fmt.Sprintf("%d", stats.NotFound),
		fmt.Sprintf("%d", stats.HotKeys),
		fmt.Sprintf("%d", stats.ColdKeys),
		fmt.Sprintf("%g", avgNodesPerQuery(stats.HotNodeVisits, stats.Queries)),
		fmt.Sprintf("%g", avgNodesPerQuery(stats.ColdNodeVisits, stats.Queries)),
	}

	return cw.Write(row)
}

func queriesPerSecond(stats tiered.Stats, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(stats.Queries) / secs
}

func avgNodesPerQuery(nodeVisits, queries int64) float64 {
	if queries == 0 {
		return 0
	}
	return float64(nodeVisits) / float64(queries)
}
