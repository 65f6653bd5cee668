// Package tiered implements the hot/cold composite index: two
// ordtree.Tree instances (hot, cold) plus a dense per-key exponentially
// decayed access score that drives promotion from cold into hot.
//
// The index is single-threaded and non-durable, exactly like the
// ordtree.Tree it is built from; callers needing concurrent access or
// persistence wrap an Index rather than asking it to provide either
// (see pkg/api and pkg/runstore for examples of both, layered outside
// this package).
package tiered

import (
	"fmt"
	"io"
	"os"

	"github.com/ssargent/hcidx/pkg/ordtree"
)

// Params is the read-only configuration of an Index, copied in at
// construction time.
type Params struct {
	// DecayAlpha is the exponential smoothing factor applied to the
	// access score on every hit: score = DecayAlpha*score + 1.
	DecayAlpha float64
	// HotThreshold is the minimum post-update score that makes a key a
	// promotion candidate.
	HotThreshold float64
	// MaxHotFraction bounds the hot tier's size as a fraction of
	// MaxKey+1.
	MaxHotFraction float64
	// Inclusive selects the specified cache semantics (hot is a
	// non-authoritative cache over cold). false is reserved and
	// rejected by New.
	Inclusive bool
}

// Stats is a by-value snapshot of an Index's lifetime counters plus
// point-in-time tier sizes.
type Stats struct {
	Queries        int64
	HotHits        int64
	ColdHits       int64
	NotFound       int64
	HotNodeVisits  int64
	ColdNodeVisits int64
	HotKeys        int
	ColdKeys       int
}

// Index composes a hot and a cold ordtree.Tree over the key range
// [0, MaxKey], routing point and range queries through the hot tier
// first and promoting sufficiently "warm" cold keys into hot.
type Index struct {
	hot, cold *ordtree.Tree
	maxKey    int64
	score     []float64
	params    Params
	stats     Stats

	diagnostics io.Writer
}

// Option configures an Index at construction time.
type Option func(*Index)

// WithDiagnostics redirects the out-of-range-insert diagnostic line
// away from the package default (os.Stderr). Pass io.Discard to
// silence it entirely for embedded use.
func WithDiagnostics(w io.Writer) Option {
	return func(ix *Index) { ix.diagnostics = w }
}

// New creates an index over keys [0, maxKey] backed by two B-trees of
// minimum degree t. It returns an error if maxKey < 0, t < 2, or
// params.Inclusive is false: exclusive (non-inclusive) mode is
// reserved but not specified (spec Design Note §9) and is rejected
// rather than guessed at.
func New(maxKey int64, t int, params Params, opts ...Option) (*Index, error) {
	if maxKey < 0 {
		return nil, fmt.Errorf("tiered: max_key must be >= 0, got %d", maxKey)
	}
	if t < 2 {
		return nil, fmt.Errorf("tiered: minimum degree must be >= 2, got %d", t)
	}
	if !params.Inclusive {
		return nil, fmt.Errorf("tiered: exclusive (non-inclusive) mode is reserved and not implemented")
	}

	ix := &Index{
		hot:         ordtree.New(t),
		cold:        ordtree.New(t),
		maxKey:      maxKey,
		score:       make([]float64, maxKey+1),
		params:      params,
		diagnostics: os.Stderr,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

func (ix *Index) inRange(k ordtree.Key) bool {
	return k >= 0 && k <= ix.maxKey
}

// Insert upserts (k, v) into the cold tier. Hot is untouched. If k is
// outside [0, MaxKey] the call is rejected: a diagnostic line is
// written to the configured sink and the call otherwise has no
// effect.
func (ix *Index) Insert(k ordtree.Key, v ordtree.Payload) {
	if !ix.inRange(k) {
		if ix.diagnostics != nil {
			fmt.Fprintf(ix.diagnostics, "tiered: insert key %d out of range [0, %d]\n", k, ix.maxKey)
		}
		return
	}
	ix.cold.Insert(k, v)
}

// Search performs a point lookup: hot first, then cold on miss. It
// updates the per-key access score on every hit and attempts
// promotion on a cold hit that crosses HotThreshold.
func (ix *Index) Search(k ordtree.Key) ordtree.Payload {
	ix.stats.Queries++

	var hotStats ordtree.Stats
	if v := ix.hot.Search(k, &hotStats); v != nil {
		ix.stats.HotNodeVisits += hotStats.NodeVisits
		ix.stats.HotHits++
		if ix.inRange(k) {
			ix.score[k] = ix.params.DecayAlpha*ix.score[k] + 1.0
		}
		return v
	}
	ix.stats.HotNodeVisits += hotStats.NodeVisits

	var coldStats ordtree.Stats
	v := ix.cold.Search(k, &coldStats)
	ix.stats.ColdNodeVisits += coldStats.NodeVisits
	if v != nil {
		ix.stats.ColdHits++
		if ix.inRange(k) {
			newScore := ix.params.DecayAlpha*ix.score[k] + 1.0
			ix.score[k] = newScore
			if newScore >= ix.params.HotThreshold {
				ix.maybePromote(k)
			}
		}
		return v
	}

	ix.stats.NotFound++
	return nil
}

// maybePromote copies k from cold into hot if hot has spare capacity,
// k is not already hot, and k is still present in cold. Any failure
// of these conditions is a silent no-op: promotion anomalies are
// never errors (spec §7).
func (ix *Index) maybePromote(k ordtree.Key) {
	total := ix.maxKey + 1
	capacity := int(ix.params.MaxHotFraction * float64(total))
	if ix.hot.CountKeys() >= capacity {
		return
	}
	if ix.hot.Search(k, nil) != nil {
		return
	}
	v := ix.cold.Search(k, nil)
	if v == nil {
		return
	}
	ix.hot.Insert(k, v)
}

// RangeSearch emits every (k, v) in the union of hot and cold with
// lo <= k <= hi, each key exactly once. No ordering is guaranteed
// across the merged stream.
func (ix *Index) RangeSearch(lo, hi ordtree.Key, emit func(ordtree.Key, ordtree.Payload)) {
	seen := make([]bool, ix.maxKey+1)
	dedup := func(k ordtree.Key, v ordtree.Payload) {
		if k < 0 || k > ix.maxKey {
			return
		}
		if seen[k] {
			return
		}
		seen[k] = true
		emit(k, v)
	}

	var hotStats, coldStats ordtree.Stats
	ix.hot.RangeSearch(lo, hi, dedup, &hotStats)
	ix.cold.RangeSearch(lo, hi, dedup, &coldStats)
	ix.stats.HotNodeVisits += hotStats.NodeVisits
	ix.stats.ColdNodeVisits += coldStats.NodeVisits
}

// Stats returns a snapshot of the index's lifetime counters with
// HotKeys and ColdKeys freshly recomputed.
func (ix *Index) Stats() Stats {
	s := ix.stats
	s.HotKeys = ix.hot.CountKeys()
	s.ColdKeys = ix.cold.CountKeys()
	return s
}
