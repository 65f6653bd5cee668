package tiered

import (
	"testing"
)

func baseParams() Params {
	return Params{
		DecayAlpha:     0.9,
		HotThreshold:   8.0,
		MaxHotFraction: 0.10,
		Inclusive:      true,
	}
}

func TestNewValidation(t *testing.T) {
	t.Run("rejects negative max key", func(t *testing.T) {
		if _, err := New(-1, 2, baseParams()); err == nil {
			t.Fatal("expected error for negative max key")
		}
	})

	t.Run("rejects degree below 2", func(t *testing.T) {
		if _, err := New(10, 1, baseParams()); err == nil {
			t.Fatal("expected error for degree below 2")
		}
	})

	t.Run("rejects exclusive mode", func(t *testing.T) {
		params := baseParams()
		params.Inclusive = false
		if _, err := New(10, 2, params); err == nil {
			t.Fatal("expected error for exclusive mode")
		}
	})

	t.Run("accepts valid params", func(t *testing.T) {
		if _, err := New(10, 2, baseParams()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// TestScenario1_EmptySearch: search a key never inserted reports
// absent and records exactly one not-found query.
func TestScenario1_EmptySearch(t *testing.T) {
	ix, err := New(9, 2, baseParams())
	if err != nil {
		t.Fatal(err)
	}

	if got := ix.Search(3); got != nil {
		t.Fatalf("Search(3) = %v, want nil", got)
	}

	stats := ix.Stats()
	if stats.Queries != 1 || stats.NotFound != 1 {
		t.Fatalf("stats = %+v, want Queries=1 NotFound=1", stats)
	}
}

// TestScenario2_InsertAndLookup: a present key hits cold, an absent
// neighbor does not.
func TestScenario2_InsertAndLookup(t *testing.T) {
	ix, err := New(9, 2, baseParams())
	if err != nil {
		t.Fatal(err)
	}

	ix.Insert(5, "P")
	if got := ix.Search(5); got != "P" {
		t.Fatalf("Search(5) = %v, want P", got)
	}
	if got := ix.Search(6); got != nil {
		t.Fatalf("Search(6) = %v, want nil", got)
	}

	stats := ix.Stats()
	if stats.ColdHits != 1 {
		t.Fatalf("ColdHits = %d, want 1", stats.ColdHits)
	}
	if stats.NotFound != 1 {
		t.Fatalf("NotFound = %d, want 1", stats.NotFound)
	}
}

// TestScenario3_PromotionAfterThreshold repeatedly searches one key
// until its decayed score crosses HotThreshold, checking it is
// promoted into hot exactly once and served from hot thereafter.
func TestScenario3_PromotionAfterThreshold(t *testing.T) {
	params := Params{
		DecayAlpha:     0.9,
		HotThreshold:   8.0,
		MaxHotFraction: 0.10,
		Inclusive:      true,
	}
	ix, err := New(99, 4, params)
	if err != nil {
		t.Fatal(err)
	}

	ix.Insert(42, "P")

	for i := 0; i < 30; i++ {
		if got := ix.Search(42); got != "P" {
			t.Fatalf("Search(42) call %d = %v, want P", i, got)
		}
	}

	stats := ix.Stats()
	if stats.HotHits+stats.ColdHits != 30 {
		t.Fatalf("HotHits+ColdHits = %d, want 30", stats.HotHits+stats.ColdHits)
	}
	if stats.HotHits == 0 {
		t.Fatal("expected at least one hot hit after repeated access")
	}
	if ix.hot.Search(42, nil) == nil {
		t.Fatal("expected key 42 to be promoted into hot")
	}

	// Once hot, further searches should never touch cold again.
	coldVisitsBefore := ix.Stats().ColdNodeVisits
	ix.Search(42)
	if ix.Stats().ColdNodeVisits != coldVisitsBefore {
		t.Fatal("expected search of a hot key to avoid touching cold")
	}
}

// TestScenario4_CapacityCeiling checks that the hot tier never exceeds
// its computed capacity even when more keys qualify for promotion.
func TestScenario4_CapacityCeiling(t *testing.T) {
	params := Params{
		DecayAlpha:     0.9,
		HotThreshold:   8.0,
		MaxHotFraction: 0.02, // capacity = floor(0.02*100) = 2
		Inclusive:      true,
	}
	ix, err := New(99, 4, params)
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []int64{1, 2, 3} {
		ix.Insert(k, k)
	}

	for i := 0; i < 30; i++ {
		ix.Search(1)
		ix.Search(2)
		ix.Search(3)
	}

	hotCount := 0
	for _, k := range []int64{1, 2, 3} {
		if ix.hot.Search(k, nil) != nil {
			hotCount++
		}
	}
	if hotCount != 2 {
		t.Fatalf("hot tier has %d of the 3 qualifying keys, want exactly 2", hotCount)
	}
	if got := ix.Stats().HotKeys; got != 2 {
		t.Fatalf("Stats().HotKeys = %d, want 2", got)
	}
}

// TestP5_InclusiveContainment checks that every key resident in hot is
// also resident in cold, across a workload that causes promotions.
func TestP5_InclusiveContainment(t *testing.T) {
	ix, err := New(199, 4, baseParams())
	if err != nil {
		t.Fatal(err)
	}

	for k := int64(0); k < 200; k++ {
		ix.Insert(k, k)
	}
	for round := 0; round < 20; round++ {
		for k := int64(0); k < 200; k += 7 {
			ix.Search(k)
		}
	}

	for k := int64(0); k < 200; k++ {
		if ix.hot.Search(k, nil) != nil {
			if ix.cold.Search(k, nil) == nil {
				t.Fatalf("key %d present in hot but absent from cold", k)
			}
		}
	}
}

// TestScenario5_Upsert checks overwrite semantics through the tiered
// index's cold-only insert path.
func TestScenario5_Upsert(t *testing.T) {
	ix, err := New(9, 2, baseParams())
	if err != nil {
		t.Fatal(err)
	}

	ix.Insert(7, "A")
	ix.Insert(7, "B")

	if got := ix.Search(7); got != "B" {
		t.Fatalf("Search(7) = %v, want B", got)
	}
	if got := ix.Stats().ColdKeys; got != 1 {
		t.Fatalf("ColdKeys = %d, want 1", got)
	}
}

// TestScenario6_RangeDedup forces two keys into hot, then checks a
// range scan spanning both tiers emits every key in range exactly
// once.
func TestScenario6_RangeDedup(t *testing.T) {
	params := baseParams()
	params.MaxHotFraction = 0.20 // capacity = floor(0.20*10) = 2
	ix, err := New(9, 2, params)
	if err != nil {
		t.Fatal(err)
	}

	for k := int64(0); k < 10; k++ {
		ix.Insert(k, k)
	}

	force := func(k int64) {
		for i := 0; i < 50; i++ {
			ix.Search(k)
		}
	}
	force(3)
	force(7)

	if ix.hot.Search(3, nil) == nil || ix.hot.Search(7, nil) == nil {
		t.Fatal("expected keys 3 and 7 to be promoted before the range test")
	}

	counts := map[int64]int{}
	ix.RangeSearch(2, 8, func(k int64, v any) {
		counts[k]++
	})

	want := []int64{2, 3, 4, 5, 6, 7, 8}
	if len(counts) != len(want) {
		t.Fatalf("emitted %d distinct keys, want %d (%v)", len(counts), len(want), counts)
	}
	for _, k := range want {
		if counts[k] != 1 {
			t.Errorf("key %d emitted %d times, want exactly 1", k, counts[k])
		}
	}
}

// TestInsertOutOfRangeIsRejected checks the diagnostic sink receives a
// line and the key never lands in cold.
func TestInsertOutOfRangeIsRejected(t *testing.T) {
	var sink diagSink
	ix, err := New(9, 2, baseParams(), WithDiagnostics(&sink))
	if err != nil {
		t.Fatal(err)
	}

	ix.Insert(100, "nope")
	if ix.Stats().ColdKeys != 0 {
		t.Fatalf("ColdKeys = %d, want 0 after rejected insert", ix.Stats().ColdKeys)
	}
	if !sink.written {
		t.Fatal("expected a diagnostic line for an out-of-range insert")
	}
}

type diagSink struct {
	written bool
}

func (d *diagSink) Write(p []byte) (int, error) {
	d.written = true
	return len(p), nil
}

// TestP9_RoundTrip mirrors the core round-trip property at the tiered
// layer: N distinct inserts followed by N searches return each
// payload, and ColdKeys equals N.
func TestP9_RoundTrip(t *testing.T) {
	ix, err := New(999, 4, baseParams())
	if err != nil {
		t.Fatal(err)
	}

	const n = 500
	for k := int64(0); k < n; k++ {
		ix.Insert(k, k*2)
	}
	for k := int64(0); k < n; k++ {
		if got := ix.Search(k); got != k*2 {
			t.Fatalf("Search(%d) = %v, want %d", k, got, k*2)
		}
	}
	if got := ix.Stats().ColdKeys; got != n {
		t.Fatalf("ColdKeys = %d, want %d", got, n)
	}
}
