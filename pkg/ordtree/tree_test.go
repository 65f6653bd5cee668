package ordtree

import (
	"math/rand/v2"
	"sort"
	"testing"
)

func TestNewPanicsOnSmallDegree(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected New(1) to panic")
		}
	}()
	New(1)
}

// TestP1_BTreeShape checks the structural invariants of a minimum
// degree t B-tree after a long random sequence of inserts: node key
// counts within bounds, strictly increasing keys per node, and equal
// leaf depth.
func TestP1_BTreeShape(t *testing.T) {
	const t2 = 3
	tr := New(t2)

	rng := rand.New(rand.NewPCG(1, 2))
	inserted := make(map[Key]bool)
	for i := 0; i < 2000; i++ {
		k := rng.Int64N(500)
		tr.Insert(k, k*10)
		inserted[k] = true
	}

	depths := map[int]bool{}
	var walk func(n *node, depth int, isRoot bool)
	walk = func(n *node, depth int, isRoot bool) {
		if n.leaf {
			depths[depth] = true
		}
		if isRoot {
			if n.nkeys < 0 || n.nkeys > 2*t2-1 {
				t.Fatalf("root has %d keys, want 0..%d", n.nkeys, 2*t2-1)
			}
		} else {
			if n.nkeys < t2-1 || n.nkeys > 2*t2-1 {
				t.Fatalf("non-root node has %d keys, want %d..%d", n.nkeys, t2-1, 2*t2-1)
			}
		}
		for i := 0; i < n.nkeys-1; i++ {
			if n.keys[i] >= n.keys[i+1] {
				t.Fatalf("keys not strictly increasing at index %d: %v", i, n.keys[:n.nkeys])
			}
		}
		if !n.leaf {
			for i := 0; i <= n.nkeys; i++ {
				walk(n.children[i], depth+1, false)
			}
		}
	}
	walk(tr.root, 0, true)

	if len(depths) != 1 {
		t.Fatalf("leaves found at %d distinct depths, want 1: %v", len(depths), depths)
	}

	if tr.CountKeys() != len(inserted) {
		t.Fatalf("CountKeys() = %d, want %d distinct keys inserted", tr.CountKeys(), len(inserted))
	}
}

// TestP2_Upsert checks that re-inserting an existing key replaces its
// payload without changing the key count.
func TestP2_Upsert(t *testing.T) {
	tr := New(2)
	tr.Insert(5, "v1")
	tr.Insert(1, "other")
	tr.Insert(5, "v2")

	if got := tr.Search(5, nil); got != "v2" {
		t.Fatalf("Search(5) = %v, want v2", got)
	}
	if got := tr.CountKeys(); got != 2 {
		t.Fatalf("CountKeys() = %d, want 2", got)
	}
}

// TestP3_SearchTotality checks that every inserted key is found and
// every key never inserted reports absent.
func TestP3_SearchTotality(t *testing.T) {
	tr := New(3)
	present := []Key{1, 2, 3, 10, 20, 100}
	for _, k := range present {
		tr.Insert(k, k)
	}

	for _, k := range present {
		if got := tr.Search(k, nil); got != k {
			t.Errorf("Search(%d) = %v, want %d", k, got, k)
		}
	}

	for _, k := range []Key{0, 4, 15, 99, 1000} {
		if got := tr.Search(k, nil); got != nil {
			t.Errorf("Search(%d) = %v, want nil (absent)", k, got)
		}
	}
}

// TestP4_RangeCompletenessAndOrder checks that RangeSearch emits
// exactly the keys within [lo, hi] in strictly increasing order, with
// no duplicates — this is the property that exposed the double-visit
// bug in the original range-search port.
func TestP4_RangeCompletenessAndOrder(t *testing.T) {
	tr := New(4)
	const n = 500
	for k := Key(0); k < n; k++ {
		tr.Insert(k, k)
	}

	lo, hi := Key(37), Key(211)
	var got []Key
	tr.RangeSearch(lo, hi, func(k Key, v Payload) {
		got = append(got, k)
		if v != k {
			t.Errorf("emitted value %v for key %d, want %d", v, k, k)
		}
	}, nil)

	want := int(hi-lo) + 1
	if len(got) != want {
		t.Fatalf("emitted %d keys, want %d", len(got), want)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }) {
		t.Fatalf("emitted keys out of order: %v", got)
	}
	seen := map[Key]bool{}
	for _, k := range got {
		if seen[k] {
			t.Fatalf("key %d emitted more than once", k)
		}
		seen[k] = true
		if k < lo || k > hi {
			t.Fatalf("emitted out-of-range key %d", k)
		}
	}
}

func TestRangeSearchEmptyWhenLoGreaterThanHi(t *testing.T) {
	tr := New(2)
	tr.Insert(1, 1)
	tr.Insert(2, 2)

	called := false
	tr.RangeSearch(5, 1, func(Key, Payload) { called = true }, nil)
	if called {
		t.Fatal("expected no emissions when lo > hi")
	}
}

// TestP8_NodeVisitAccounting checks that the Stats node-visit counter
// grows during Search and again during RangeSearch, and that a nil
// *Stats is accepted by both.
func TestP8_NodeVisitAccounting(t *testing.T) {
	tr := New(2)
	for k := Key(0); k < 100; k++ {
		tr.Insert(k, k)
	}

	var stats Stats
	tr.Search(42, &stats)
	if stats.NodeVisits == 0 {
		t.Fatal("expected at least one node visit for a present key")
	}

	visitsBeforeRange := stats.NodeVisits
	tr.RangeSearch(10, 20, func(Key, Payload) {}, &stats)
	if stats.NodeVisits <= visitsBeforeRange {
		t.Fatal("expected RangeSearch to add further node visits")
	}

	// A nil Stats pointer must not panic and must disable accounting.
	tr.Search(42, nil)
	tr.RangeSearch(0, 5, func(Key, Payload) {}, nil)
}

// TestP9_RoundTrip inserts N distinct keys then searches all of them
// back, checking payload fidelity and the final key count.
func TestP9_RoundTrip(t *testing.T) {
	tr := New(5)
	const n = 1000
	for k := Key(0); k < n; k++ {
		tr.Insert(k, k*k)
	}
	for k := Key(0); k < n; k++ {
		if got := tr.Search(k, nil); got != k*k {
			t.Fatalf("Search(%d) = %v, want %d", k, got, k*k)
		}
	}
	if got := tr.CountKeys(); got != n {
		t.Fatalf("CountKeys() = %d, want %d", got, n)
	}
}
