// Package ordtree implements a bounded-fanout ordered map keyed by a
// signed 64-bit integer: a classical minimum-degree B-tree supporting
// point search, ordered range scan, and insert-or-update, with
// optional per-operation node-visit accounting.
//
// The tree imposes no bound on the key range; it is the caller's
// responsibility (see package tiered) to restrict keys to whatever
// domain the caller cares about. Payloads are opaque: the tree stores
// and returns them by value and never interprets them. nil is the
// sentinel for "no payload" — present payloads must never be nil.
package ordtree

// Key is the ordered map's key type.
type Key = int64

// Payload is an opaque value stored against a Key. nil is the absent
// sentinel; present payloads are never nil.
type Payload = any

// Stats accumulates node-visit counts across one or more operations.
// A nil *Stats disables accounting.
type Stats struct {
	NodeVisits int64
}

func (s *Stats) visit() {
	if s != nil {
		s.NodeVisits++
	}
}

// node is a single B-tree node. keys and values are kept parallel and
// strictly increasing by key; an internal node has exactly nkeys+1
// children, a leaf has none.
type node struct {
	leaf     bool
	nkeys    int
	keys     []Key
	values   []Payload
	children []*node
}

func newNode(t int, leaf bool) *node {
	return &node{
		leaf:     leaf,
		keys:     make([]Key, 2*t-1),
		values:   make([]Payload, 2*t-1),
		children: make([]*node, 2*t),
	}
}

// Tree is a minimum-degree-t B-tree. The zero value is not usable;
// construct one with New.
type Tree struct {
	root *node
	t    int
}

// New creates an empty tree with minimum degree t. It panics if
// t < 2: the degree drives every split computation in the tree and an
// invalid value is a programmer error, not a recoverable runtime
// condition.
func New(t int) *Tree {
	if t < 2 {
		panic("ordtree: minimum degree must be >= 2")
	}
	return &Tree{root: newNode(t, true), t: t}
}

// Search returns the payload bound to k, or nil if k is not present.
// If stats is non-nil it accumulates one node visit per node examined
// along the root-to-terminal path.
func (tr *Tree) Search(k Key, stats *Stats) Payload {
	n := tr.root
	for {
		stats.visit()
		i := 0
		for i < n.nkeys && k > n.keys[i] {
			i++
		}
		if i < n.nkeys && k == n.keys[i] {
			return n.values[i]
		}
		if n.leaf {
			return nil
		}
		n = n.children[i]
	}
}

// Insert adds (k, v) to the tree, or replaces the payload of an
// existing k with v. It never fails.
func (tr *Tree) Insert(k Key, v Payload) {
	t := tr.t
	r := tr.root
	if r.nkeys == 2*t-1 {
		s := newNode(t, false)
		s.children[0] = r
		tr.root = s
		tr.splitChild(s, 0)
		tr.insertNonFull(s, k, v)
		return
	}
	tr.insertNonFull(r, k, v)
}

// splitChild splits x.children[i], a full node, in place: the median
// key moves up into x at index i, and the upper half of keys/children
// move into a freshly allocated right sibling placed at
// x.children[i+1].
func (tr *Tree) splitChild(x *node, i int) {
	t := tr.t
	y := x.children[i]
	z := newNode(t, y.leaf)
	z.nkeys = t - 1

	copy(z.keys[:t-1], y.keys[t:2*t-1])
	copy(z.values[:t-1], y.values[t:2*t-1])
	if !y.leaf {
		copy(z.children[:t], y.children[t:2*t])
	}
	y.nkeys = t - 1

	copy(x.children[i+2:x.nkeys+2], x.children[i+1:x.nkeys+1])
	x.children[i+1] = z

	copy(x.keys[i+1:x.nkeys+1], x.keys[i:x.nkeys])
	copy(x.values[i+1:x.nkeys+1], x.values[i:x.nkeys])
	x.keys[i] = y.keys[t-1]
	x.values[i] = y.values[t-1]
	x.nkeys++
}

// insertNonFull inserts (k, v) into the subtree rooted at x, which
// must not itself be full. Any full child encountered on the way down
// is split before descending into it, so the recursion never meets an
// overflowing node.
func (tr *Tree) insertNonFull(x *node, k Key, v Payload) {
	if x.leaf {
		i := x.nkeys - 1
		for i >= 0 && k < x.keys[i] {
			i--
		}
		if i >= 0 && x.keys[i] == k {
			x.values[i] = v
			return
		}
		copy(x.keys[i+2:x.nkeys+1], x.keys[i+1:x.nkeys])
		copy(x.values[i+2:x.nkeys+1], x.values[i+1:x.nkeys])
		x.keys[i+1] = k
		x.values[i+1] = v
		x.nkeys++
		return
	}

	i := x.nkeys - 1
	for i >= 0 && k < x.keys[i] {
		i--
	}
	if i >= 0 && x.keys[i] == k {
		x.values[i] = v
		return
	}
	i++
	if x.children[i].nkeys == 2*tr.t-1 {
		tr.splitChild(x, i)
		if k == x.keys[i] {
			x.values[i] = v
			return
		}
		if k > x.keys[i] {
			i++
		}
	}
	tr.insertNonFull(x.children[i], k, v)
}

// RangeSearch invokes emit(k, v) for every (k, v) with lo <= k <= hi,
// in strictly increasing key order. lo > hi emits nothing. If stats is
// non-nil it accumulates one node visit per node entered.
func (tr *Tree) RangeSearch(lo, hi Key, emit func(Key, Payload), stats *Stats) {
	if lo > hi {
		return
	}
	tr.rangeNode(tr.root, lo, hi, emit, stats)
}

func (tr *Tree) rangeNode(n *node, lo, hi Key, emit func(Key, Payload), stats *Stats) {
	stats.visit()

	i := 0
	for ; i < n.nkeys; i++ {
		if !n.leaf && lo <= n.keys[i] {
			tr.rangeNode(n.children[i], lo, hi, emit, stats)
		}
		if n.keys[i] >= lo && n.keys[i] <= hi {
			emit(n.keys[i], n.values[i])
		}
		if n.keys[i] > hi {
			// children[i] was already descended into above (lo <= hi <
			// keys[i] implies lo <= keys[i]); nothing past it is in range.
			return
		}
	}
	if !n.leaf {
		tr.rangeNode(n.children[i], lo, hi, emit, stats)
	}
}

// CountKeys returns the exact number of keys stored in the tree.
func (tr *Tree) CountKeys() int {
	return countNode(tr.root)
}

func countNode(n *node) int {
	if n == nil {
		return 0
	}
	total := n.nkeys
	if !n.leaf {
		for i := 0; i <= n.nkeys; i++ {
			total += countNode(n.children[i])
		}
	}
	return total
}
