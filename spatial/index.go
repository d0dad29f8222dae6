package spatial

import (
	"errors"
	"io"
	"math"
	"sort"

	"github.com/vpgrid/ngng/vector"
)

// Sentinel errors shared by every backend.
var (
	// ErrNotRegistered indicates Remove/Update was called with an element
	// that is not currently registered with any index.
	ErrNotRegistered = errors.New("spatial: element not registered with this index")

	// ErrAlreadyRegistered indicates Add was called with an element that
	// already belongs to an index (this one or another).
	ErrAlreadyRegistered = errors.New("spatial: element already registered")

	// ErrDimensionMismatch indicates a vector's length does not match the
	// index's configured dimension.
	ErrDimensionMismatch = errors.New("spatial: vector dimension mismatch")
)

// Result is one hit returned by a kNN query.
type Result struct {
	Element *Element
	Dist    float64
}

// Index is the contract every nearest-neighbour backend (gug, vptree,
// linear) implements, and the contract the nn facade forwards to.
type Index interface {
	// Dim returns the fixed dimension this index was configured for.
	Dim() int
	// Len returns the number of registered elements.
	Len() int
	// Add registers e with this index. Returns ErrAlreadyRegistered if e
	// already belongs to an index.
	Add(e *Element) error
	// Remove unregisters e. Returns ErrNotRegistered if e is not
	// registered; backends check only e's registration state, not that e
	// belongs to this particular index instance.
	Remove(e *Element) error
	// Update notifies the index that e.Vec's coordinates may have changed.
	// Returns ErrNotRegistered if e is not registered; as with Remove,
	// membership in this particular instance is not checked.
	Update(e *Element) error
	// Nearest returns up to k elements nearest to q, sorted by
	// non-decreasing distance. On an empty index it returns no results
	// (not an error); if k exceeds Len(), it returns every element.
	Nearest(q vector.Vector, k int) []Result
	// Dump writes a human-readable, debugging-only listing of the index's
	// internal structure to w.
	Dump(w io.Writer) error
}

// KBest accumulates up to k nearest hits in non-decreasing distance order,
// using the simple bubble-insert policy the spec calls for: k is small in
// every caller of this module (GNG/Kohonen queries ask for 1 or 2
// neighbours; demos ask for at most a handful), so a sorted insert beats
// the bookkeeping of a heap.
type KBest struct {
	k     int
	items []Result
}

// NewKBest returns a buffer that keeps the k nearest elements seen by Add.
func NewKBest(k int) *KBest {
	return &KBest{k: k}
}

// Len returns the number of elements currently held (≤ k).
func (kb *KBest) Len() int { return len(kb.items) }

// Full reports whether the buffer already holds k elements.
func (kb *KBest) Full() bool { return len(kb.items) >= kb.k }

// WorstDist returns the current k-th best distance, or +Inf if fewer than
// k elements have been seen. GUG's shell pruning and VPTree's priority
// bound both use this as their τ.
func (kb *KBest) WorstDist() float64 {
	if len(kb.items) < kb.k {
		return math.Inf(1)
	}
	return kb.items[len(kb.items)-1].Dist
}

// Add offers a candidate. If the buffer is not yet full, or d improves on
// the current worst, the candidate is inserted in sorted position and the
// buffer is truncated back to k.
func (kb *KBest) Add(e *Element, d float64) {
	if kb.k <= 0 {
		return
	}
	if len(kb.items) >= kb.k && d >= kb.WorstDist() {
		return
	}
	i := sort.Search(len(kb.items), func(i int) bool { return kb.items[i].Dist > d })
	kb.items = append(kb.items, Result{})
	copy(kb.items[i+1:], kb.items[i:])
	kb.items[i] = Result{Element: e, Dist: d}
	if len(kb.items) > kb.k {
		kb.items = kb.items[:kb.k]
	}
}

// Results returns the accumulated hits in non-decreasing distance order.
func (kb *KBest) Results() []Result {
	out := make([]Result, len(kb.items))
	copy(out, kb.items)
	return out
}
