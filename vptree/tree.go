package vptree

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/telemetry"
	"github.com/vpgrid/ngng/vector"
)

// ErrInvalidDim indicates New/Build was asked for a non-positive dimension.
var ErrInvalidDim = errors.New("vptree: dim must be positive")

// Tree is a Vantage-Point Tree over a fixed dimension.
type Tree struct {
	cfg   Config
	root  *node
	count int

	log      zerolog.Logger
	warnOnce telemetry.Once
}

var _ spatial.Index = (*Tree)(nil)

// New returns an empty Tree, ready for incremental Add.
func New(dim int, opts ...Option) (*Tree, error) {
	if dim <= 0 {
		return nil, ErrInvalidDim
	}
	cfg := defaultConfig(dim)
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tree{cfg: cfg, log: telemetry.Logger("vptree")}, nil
}

// Build constructs a Tree from elements in one batch build, which produces
// a more balanced tree than adding the same elements one at a time.
func Build(dim int, elements []*spatial.Element, opts ...Option) (*Tree, error) {
	t, err := New(dim, opts...)
	if err != nil {
		return nil, err
	}
	for _, e := range elements {
		if e.Registered() {
			return nil, spatial.ErrAlreadyRegistered
		}
		if len(e.Vec) != dim {
			return nil, spatial.ErrDimensionMismatch
		}
	}
	if len(elements) > 0 {
		t.root = buildNode(t.cfg, elements)
		t.count = len(elements)
	}
	return t, nil
}

// Dim returns the configured dimension.
func (t *Tree) Dim() int { return t.cfg.Dim }

// Len returns the number of registered elements.
func (t *Tree) Len() int { return t.count }

// Add registers e, descending from the root to a leaf and splitting that
// leaf in place (by replacing it with a freshly built subtree) if it
// overflows MaxSize.
func (t *Tree) Add(e *spatial.Element) error {
	if e.Registered() {
		return spatial.ErrAlreadyRegistered
	}
	if len(e.Vec) != t.cfg.Dim {
		return spatial.ErrDimensionMismatch
	}
	if t.root == nil {
		t.root = newLeaf()
	}

	parent, side, leaf := t.descendToLeaf(e.Vec)
	leaf.bucket.PushBack(e.Hook())
	leaf.size++
	e.SetState(&elState{leaf: leaf})
	t.count++

	if leaf.size > t.cfg.MaxSize {
		replacement := t.splitLeaf(leaf)
		if replacement.vp == nil && replacement.size == leaf.size {
			t.warnOnce.Warn(t.log, "degenerate-split", "vantage-point split degenerate, kept as oversized leaf")
		}
		switch {
		case parent == nil:
			t.root = replacement
		case side == 0:
			parent.left = replacement
		default:
			parent.right = replacement
		}
	}
	return nil
}

// descendToLeaf walks from the root to the leaf that would hold v,
// returning the leaf's parent and which side it hangs from (0=left,
// 1=right), or parent=nil if the leaf is the root.
func (t *Tree) descendToLeaf(v vector.Vector) (parent *node, side int, leaf *node) {
	n := t.root
	side = -1
	for n.vp != nil {
		d := t.cfg.DistanceFunc(n.vp, v)
		parent = n
		if d <= n.mean {
			side = 0
			n = n.left
		} else {
			side = 1
			n = n.right
		}
	}
	return parent, side, n
}

// splitLeaf rebuilds leaf's contents into a fresh subtree (a single leaf
// again, if the split turns out degenerate).
func (t *Tree) splitLeaf(leaf *node) *node {
	var els []*spatial.Element
	leaf.bucket.DoSafe(func(e *spatial.Element) {
		els = append(els, e)
	})
	return buildNode(t.cfg, els)
}

// Remove unregisters e from whichever leaf currently holds it. Empty
// leaves remain attached; the spec does not require tree contraction.
func (t *Tree) Remove(e *spatial.Element) error {
	st, ok := e.State().(*elState)
	if !ok {
		return spatial.ErrNotRegistered
	}
	e.Hook().Detach()
	st.leaf.size--
	e.SetState(nil)
	t.count--
	return nil
}

// Update is a no-op: per the metric-partition invariant, an element's leaf
// assignment depends on its position at insertion time, and the tree never
// relocates elements on coordinate change. Callers that move points should
// Remove then Add.
func (t *Tree) Update(e *spatial.Element) error {
	if _, ok := e.State().(*elState); !ok {
		return spatial.ErrNotRegistered
	}
	return nil
}

// Nearest returns up to k elements nearest q, using the vantage-point
// pruning lemma: the far side of a split is visited only if the query ball
// of radius τ (the current k-th best distance) crosses the split sphere.
func (t *Tree) Nearest(q vector.Vector, k int) []spatial.Result {
	if k <= 0 || t.root == nil {
		return nil
	}
	kbest := spatial.NewKBest(k)
	t.query(t.root, q, kbest)
	return kbest.Results()
}

func (t *Tree) query(n *node, q vector.Vector, kbest *spatial.KBest) {
	if n.vp == nil {
		n.bucket.Do(func(e *spatial.Element) {
			kbest.Add(e, t.cfg.DistanceFunc(q, e.Vec))
		})
		return
	}
	dq := t.cfg.DistanceFunc(q, n.vp)
	first, second := n.left, n.right
	if dq > n.mean {
		first, second = n.right, n.left
	}
	t.query(first, q, kbest)
	if math.Abs(dq-n.mean) < kbest.WorstDist() {
		t.query(second, q, kbest)
	}
}

// Dump writes a human-readable, indented listing of the tree's internal
// and leaf nodes.
func (t *Tree) Dump(w io.Writer) error {
	return dumpNode(w, t.root, 0)
}

func dumpNode(w io.Writer, n *node, depth int) error {
	if n == nil {
		return nil
	}
	indent := strings.Repeat("  ", depth)
	if n.vp == nil {
		if _, err := fmt.Fprintf(w, "%sleaf(%d):", indent, n.size); err != nil {
			return err
		}
		var err error
		n.bucket.Do(func(e *spatial.Element) {
			if err == nil {
				_, err = fmt.Fprintf(w, " %v", e.Vec)
			}
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w)
		return err
	}
	if _, err := fmt.Fprintf(w, "%svp=%v mean=%v\n", indent, n.vp, n.mean); err != nil {
		return err
	}
	if err := dumpNode(w, n.left, depth+1); err != nil {
		return err
	}
	return dumpNode(w, n.right, depth+1)
}
