package vptree

import (
	"github.com/vpgrid/ngng/dlist"
	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
)

// node is either a leaf (vp == nil) holding up to maxsize elements in
// bucket, or an internal node holding a vantage point, a split radius
// mean, and two non-nil children.
type node struct {
	vp    vector.Vector
	mean  float64
	left  *node
	right *node

	bucket dlist.List[spatial.Element]
	size   int
}

func newLeaf() *node {
	n := &node{}
	n.bucket.Init()
	return n
}

// elState is the per-element bookkeeping a Tree installs via
// spatial.Element.SetState: which leaf currently holds it.
type elState struct {
	leaf *node
}

// appendLeafEls registers every element in els with leaf n, in order.
func appendLeafEls(n *node, els []*spatial.Element) {
	for _, e := range els {
		n.bucket.PushBack(e.Hook())
		e.SetState(&elState{leaf: n})
	}
	n.size = len(els)
}
