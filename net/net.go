// Package net implements the incremental graph substrate — an intrusive
// doubly-linked node/edge graph — that every network-growing algorithm in
// this module (GNG, GNG-T, Kohonen) builds on.
//
// Net is generic over a caller-supplied node payload ND and edge payload
// ED: Node[ND, ED] and Edge[ND, ED] embed dlist.Hook values rather than
// raw pointers recovered by offset, so GNG's weight/error fields (or
// Kohonen's fixed-node flag) travel with the node instead of being
// recovered via container_of. AddNode/RemoveNode/AddEdge/RemoveEdge are
// O(1); EdgeBetween scans the smaller of the two incident lists; TriCheck
// is a pure O(1) check over three edges already in hand.
//
// Net holds no lock: per the module's concurrency policy, every index and
// net has a single writer, and concurrent access must be externalised by
// the caller.
package net

import (
	"errors"
	"fmt"
	"io"

	"github.com/vpgrid/ngng/dlist"
)

// Sentinel errors for Net operations.
var (
	// ErrConnectedNode indicates RemoveNode was called on a node that
	// still has incident edges; the only expected failure in this package.
	ErrConnectedNode = errors.New("net: node still has incident edges")

	// ErrNilNode indicates AddEdge was given a nil endpoint.
	ErrNilNode = errors.New("net: nil node")

	// ErrSelfLoop indicates AddEdge was asked to connect a node to itself.
	ErrSelfLoop = errors.New("net: self-loop not allowed")
)

// Node holds a caller payload plus the bookkeeping Net needs: a hook into
// the net's node list and the list of edges incident to it. edges_count
// invariant: len(incident) always equals incident.Len(), enforced simply by
// never tracking it separately.
type Node[ND, ED any] struct {
	Data ND

	hook     dlist.Hook[Node[ND, ED]]
	incident dlist.List[Edge[ND, ED]]
}

// NewNode allocates a Node carrying data, ready to be added to a Net.
func NewNode[ND, ED any](data ND) *Node[ND, ED] {
	n := &Node[ND, ED]{Data: data}
	n.hook.Init(n)
	n.incident.Init()
	return n
}

// EdgesLen returns the number of edges incident to n.
func (n *Node[ND, ED]) EdgesLen() int { return n.incident.Len() }

// Edges calls fn once per incident edge.
func (n *Node[ND, ED]) Edges(fn func(e *Edge[ND, ED])) { n.incident.Do(fn) }

// EdgesSafe calls fn once per incident edge, tolerating fn removing the
// edge it was just called with.
func (n *Node[ND, ED]) EdgesSafe(fn func(e *Edge[ND, ED])) { n.incident.DoSafe(fn) }

// HasEdge reports whether e is incident to n.
func (n *Node[ND, ED]) HasEdge(e *Edge[ND, ED]) bool {
	found := false
	n.incident.Do(func(x *Edge[ND, ED]) {
		if x == e {
			found = true
		}
	})
	return found
}

// Edge connects two distinct, non-nil Nodes. Endpoints[0]/[1] are fixed at
// AddEdge time; nodeHook[i] sits in Endpoints[i]'s incident list, tagged i,
// which is the only place this package still needs a tag to recover which
// endpoint slot a hook belongs to.
type Edge[ND, ED any] struct {
	Data ED

	Endpoints [2]*Node[ND, ED]
	nodeHook  [2]dlist.Hook[Edge[ND, ED]]
	netHook   dlist.Hook[Edge[ND, ED]]
}

// NewEdge allocates an Edge carrying data, ready to be added to a Net via
// AddEdge.
func NewEdge[ND, ED any](data ED) *Edge[ND, ED] {
	e := &Edge[ND, ED]{Data: data}
	e.nodeHook[0].Init(e)
	e.nodeHook[1].Init(e)
	e.netHook.Init(e)
	return e
}

// HasNode reports whether n is one of e's endpoints.
func (e *Edge[ND, ED]) HasNode(n *Node[ND, ED]) bool {
	return e.Endpoints[0] == n || e.Endpoints[1] == n
}

// OtherEndpoint returns the endpoint of e that is not n. Behaviour is
// undefined if n is not an endpoint of e.
func (e *Edge[ND, ED]) OtherEndpoint(n *Node[ND, ED]) *Node[ND, ED] {
	if e.Endpoints[0] == n {
		return e.Endpoints[1]
	}
	return e.Endpoints[0]
}

// Net is a graph of Nodes and undirected Edges with O(1) incidence
// maintenance. The zero value is not ready for use; call New.
type Net[ND, ED any] struct {
	nodes dlist.List[Node[ND, ED]]
	edges dlist.List[Edge[ND, ED]]
}

// New returns an empty Net.
func New[ND, ED any]() *Net[ND, ED] {
	g := &Net[ND, ED]{}
	g.nodes.Init()
	g.edges.Init()
	return g
}

// NodesLen returns the number of nodes in g.
func (g *Net[ND, ED]) NodesLen() int { return g.nodes.Len() }

// EdgesLen returns the number of edges in g.
func (g *Net[ND, ED]) EdgesLen() int { return g.edges.Len() }

// Nodes calls fn once per node, in insertion order.
func (g *Net[ND, ED]) Nodes(fn func(n *Node[ND, ED])) { g.nodes.Do(fn) }

// NodesSafe calls fn once per node, tolerating fn removing the node it was
// just called with.
func (g *Net[ND, ED]) NodesSafe(fn func(n *Node[ND, ED])) { g.nodes.DoSafe(fn) }

// Edges calls fn once per edge, in insertion order.
func (g *Net[ND, ED]) Edges(fn func(e *Edge[ND, ED])) { g.edges.Do(fn) }

// EdgesSafe calls fn once per edge, tolerating fn removing the edge it was
// just called with.
func (g *Net[ND, ED]) EdgesSafe(fn func(e *Edge[ND, ED])) { g.edges.DoSafe(fn) }

// AddNode appends n to the node list. O(1).
func (g *Net[ND, ED]) AddNode(n *Node[ND, ED]) {
	g.nodes.PushBack(&n.hook)
}

// RemoveNode detaches n from the node list. Fails with ErrConnectedNode,
// leaving g unchanged, if n still has incident edges.
func (g *Net[ND, ED]) RemoveNode(n *Node[ND, ED]) error {
	if n.incident.Len() > 0 {
		return ErrConnectedNode
	}
	n.hook.Detach()
	return nil
}

// AddEdge connects a and b with e: sets e's endpoints, appends e to the
// net's edge list and to each endpoint's incident list (tagged 0 and 1
// respectively). O(1).
func (g *Net[ND, ED]) AddEdge(e *Edge[ND, ED], a, b *Node[ND, ED]) error {
	if a == nil || b == nil {
		return ErrNilNode
	}
	if a == b {
		return ErrSelfLoop
	}
	e.Endpoints[0] = a
	e.Endpoints[1] = b
	g.edges.PushBack(&e.netHook)
	a.incident.PushBackTagged(&e.nodeHook[0], 0)
	b.incident.PushBackTagged(&e.nodeHook[1], 1)
	return nil
}

// RemoveEdge detaches e from the net's edge list and from both endpoints'
// incident lists. O(1).
func (g *Net[ND, ED]) RemoveEdge(e *Edge[ND, ED]) {
	e.nodeHook[0].Detach()
	e.nodeHook[1].Detach()
	e.netHook.Detach()
	e.Endpoints[0] = nil
	e.Endpoints[1] = nil
}

// EdgeBetween returns the first edge connecting a and b, scanning whichever
// endpoint has the smaller incident list, or nil if none exists. Two
// distinct parallel edges between the same pair are permitted at this
// layer (spec: clients treat them as absent); EdgeBetween returns the
// first one found.
func (g *Net[ND, ED]) EdgeBetween(a, b *Node[ND, ED]) *Edge[ND, ED] {
	from, to := a, b
	if b.incident.Len() < a.incident.Len() {
		from, to = b, a
	}
	var found *Edge[ND, ED]
	from.incident.Do(func(e *Edge[ND, ED]) {
		if found != nil {
			return
		}
		if e.OtherEndpoint(from) == to {
			found = e
		}
	})
	return found
}

// TriCheck reports whether e1, e2, e3 form a triangle: each pair must share
// exactly one common vertex, and the three shared vertices must be
// pairwise distinct.
func TriCheck[ND, ED any](e1, e2, e3 *Edge[ND, ED]) bool {
	v12 := commonVertex(e1, e2)
	v13 := commonVertex(e1, e3)
	v23 := commonVertex(e2, e3)
	if v12 == nil || v13 == nil || v23 == nil {
		return false
	}
	return v12 != v13 && v12 != v23 && v13 != v23
}

func commonVertex[ND, ED any](e1, e2 *Edge[ND, ED]) *Node[ND, ED] {
	a0, a1 := e1.Endpoints[0], e1.Endpoints[1]
	matches := func(x *Node[ND, ED]) bool {
		return x == e2.Endpoints[0] || x == e2.Endpoints[1]
	}
	switch {
	case matches(a0) && !matches(a1):
		return a0
	case matches(a1) && !matches(a0):
		return a1
	default:
		return nil
	}
}

// Destroy visits every node and edge in g exactly once — edges first, then
// nodes — invoking the corresponding callback before detaching each from
// its list bookkeeping. Either callback may be nil.
func (g *Net[ND, ED]) Destroy(onNode func(*Node[ND, ED]), onEdge func(*Edge[ND, ED])) {
	g.edges.DoSafe(func(e *Edge[ND, ED]) {
		if onEdge != nil {
			onEdge(e)
		}
		e.nodeHook[0].Detach()
		e.nodeHook[1].Detach()
		e.netHook.Detach()
	})
	g.nodes.DoSafe(func(n *Node[ND, ED]) {
		if onNode != nil {
			onNode(n)
		}
		n.hook.Detach()
	})
}

// Dump writes a human-readable listing of g's nodes and edges to w, for
// debugging only; the exact syntax is not part of the contract.
func (g *Net[ND, ED]) Dump(w io.Writer) error {
	index := make(map[*Node[ND, ED]]int, g.nodes.Len())
	i := 0
	var err error
	g.nodes.Do(func(n *Node[ND, ED]) {
		index[n] = i
		i++
		if err == nil {
			_, err = fmt.Fprintf(w, "node %d: %v\n", index[n], n.Data)
		}
	})
	if err != nil {
		return err
	}
	g.edges.Do(func(e *Edge[ND, ED]) {
		if err == nil {
			_, err = fmt.Fprintf(w, "edge %d-%d: %v\n", index[e.Endpoints[0]], index[e.Endpoints[1]], e.Data)
		}
	})
	return err
}
