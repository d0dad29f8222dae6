package kohonen

import (
	"errors"
	"fmt"
	"io"

	"github.com/vpgrid/ngng/net"
	"github.com/vpgrid/ngng/nn"
	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
)

// errRunRequiresTerminate indicates Run was called without a termination
// predicate configured.
var errRunRequiresTerminate = errors.New("kohonen: Run requires Callbacks.Terminate; use Step directly otherwise")

// nodeData is the payload carried by every net.Node in a Kohonen map. w
// aliases elem.Vec for the same reason gng.nodeData does: a move mutates
// the slice the NN index already points at.
type nodeData struct {
	w     vector.Vector
	elem  *spatial.Element
	id    NodeID
	fixed bool
}

type edgeData struct{}

type somNode = net.Node[nodeData, edgeData]
type somEdge = net.Edge[nodeData, edgeData]

func newSomEdge() *somEdge { return net.NewEdge[nodeData, edgeData](edgeData{}) }

// Kohonen is a fixed-topology self-organising map (spec §4.9): a net
// built once from a Topology, trained by moving a BFS-bounded
// neighbourhood of the winning node toward each sample.
type Kohonen struct {
	cfg   Config
	net   *net.Net[nodeData, edgeData]
	index spatial.Index
	nodes []*somNode

	nodeOf map[*spatial.Element]*somNode
	step   int
}

// New builds a Kohonen map from cfg over topo's fixed node/edge layout.
// Every node in topo becomes exactly one net.Node, indexed by its
// NodeID, and topo.Edges become the net's (permanent) edges.
func New(cfg Config, topo Topology) (*Kohonen, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if topo.N == 0 {
		return nil, ErrTooFewNodes
	}
	index, err := nn.New(cfg.NN)
	if err != nil {
		return nil, err
	}

	k := &Kohonen{
		cfg:    cfg,
		net:    net.New[nodeData, edgeData](),
		index:  index,
		nodes:  make([]*somNode, topo.N),
		nodeOf: make(map[*spatial.Element]*somNode, topo.N),
	}

	for i := 0; i < topo.N; i++ {
		id := NodeID(i)
		w := vector.Clone(topo.Weight(id))
		if len(w) != cfg.Dim {
			return nil, fmt.Errorf("kohonen: node %d: %w", i, errDimensionMismatch(len(w), cfg.Dim))
		}
		elem := spatial.NewElement(w)
		if err := k.index.Add(elem); err != nil {
			return nil, err
		}
		n := net.NewNode[nodeData, edgeData](nodeData{w: elem.Vec, elem: elem, id: id})
		k.net.AddNode(n)
		k.nodes[i] = n
		k.nodeOf[elem] = n
	}
	for _, e := range topo.Edges {
		if err := k.net.AddEdge(newSomEdge(), k.nodes[e[0]], k.nodes[e[1]]); err != nil {
			return nil, err
		}
	}
	return k, nil
}

func errDimensionMismatch(got, want int) error {
	return fmt.Errorf("weight has dimension %d, want %d", got, want)
}

// NodesLen returns the fixed number of nodes.
func (k *Kohonen) NodesLen() int { return k.net.NodesLen() }

// EdgesLen returns the fixed number of edges.
func (k *Kohonen) EdgesLen() int { return k.net.EdgesLen() }

// Steps returns the number of steps executed so far.
func (k *Kohonen) Steps() int { return k.step }

// SetFixed marks a node as fixed (it never moves, in Step or anywhere
// else) or releases it. Returns an error if id is out of range.
func (k *Kohonen) SetFixed(id NodeID, fixed bool) error {
	if int(id) < 0 || int(id) >= len(k.nodes) {
		return fmt.Errorf("kohonen: node id %d out of range [0, %d)", id, len(k.nodes))
	}
	k.nodes[id].Data.fixed = fixed
	return nil
}

// EachNode calls fn once per node with its id, current weight, and fixed
// flag. The weight slice must not be retained or mutated by fn.
func (k *Kohonen) EachNode(fn func(id NodeID, w vector.Vector, fixed bool)) {
	for _, n := range k.nodes {
		fn(n.Data.id, n.Data.w, n.Data.fixed)
	}
}

// Weight returns node id's current weight vector. Must not be mutated by
// the caller.
func (k *Kohonen) Weight(id NodeID) vector.Vector { return k.nodes[id].Data.w }

type bfsItem struct {
	node  *somNode
	depth int
}

// Step draws one sample, finds its 1-nearest winner node, moves the
// winner at full LearnRate, then expands outward over net edges
// breadth-first: each reached node is offered to cfg.Neighbourhood, and
// the BFS only continues through nodes it reports in range, grounded in
// src/kohonen.c's updateWeights/updateWeightsUpdateFifo.
func (k *Kohonen) Step() error {
	s := k.cfg.Sample()
	if len(s) != k.cfg.Dim {
		return errDimensionMismatch(len(s), k.cfg.Dim)
	}

	results := k.index.Nearest(s, 1)
	if len(results) == 0 {
		return errors.New("kohonen: index returned no nearest node")
	}
	winner := k.nodeOf[results[0].Element]

	if err := k.moveNode(winner, s, k.cfg.LearnRate); err != nil {
		return err
	}

	visited := map[*somNode]bool{winner: true}
	var queue []bfsItem
	k.enqueueNeighbours(winner, 1, visited, &queue)

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		inRange, rate := k.cfg.Neighbourhood(winner.Data.id, item.node.Data.id, item.depth)
		if !inRange {
			continue
		}
		if err := k.moveNode(item.node, s, k.cfg.LearnRate*rate); err != nil {
			return err
		}
		k.enqueueNeighbours(item.node, item.depth+1, visited, &queue)
	}

	k.step++
	if k.cfg.CallbackPeriod > 0 && k.cfg.Callbacks.Progress != nil && k.step%k.cfg.CallbackPeriod == 0 {
		k.cfg.Callbacks.Progress(k.step)
	}
	return nil
}

func (k *Kohonen) enqueueNeighbours(n *somNode, depth int, visited map[*somNode]bool, queue *[]bfsItem) {
	n.Edges(func(e *somEdge) {
		o := e.OtherEndpoint(n)
		if !visited[o] {
			visited[o] = true
			*queue = append(*queue, bfsItem{node: o, depth: depth})
		}
	})
}

func (k *Kohonen) moveNode(n *somNode, s vector.Vector, rate float64) error {
	if n.Data.fixed {
		return nil
	}
	w := n.Data.w
	for i := range w {
		w[i] += rate * (s[i] - w[i])
	}
	return k.index.Update(n.Data.elem)
}

// Run steps until Callbacks.Terminate returns true. Callbacks.Terminate
// must be set.
func (k *Kohonen) Run() error {
	if k.cfg.Callbacks.Terminate == nil {
		return errRunRequiresTerminate
	}
	for !k.cfg.Callbacks.Terminate() {
		if err := k.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes a plain listing of every node's id/weight/fixed flag and
// every edge's endpoints.
func (k *Kohonen) Dump(w io.Writer) error {
	var err error
	for _, n := range k.nodes {
		if err == nil {
			_, err = fmt.Fprintf(w, "node %d: w=%v fixed=%t\n", n.Data.id, n.Data.w, n.Data.fixed)
		}
	}
	if err != nil {
		return err
	}
	k.net.Edges(func(e *somEdge) {
		if err == nil {
			_, err = fmt.Fprintf(w, "edge %d-%d\n", e.Endpoints[0].Data.id, e.Endpoints[1].Data.id)
		}
	})
	return err
}
