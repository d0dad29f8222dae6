package gng

import (
	"fmt"
	"io"
	"math"

	"github.com/vpgrid/ngng/net"
	"github.com/vpgrid/ngng/ngngerrors"
	"github.com/vpgrid/ngng/nn"
	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
)

// nodeData is the payload carried by every net.Node in a GNG. w aliases
// elem.Vec: moving a node mutates the same slice the NN index sees, so a
// single index.Update(elem) call after a move keeps both in sync, exactly
// as gannGNGLearn's moveTowards/index-reinsert pairing does in the
// reference implementation.
type nodeData struct {
	w    vector.Vector
	err  float64
	elem *spatial.Element
}

// edgeData is the payload carried by every net.Edge in a GNG: its age in
// steps since it was last created or refreshed.
type edgeData struct {
	age int
}

type gngNode = net.Node[nodeData, edgeData]
type gngEdge = net.Edge[nodeData, edgeData]

// GNG is a streaming topology-learning state machine (spec §4.7): a net
// of weighted nodes joined by aged edges, kept queryable through a
// spatial.Index built by nn.New as the net grows and prunes itself one sample at a time.
type GNG struct {
	cfg   Config
	net   *net.Net[nodeData, edgeData]
	index spatial.Index
	step  int

	nodeOf map[*spatial.Element]*gngNode
}

// New builds a GNG from cfg, seeding it with two nodes per spec §4.7
// Initialization: either cfg.Callbacks.Init's pair, or two draws from
// cfg.Sample.
func New(cfg Config) (*GNG, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	index, err := indexFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	g := &GNG{
		cfg:    cfg,
		net:    net.New[nodeData, edgeData](),
		index:  index,
		nodeOf: make(map[*spatial.Element]*gngNode),
	}

	var w1, w2 vector.Vector
	var ok bool
	if cfg.Callbacks.Init != nil {
		w1, w2, ok = cfg.Callbacks.Init()
	}
	if !ok {
		w1, w2 = cfg.Sample(), cfg.Sample()
	}
	if _, err := g.addNode(w1); err != nil {
		return nil, err
	}
	if _, err := g.addNode(w2); err != nil {
		return nil, err
	}
	return g, nil
}

func indexFromConfig(cfg Config) (spatial.Index, error) {
	return nn.New(cfg.NN)
}

// NodesLen returns the current number of nodes.
func (g *GNG) NodesLen() int { return g.net.NodesLen() }

// EdgesLen returns the current number of edges.
func (g *GNG) EdgesLen() int { return g.net.EdgesLen() }

// Steps returns the number of steps executed so far.
func (g *GNG) Steps() int { return g.step }

// EachNode calls fn once per node, with its current weight vector and
// error accumulator. The weight slice must not be retained or mutated by
// fn.
func (g *GNG) EachNode(fn func(w vector.Vector, errAcc float64)) {
	g.net.Nodes(func(n *gngNode) { fn(n.Data.w, n.Data.err) })
}

// EachEdge calls fn once per edge, with its current age.
func (g *GNG) EachEdge(fn func(age int)) {
	g.net.Edges(func(e *gngEdge) { fn(e.Data.age) })
}

// IsolatedNodes returns the number of nodes with no incident edges. Spec
// §4.7's per-step contract requires this to be 0 at the end of every
// Step call.
func (g *GNG) IsolatedNodes() int {
	n := 0
	g.net.Nodes(func(node *gngNode) {
		if node.EdgesLen() == 0 {
			n++
		}
	})
	return n
}

func (g *GNG) addNode(w vector.Vector) (*gngNode, error) {
	if len(w) != g.cfg.Dim {
		return nil, ngngerrors.ErrDimensionMismatch
	}
	elem := spatial.NewElement(vector.Clone(w))
	if err := g.index.Add(elem); err != nil {
		return nil, err
	}
	n := net.NewNode[nodeData, edgeData](nodeData{w: elem.Vec, elem: elem})
	g.net.AddNode(n)
	g.nodeOf[elem] = n
	return n, nil
}

// removeNode deletes n from both net and index. n must already be
// isolated (per spec §4.7's contract, only isolated nodes are ever
// removed).
func (g *GNG) removeNode(n *gngNode) error {
	if err := g.index.Remove(n.Data.elem); err != nil {
		return err
	}
	delete(g.nodeOf, n.Data.elem)
	return g.net.RemoveNode(n)
}

func (g *GNG) moveTowards(n *gngNode, s vector.Vector, frac float64) error {
	w := n.Data.w
	for i := range w {
		w[i] += frac * (s[i] - w[i])
	}
	return g.index.Update(n.Data.elem)
}

func (g *GNG) nearestTwo(s vector.Vector) (n1, n2 *gngNode) {
	results := g.index.Nearest(s, 2)
	n1 = g.nodeOf[results[0].Element]
	n2 = g.nodeOf[results[1].Element]
	return n1, n2
}

// Step draws one sample and applies spec §4.7's per-step algorithm:
// nearest-two query, Hebbian edge refresh, winner error accumulation,
// winner/neighbour move, edge ageing and pruning, isolated-node cleanup,
// the periodic insert-node epoch, and the global error decay.
func (g *GNG) Step() error {
	if g.net.NodesLen() < 2 {
		return ngngerrors.ErrUnderflow
	}
	s := g.cfg.Sample()
	if len(s) != g.cfg.Dim {
		return ngngerrors.ErrDimensionMismatch
	}

	n1, n2 := g.nearestTwo(s)
	if err := g.connect(n1, n2); err != nil {
		return err
	}

	d := g.cfg.DistanceFunc(s, n1.Data.w)
	n1.Data.err += d * d

	if err := g.moveTowards(n1, s, g.cfg.Eb); err != nil {
		return err
	}

	if err := g.adaptNeighbours(n1, s); err != nil {
		return err
	}
	if n1.EdgesLen() == 0 {
		if err := g.removeNode(n1); err != nil {
			return err
		}
	}

	g.step++
	if g.step%g.cfg.Lambda == 0 {
		if err := g.insertNode(); err != nil {
			return err
		}
	}
	g.net.Nodes(func(n *gngNode) { n.Data.err *= g.cfg.Beta })

	if g.cfg.CallbackPeriod > 0 && g.cfg.Callbacks.Progress != nil && g.step%g.cfg.CallbackPeriod == 0 {
		g.cfg.Callbacks.Progress(g.step)
	}
	return nil
}

// connect implements spec §4.7 step 3: the canonical GNG policy resets
// the n1-n2 edge's age to 0 whether it already existed or was just
// created, per the entry point this module is grounded on
// (src/gng2.c's nearest/edge-connect path, not src/gng-eu.c's
// reset-on-creation-only alternative).
func (g *GNG) connect(n1, n2 *gngNode) error {
	if e := g.net.EdgeBetween(n1, n2); e != nil {
		e.Data.age = 0
		return nil
	}
	e := net.NewEdge[nodeData, edgeData](edgeData{age: 0})
	return g.net.AddEdge(e, n1, n2)
}

// adaptNeighbours implements spec §4.7 step 6: move every neighbour of n1
// toward s, age the connecting edge, prune edges past AgeMax, and delete
// any neighbour left isolated by that pruning.
func (g *GNG) adaptNeighbours(n1 *gngNode, s vector.Vector) error {
	var isolated []*gngNode
	var moveErr error
	n1.EdgesSafe(func(e *gngEdge) {
		if moveErr != nil {
			return
		}
		m := e.OtherEndpoint(n1)
		if err := g.moveTowards(m, s, g.cfg.En); err != nil {
			moveErr = err
			return
		}
		e.Data.age++
		if e.Data.age > g.cfg.AgeMax {
			g.net.RemoveEdge(e)
			if m.EdgesLen() == 0 {
				isolated = append(isolated, m)
			}
		}
	})
	if moveErr != nil {
		return moveErr
	}
	for _, m := range isolated {
		if err := g.removeNode(m); err != nil {
			return err
		}
	}
	return nil
}

// insertNode implements spec §4.7's insert-node epoch: split the highest-
// error node and its highest-error neighbour with a midpoint node.
func (g *GNG) insertNode() error {
	q := g.highestErrorNode()
	if q == nil {
		return nil
	}
	f, qf := g.highestErrorNeighbour(q)
	if f == nil {
		return nil
	}

	rw := make(vector.Vector, g.cfg.Dim)
	for i := range rw {
		rw[i] = 0.5 * (q.Data.w[i] + f.Data.w[i])
	}
	r, err := g.addNode(rw)
	if err != nil {
		return err
	}

	g.net.RemoveEdge(qf)
	if err := g.net.AddEdge(net.NewEdge[nodeData, edgeData](edgeData{}), q, r); err != nil {
		return err
	}
	if err := g.net.AddEdge(net.NewEdge[nodeData, edgeData](edgeData{}), f, r); err != nil {
		return err
	}

	q.Data.err *= g.cfg.Alpha
	f.Data.err *= g.cfg.Alpha
	// r takes q's error after q's own Alpha scaling (the source's
	// self-averaging of q's error reduces to this plain assignment).
	r.Data.err = q.Data.err
	return nil
}

func (g *GNG) highestErrorNode() *gngNode {
	var best *gngNode
	bestErr := math.Inf(-1)
	g.net.Nodes(func(n *gngNode) {
		if n.Data.err > bestErr {
			bestErr = n.Data.err
			best = n
		}
	})
	return best
}

func (g *GNG) highestErrorNeighbour(q *gngNode) (*gngNode, *gngEdge) {
	var best *gngNode
	var bestEdge *gngEdge
	bestErr := math.Inf(-1)
	q.Edges(func(e *gngEdge) {
		m := e.OtherEndpoint(q)
		if m.Data.err > bestErr {
			bestErr = m.Data.err
			best = m
			bestEdge = e
		}
	})
	return best, bestEdge
}

// Run steps until Callbacks.Terminate returns true. Callbacks.Terminate
// must be set.
func (g *GNG) Run() error {
	if g.cfg.Callbacks.Terminate == nil {
		return fmt.Errorf("gng: Run requires Callbacks.Terminate; use Step directly otherwise")
	}
	for !g.cfg.Callbacks.Terminate() {
		if err := g.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes a plain listing of every node's weight/error and every
// edge's endpoints/age.
func (g *GNG) Dump(w io.Writer) error {
	index := make(map[*gngNode]int, g.net.NodesLen())
	i := 0
	var err error
	g.net.Nodes(func(n *gngNode) {
		index[n] = i
		if err == nil {
			_, err = fmt.Fprintf(w, "node %d: w=%v err=%.6g\n", i, n.Data.w, n.Data.err)
		}
		i++
	})
	if err != nil {
		return err
	}
	g.net.Edges(func(e *gngEdge) {
		if err == nil {
			_, err = fmt.Fprintf(w, "edge %d-%d: age=%d\n", index[e.Endpoints[0]], index[e.Endpoints[1]], e.Data.age)
		}
	})
	return err
}
