package gng

import (
	"errors"
	"math"

	"github.com/vpgrid/ngng/net"
	"github.com/vpgrid/ngng/ngngerrors"
	"github.com/vpgrid/ngng/nn"
	"github.com/vpgrid/ngng/vector"
)

// errTargetRequiresTerminate indicates Run was called without a
// termination predicate configured.
var errTargetRequiresTerminate = errors.New("gng: Run requires Callbacks.Terminate; use Epoch directly otherwise")

func newGngEdge() *gngEdge { return net.NewEdge[nodeData, edgeData](edgeData{}) }

// TargetConfig tunes a TargetRunner. Unlike the base GNG, GNG-T has no
// Alpha/Beta: there is no global decay step and no scaled error on
// insertion, matching ferGNGTParamsInit's compiled-in defaults, which
// carry no alpha/beta fields at all.
type TargetConfig struct {
	Dim int

	// Lambda is the epoch length: the number of inner Adapt steps run
	// before each GrowShrink decision.
	Lambda int
	// Eb is the winner's learning rate.
	Eb float64
	// En is a winner-neighbour's learning rate.
	En float64
	// AgeMax is the oldest an edge may get before it is pruned.
	AgeMax int
	// Target is the desired average per-node error; GrowShrink grows the
	// network while the average sits above Target and shrinks it while
	// average sits at or below Target.
	Target float64

	DistanceFunc vector.DistanceFunc

	// CallbackPeriod is how often, in epochs, Callbacks.Progress fires; 0
	// means never.
	CallbackPeriod int
	Sample         SampleSource
	Callbacks      Callbacks
	NN             nn.Config
}

// DefaultTargetConfig returns a TargetConfig for the given dimension with
// ferGNGTParamsInit's defaults: Lambda=200, Eb=0.05, En=0.0006,
// AgeMax=200, Target=100.
func DefaultTargetConfig(dim int) TargetConfig {
	return TargetConfig{
		Dim:    dim,
		Lambda: 200,
		Eb:     0.05,
		En:     0.0006,
		AgeMax: 200,
		Target: 100,
	}
}

// TargetOption mutates a TargetConfig under construction.
type TargetOption func(*TargetConfig)

// WithTargetSample sets the input signal source.
func WithTargetSample(s SampleSource) TargetOption {
	return func(c *TargetConfig) { c.Sample = s }
}

// WithTargetCallbacks sets the termination/progress/init hooks.
func WithTargetCallbacks(cb Callbacks) TargetOption {
	return func(c *TargetConfig) { c.Callbacks = cb }
}

// WithTargetNN selects and configures the nearest-neighbour backend.
func WithTargetNN(nc nn.Config) TargetOption {
	return func(c *TargetConfig) { c.NN = nc }
}

// TargetRunner is the GNG-T variant (spec §4.8): the same substrate as
// GNG, but nodes are inserted or deleted once per epoch (every Lambda
// samples) by comparing the network's average error against a target,
// rather than always growing at a fixed node with the highest error.
type TargetRunner struct {
	g      *GNG
	target float64
	step   int
}

// NewTargetRunner builds a TargetRunner from cfg, seeding it exactly as
// GNG.New does.
func NewTargetRunner(cfg TargetConfig) (*TargetRunner, error) {
	gcfg := Config{
		Dim:            cfg.Dim,
		Lambda:         cfg.Lambda,
		Eb:             cfg.Eb,
		En:             cfg.En,
		Alpha:          1, // unused by GNG-T's own grow/shrink rule
		Beta:           1, // GNG-T has no global decay
		AgeMax:         cfg.AgeMax,
		CallbackPeriod: cfg.CallbackPeriod,
		Sample:         cfg.Sample,
		Callbacks:      cfg.Callbacks,
		NN:             cfg.NN,
	}
	if cfg.DistanceFunc != nil {
		gcfg.DistanceFunc = cfg.DistanceFunc
	}
	g, err := New(gcfg)
	if err != nil {
		return nil, err
	}
	return &TargetRunner{g: g, target: cfg.Target}, nil
}

// NodesLen returns the current number of nodes.
func (t *TargetRunner) NodesLen() int { return t.g.NodesLen() }

// EdgesLen returns the current number of edges.
func (t *TargetRunner) EdgesLen() int { return t.g.EdgesLen() }

// Steps returns the number of inner adapt steps executed so far.
func (t *TargetRunner) Steps() int { return t.g.Steps() }

// EachNode calls fn once per node, with its current weight and error.
func (t *TargetRunner) EachNode(fn func(w vector.Vector, errAcc float64)) { t.g.EachNode(fn) }

// EachEdge calls fn once per edge, with its current age.
func (t *TargetRunner) EachEdge(fn func(age int)) { t.g.EachEdge(fn) }

// IsolatedNodes returns the number of nodes with no incident edges.
func (t *TargetRunner) IsolatedNodes() int { return t.g.IsolatedNodes() }

// Epoch runs spec §4.8's epoch: reset every node's error, run Lambda
// inner adapt-only steps (error-accumulation, move, edge ageing and
// removal — no insert-node substep), then GrowShrink. Panics with an
// *ngngerrors.FatalError wrapping ngngerrors.ErrUnderflow if the network
// falls below two nodes, mirroring ferGNGTRun's exit(-1) on the same
// condition.
func (t *TargetRunner) Epoch() error {
	t.resetErrors()
	for i := 0; i < t.g.cfg.Lambda; i++ {
		if err := t.adapt(); err != nil {
			return err
		}
	}
	if err := t.growShrink(); err != nil {
		return err
	}
	if t.g.NodesLen() < 2 {
		ngngerrors.Panic("gng-t grow/shrink", ngngerrors.ErrUnderflow)
	}
	t.step++
	if t.g.cfg.CallbackPeriod > 0 && t.g.cfg.Callbacks.Progress != nil && t.step%t.g.cfg.CallbackPeriod == 0 {
		t.g.cfg.Callbacks.Progress(t.step)
	}
	return nil
}

// Run runs epochs until Callbacks.Terminate returns true.
func (t *TargetRunner) Run() error {
	if t.g.cfg.Callbacks.Terminate == nil {
		return errTargetRequiresTerminate
	}
	for !t.g.cfg.Callbacks.Terminate() {
		if err := t.Epoch(); err != nil {
			return err
		}
	}
	return nil
}

func (t *TargetRunner) resetErrors() {
	t.g.net.Nodes(func(n *gngNode) { n.Data.err = 0 })
}

// adapt is spec §4.8 step 2: one inner step, identical to GNG.Step's
// edge-connect/error-accumulate/move/age/prune sequence but without the
// periodic insert-node epoch or global decay, grounded in ferGNGTAdapt.
func (t *TargetRunner) adapt() error {
	g := t.g
	if g.net.NodesLen() < 2 {
		ngngerrors.Panic("gng-t adapt", ngngerrors.ErrUnderflow)
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
	return nil
}

// growShrink is spec §4.8 step 3, grounded in ferGNGTGrowShrink: grow by
// inserting a midpoint node between the max-error node and its max-error
// neighbour when the network's average error exceeds the target;
// otherwise shrink by deleting the single lowest-error node.
func (t *TargetRunner) growShrink() error {
	g := t.g
	avg := t.averageError()
	if avg > t.target {
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
		if err := g.net.AddEdge(newGngEdge(), q, r); err != nil {
			return err
		}
		if err := g.net.AddEdge(newGngEdge(), f, r); err != nil {
			return err
		}
		return nil
	}

	victim := t.lowestErrorNode()
	if victim == nil {
		return nil
	}
	var toDrop []*gngEdge
	victim.Edges(func(e *gngEdge) { toDrop = append(toDrop, e) })
	for _, e := range toDrop {
		g.net.RemoveEdge(e)
	}
	return g.removeNode(victim)
}

func (t *TargetRunner) averageError() float64 {
	var sum float64
	var n int
	t.g.net.Nodes(func(node *gngNode) {
		sum += node.Data.err
		n++
	})
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (t *TargetRunner) lowestErrorNode() *gngNode {
	var best *gngNode
	bestErr := math.Inf(1)
	t.g.net.Nodes(func(n *gngNode) {
		if n.Data.err < bestErr {
			bestErr = n.Data.err
			best = n
		}
	})
	return best
}
