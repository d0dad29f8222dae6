package kohonen

import (
	"math/rand"

	"github.com/vpgrid/ngng/nn"
	"github.com/vpgrid/ngng/vector"
)

// NewGridEuclidean is the "just use Euclidean distance and a grid index"
// convenience constructor: it builds a rows×cols grid topology with
// random initial weights drawn uniformly from aabb, wires a gug-backed
// NN index over aabb, and applies opts before calling New. Grounded in
// gng.NewEuclidean's role as a pre-wired convenience constructor.
func NewGridEuclidean(rows, cols int, aabb []float64, rng *rand.Rand, opts ...Option) (*Kohonen, error) {
	dim := len(aabb) / 2
	topo, err := BuildGrid(rows, cols, func(int, int) vector.Vector {
		return randomInAABB(rng, aabb)
	})
	if err != nil {
		return nil, err
	}
	return newEuclidean(dim, aabb, topo, opts)
}

// NewRingEuclidean is NewGridEuclidean's ring-topology counterpart.
func NewRingEuclidean(n int, aabb []float64, rng *rand.Rand, opts ...Option) (*Kohonen, error) {
	dim := len(aabb) / 2
	topo, err := BuildRing(n, func(int) vector.Vector {
		return randomInAABB(rng, aabb)
	})
	if err != nil {
		return nil, err
	}
	return newEuclidean(dim, aabb, topo, opts)
}

func newEuclidean(dim int, aabb []float64, topo Topology, opts []Option) (*Kohonen, error) {
	cfg := DefaultConfig(dim)
	cfg.DistanceFunc = vector.Euclidean
	cfg.NN = nn.Config{Backend: nn.BackendGUG, Dim: dim, AABB: aabb}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg, topo)
}

func randomInAABB(rng *rand.Rand, aabb []float64) vector.Vector {
	dim := len(aabb) / 2
	v := make(vector.Vector, dim)
	for i := 0; i < dim; i++ {
		lo, hi := aabb[2*i], aabb[2*i+1]
		v[i] = lo + rng.Float64()*(hi-lo)
	}
	return v
}
