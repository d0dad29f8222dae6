package gng

import (
	"github.com/vpgrid/ngng/nn"
	"github.com/vpgrid/ngng/vector"
)

// NewEuclidean is the "just use Euclidean distance and a grid" convenience
// constructor, grounded in src/gng-eu.c's role as a thin wrapper over the
// generic GNG core: it pre-wires vector.Euclidean as the distance
// function and a gug-backed NN index over aabb, leaving every other
// Config field to the caller.
func NewEuclidean(aabb []float64, opts ...Option) (*GNG, error) {
	dim := len(aabb) / 2
	cfg := DefaultConfig(dim)
	cfg.DistanceFunc = vector.Euclidean
	cfg.NN = nn.Config{Backend: nn.BackendGUG, Dim: dim, AABB: aabb}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(cfg)
}

// NewTargetEuclidean is NewEuclidean's GNG-T counterpart.
func NewTargetEuclidean(aabb []float64, target float64, opts ...TargetOption) (*TargetRunner, error) {
	dim := len(aabb) / 2
	cfg := DefaultTargetConfig(dim)
	cfg.DistanceFunc = vector.Euclidean
	cfg.Target = target
	cfg.NN = nn.Config{Backend: nn.BackendGUG, Dim: dim, AABB: aabb}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewTargetRunner(cfg)
}
