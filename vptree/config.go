// Package vptree implements a Vantage-Point Tree: a metric-space binary
// partition index for k-nearest-neighbour queries over a mutable point set,
// intended for non-uniform distributions where gug's uniform cells waste
// density.
//
// Build picks a vantage point as the coordinate-wise mean of a bucket and
// splits it on the median distance to that point; a degenerate split (every
// element landing on one side) is recovered by nudging the median down by a
// small epsilon, and — if it is still degenerate — by giving up and keeping
// the bucket as a leaf. Incremental Add descends to a leaf and splits it in
// place if it overflows MaxSize; Remove finds an element's leaf through the
// bookkeeping state it installed on Add and detaches it from that leaf's
// bucket, leaving empty
// leaves attached rather than contracting the tree — there is no
// shrink/merge path, so nothing governs a minimum bucket size.
package vptree

import "github.com/vpgrid/ngng/vector"

// degenerateEpsilonFactor scales Epsilon into the nudge applied to a trivial
// median split, mirroring the reference implementation's 10*eps step.
const degenerateEpsilonFactor = 10

// Config configures a new Tree.
type Config struct {
	Dim          int
	MaxSize      int // leaf capacity before a split is attempted
	DistanceFunc vector.DistanceFunc
	Epsilon      float64
}

// Option mutates a Config being built by New.
type Option func(*Config)

// WithMaxSize sets the leaf capacity threshold that triggers a split.
func WithMaxSize(n int) Option {
	return func(c *Config) { c.MaxSize = n }
}

// WithDistanceFunc overrides the default Euclidean distance.
func WithDistanceFunc(f vector.DistanceFunc) Option {
	return func(c *Config) { c.DistanceFunc = f }
}

// WithEpsilon overrides the degenerate-split nudge epsilon.
func WithEpsilon(eps float64) Option {
	return func(c *Config) { c.Epsilon = eps }
}

func defaultConfig(dim int) Config {
	return Config{
		Dim:          dim,
		MaxSize:      2,
		DistanceFunc: vector.Euclidean,
		Epsilon:      vector.DefaultEpsilon,
	}
}
