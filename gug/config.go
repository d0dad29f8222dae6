// Package gug implements the Growing Uniform Grid: an adaptive uniform-cell
// spatial hash index for k-nearest-neighbour queries over a mutable point
// set of fixed dimension.
//
// Geometry. Given an aabb and a target cell count, Build chooses a cube
// edge length and per-axis cell counts whose product is at least the
// target, proportioned to the aabb's per-axis extents. The coordinate to
// cell-id mapping is the row-major mixed-radix product described in
// coordsToID. Out-of-aabb coordinates are clamped to the edge cells rather
// than rejected: the index still answers correctly, only with degraded
// locality, and a telemetry warning fires once per instance.
//
// kNN proceeds outward in concentric ℓ∞ shells around the query point's
// home cell; a shell is skipped once its minimum possible distance to the
// query exceeds the current k-th best, because no outer shell can improve
// on an already-bounded answer.
package gug

import "github.com/vpgrid/ngng/vector"

// Config configures a new Index. Dim and AABB must be set; everything else
// has a workable default applied by New.
type Config struct {
	Dim             int
	AABB            []float64 // [xmin, xmax, ymin, ymax, ...], length 2*Dim
	NumCellsTarget  int       // 0 means start from a single cell and let resizes grow it
	MaxDensity      float64   // elements/cells ceiling that triggers a resize
	ExpandRate      float64   // cell-count multiplier applied on resize
	Approx          bool      // approximate kNN: stop after the first two shells once k are found
	DistanceFunc    vector.DistanceFunc
}

// Option mutates a Config being built by New.
type Option func(*Config)

// WithNumCellsTarget sets the initial target cell count.
func WithNumCellsTarget(n int) Option {
	return func(c *Config) { c.NumCellsTarget = n }
}

// WithMaxDensity sets the elements/cells ceiling that triggers a resize.
func WithMaxDensity(d float64) Option {
	return func(c *Config) { c.MaxDensity = d }
}

// WithExpandRate sets the cell-count multiplier applied on resize.
func WithExpandRate(r float64) Option {
	return func(c *Config) { c.ExpandRate = r }
}

// WithApprox enables approximate kNN: the query stops after scanning the
// home shell and its immediate neighbours if they already hold k elements,
// without proving optimality.
func WithApprox() Option {
	return func(c *Config) { c.Approx = true }
}

// WithDistanceFunc overrides the default Euclidean distance.
func WithDistanceFunc(f vector.DistanceFunc) Option {
	return func(c *Config) { c.DistanceFunc = f }
}

// defaultConfig mirrors the reference defaults: max_dens 1, expand_rate 2.
func defaultConfig(dim int, aabb []float64) Config {
	return Config{
		Dim:          dim,
		AABB:         aabb,
		MaxDensity:   1,
		ExpandRate:   2,
		DistanceFunc: vector.Euclidean,
	}
}
