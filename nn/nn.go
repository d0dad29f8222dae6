// Package nn is the unified nearest-neighbour facade: a tagged-variant
// dispatcher that forwards add/remove/update/nearest/dump to one of
// {gug, vptree, linear} chosen at construction time. It adds no state of
// its own beyond the chosen backend; every call is a single indirect
// dispatch, which the spec notes is negligible next to the kNN work
// itself.
package nn

import (
	"errors"

	"github.com/vpgrid/ngng/gug"
	"github.com/vpgrid/ngng/linear"
	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vptree"
)

// Backend names which spatial.Index implementation New builds.
type Backend int

const (
	// BackendGUG selects the Growing Uniform Grid.
	BackendGUG Backend = iota
	// BackendVPTree selects the Vantage-Point Tree.
	BackendVPTree
	// BackendLinear selects the brute-force baseline.
	BackendLinear
)

// ErrUnknownBackend indicates Config.Backend is not one of the known tags.
var ErrUnknownBackend = errors.New("nn: unknown backend")

// Config selects and configures a backend. Only the fields relevant to the
// chosen Backend are read; the rest are ignored.
type Config struct {
	Backend Backend
	Dim     int

	// GUG-specific.
	AABB           []float64
	NumCellsTarget int
	MaxDensity     float64
	ExpandRate     float64
	Approx         bool

	// VPTree-specific.
	MaxSize int
}

// New builds the spatial.Index named by cfg.Backend.
func New(cfg Config) (spatial.Index, error) {
	switch cfg.Backend {
	case BackendGUG:
		opts := []gug.Option{}
		if cfg.NumCellsTarget > 0 {
			opts = append(opts, gug.WithNumCellsTarget(cfg.NumCellsTarget))
		}
		if cfg.MaxDensity > 0 {
			opts = append(opts, gug.WithMaxDensity(cfg.MaxDensity))
		}
		if cfg.ExpandRate > 0 {
			opts = append(opts, gug.WithExpandRate(cfg.ExpandRate))
		}
		if cfg.Approx {
			opts = append(opts, gug.WithApprox())
		}
		return gug.New(cfg.Dim, cfg.AABB, opts...)
	case BackendVPTree:
		opts := []vptree.Option{}
		if cfg.MaxSize > 0 {
			opts = append(opts, vptree.WithMaxSize(cfg.MaxSize))
		}
		return vptree.New(cfg.Dim, opts...)
	case BackendLinear:
		return linear.New(cfg.Dim)
	default:
		return nil, ErrUnknownBackend
	}
}
