// Package linear implements a brute-force kNN baseline sharing the
// spatial.Index contract with gug and vptree: every element is kept in a
// single list, and a query scans the whole list once, feeding each
// distance into a spatial.KBest buffer. Update is a no-op because the
// linear scan re-reads coordinates from the element's vector on every
// query — there is no bucketing to invalidate.
package linear

import (
	"errors"
	"fmt"
	"io"

	"github.com/vpgrid/ngng/dlist"
	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
)

// ErrInvalidDim indicates New was asked for a non-positive dimension.
var ErrInvalidDim = errors.New("linear: dim must be positive")

// registered is the sentinel state value linear installs on an element via
// SetState, since linear needs no bookkeeping beyond "is it in my list".
var registered = struct{}{}

// Index is a linear-scan kNN baseline.
type Index struct {
	dim    int
	dist   vector.DistanceFunc
	items  dlist.List[spatial.Element]
	length int
}

var _ spatial.Index = (*Index)(nil)

// New returns an empty Index for the given dimension.
func New(dim int, opts ...Option) (*Index, error) {
	if dim <= 0 {
		return nil, ErrInvalidDim
	}
	cfg := Config{Dim: dim, DistanceFunc: vector.Euclidean}
	for _, opt := range opts {
		opt(&cfg)
	}
	idx := &Index{dim: dim, dist: cfg.DistanceFunc}
	idx.items.Init()
	return idx, nil
}

// Config configures a new Index.
type Config struct {
	Dim          int
	DistanceFunc vector.DistanceFunc
}

// Option mutates a Config being built by New.
type Option func(*Config)

// WithDistanceFunc overrides the default Euclidean distance.
func WithDistanceFunc(f vector.DistanceFunc) Option {
	return func(c *Config) { c.DistanceFunc = f }
}

// Dim returns the configured dimension.
func (idx *Index) Dim() int { return idx.dim }

// Len returns the number of registered elements.
func (idx *Index) Len() int { return idx.length }

// Add registers e.
func (idx *Index) Add(e *spatial.Element) error {
	if e.Registered() {
		return spatial.ErrAlreadyRegistered
	}
	if len(e.Vec) != idx.dim {
		return spatial.ErrDimensionMismatch
	}
	idx.items.PushBack(e.Hook())
	e.SetState(registered)
	idx.length++
	return nil
}

// Remove unregisters e.
func (idx *Index) Remove(e *spatial.Element) error {
	if !e.Registered() {
		return spatial.ErrNotRegistered
	}
	e.Hook().Detach()
	e.SetState(nil)
	idx.length--
	return nil
}

// Update is a no-op: the linear scan always re-reads e.Vec.
func (idx *Index) Update(e *spatial.Element) error {
	if !e.Registered() {
		return spatial.ErrNotRegistered
	}
	return nil
}

// Nearest scans every element once, keeping the k best.
func (idx *Index) Nearest(q vector.Vector, k int) []spatial.Result {
	if k <= 0 || idx.length == 0 {
		return nil
	}
	kbest := spatial.NewKBest(k)
	idx.items.Do(func(e *spatial.Element) {
		kbest.Add(e, idx.dist(q, e.Vec))
	})
	return kbest.Results()
}

// Dump writes a plain listing of every registered vector.
func (idx *Index) Dump(w io.Writer) error {
	i := 0
	var err error
	idx.items.Do(func(e *spatial.Element) {
		if err == nil {
			_, err = fmt.Fprintf(w, "element %d: %v\n", i, e.Vec)
			i++
		}
	})
	return err
}
