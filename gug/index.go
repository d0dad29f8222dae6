package gug

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/vpgrid/ngng/dlist"
	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/telemetry"
	"github.com/vpgrid/ngng/vector"
)

// ErrInvalidAABB indicates a Config's AABB does not have length 2*Dim, or
// Dim is non-positive.
var ErrInvalidAABB = errors.New("gug: aabb must have length 2*dim and dim must be positive")

type cell struct {
	members dlist.List[spatial.Element]
}

type elState struct {
	cellID int
}

// Index is a Growing Uniform Grid: a uniform-cell spatial hash over a fixed
// aabb that rebuilds itself (geometrically, not just incrementally) when
// its density exceeds the configured ceiling.
type Index struct {
	cfg      Config
	geom     geometry
	cells    []cell
	numEls   int
	log      zerolog.Logger
	warnOnce telemetry.Once
}

var _ spatial.Index = (*Index)(nil)

// New builds an empty Index over cfg.AABB for cfg.Dim dimensions.
func New(dim int, aabb []float64, opts ...Option) (*Index, error) {
	if dim <= 0 || len(aabb) != 2*dim {
		return nil, ErrInvalidAABB
	}
	cfg := defaultConfig(dim, aabb)
	for _, opt := range opts {
		opt(&cfg)
	}
	target := cfg.NumCellsTarget
	if target <= 0 {
		target = 1
	}
	idx := &Index{
		cfg:  cfg,
		geom: buildGeometry(cfg.AABB, cfg.Dim, target),
		log:  telemetry.Logger("gug"),
	}
	idx.cells = make([]cell, idx.geom.cellsLen())
	for i := range idx.cells {
		idx.cells[i].members.Init()
	}
	return idx, nil
}

// Dim returns the configured dimension.
func (idx *Index) Dim() int { return idx.cfg.Dim }

// Len returns the number of registered elements.
func (idx *Index) Len() int { return idx.numEls }

// CellsLen returns the current number of cells, exposed for diagnostics and
// the adaptive-resize testable property.
func (idx *Index) CellsLen() int { return len(idx.cells) }

// CellDims returns the current per-axis cell counts.
func (idx *Index) CellDims() []int {
	out := make([]int, len(idx.geom.dims))
	copy(out, idx.geom.dims)
	return out
}

// Add registers e. Out-of-aabb coordinates are clamped into the edge
// cells; the first clamp on this instance logs a warning.
func (idx *Index) Add(e *spatial.Element) error {
	if e.Registered() {
		return spatial.ErrAlreadyRegistered
	}
	if len(e.Vec) != idx.cfg.Dim {
		return spatial.ErrDimensionMismatch
	}
	id, clamped := idx.geom.coordsToID(e.Vec)
	if clamped {
		idx.warnOnce.Warn(idx.log, "out-of-aabb", "coordinate outside aabb, clamped to edge cell")
	}
	idx.cells[id].members.PushBack(e.Hook())
	e.SetState(&elState{cellID: id})
	idx.numEls++
	if float64(idx.numEls)/float64(len(idx.cells)) > idx.cfg.MaxDensity {
		idx.expand()
	}
	return nil
}

// Remove unregisters e.
func (idx *Index) Remove(e *spatial.Element) error {
	if _, ok := e.State().(*elState); !ok {
		return spatial.ErrNotRegistered
	}
	e.Hook().Detach()
	e.SetState(nil)
	idx.numEls--
	return nil
}

// Update re-buckets e after its Vec's coordinates changed. A no-op if the
// cell id is unchanged.
func (idx *Index) Update(e *spatial.Element) error {
	st, ok := e.State().(*elState)
	if !ok {
		return spatial.ErrNotRegistered
	}
	id, clamped := idx.geom.coordsToID(e.Vec)
	if clamped {
		idx.warnOnce.Warn(idx.log, "out-of-aabb", "coordinate outside aabb, clamped to edge cell")
	}
	if id == st.cellID {
		return nil
	}
	e.Hook().Detach()
	idx.cells[id].members.PushBack(e.Hook())
	st.cellID = id
	return nil
}

// expand rebuilds the cell array at cfg.ExpandRate times the current cell
// count, re-inserting every registered element. Stop-the-world, amortised
// O(1) per insertion thanks to geometric growth.
func (idx *Index) expand() {
	type reinsert struct {
		el *spatial.Element
	}
	var all []reinsert
	for i := range idx.cells {
		idx.cells[i].members.DoSafe(func(e *spatial.Element) {
			all = append(all, reinsert{el: e})
		})
	}

	newTarget := int(float64(len(idx.cells)) * idx.cfg.ExpandRate)
	if newTarget <= len(idx.cells) {
		newTarget = len(idx.cells) + 1
	}
	idx.geom = buildGeometry(idx.cfg.AABB, idx.cfg.Dim, newTarget)
	idx.cells = make([]cell, idx.geom.cellsLen())
	for i := range idx.cells {
		idx.cells[i].members.Init()
	}

	for _, r := range all {
		id, clamped := idx.geom.coordsToID(r.el.Vec)
		if clamped {
			idx.warnOnce.Warn(idx.log, "out-of-aabb", "coordinate outside aabb, clamped to edge cell")
		}
		idx.cells[id].members.PushBack(r.el.Hook())
		r.el.SetState(&elState{cellID: id})
	}
}

// Nearest returns up to k elements nearest q, scanning concentric ℓ∞
// shells outward from q's home cell until the shell's minimum possible
// distance exceeds the current k-th best.
func (idx *Index) Nearest(q vector.Vector, k int) []spatial.Result {
	if k <= 0 || idx.numEls == 0 {
		return nil
	}
	homeID, _ := idx.geom.coordsToID(q)
	home := idx.geom.idToCoords(homeID)
	kbest := spatial.NewKBest(k)

	maxR := idx.geom.maxShellRadius(home)
	for r := 0; r <= maxR; r++ {
		lowerBound := 0.0
		if r >= 1 {
			lowerBound = float64(r-1) * idx.geom.edge
		}
		if kbest.Full() && lowerBound > kbest.WorstDist() {
			break
		}
		for _, id := range idx.geom.shellCells(home, r) {
			idx.cells[id].members.Do(func(e *spatial.Element) {
				kbest.Add(e, idx.cfg.DistanceFunc(q, e.Vec))
			})
		}
		if idx.cfg.Approx && r >= 1 && kbest.Full() {
			break
		}
	}
	return kbest.Results()
}

// Dump writes a human-readable cell-by-cell listing of idx's contents.
func (idx *Index) Dump(w io.Writer) error {
	for id := range idx.cells {
		n := idx.cells[id].members.Len()
		if n == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "cell %d (%v): %d elements\n", id, idx.geom.idToCoords(id), n); err != nil {
			return err
		}
	}
	return nil
}
