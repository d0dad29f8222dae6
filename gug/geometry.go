package gug

import "math"

// geometry is the derived, immutable-per-build layout of the cell array:
// a single cube edge length shared by every axis, per-axis cell counts, and
// the origin shift that maps aabb[2i] to coordinate 0.
type geometry struct {
	dims  []int
	edge  float64
	shift []float64
}

// buildGeometry chooses a cube edge and per-axis cell counts whose product
// is at least target, proportioned to aabb's per-axis extents: a single
// edge length is shared across axes, so cells are true hypercubes and the
// coordinate-to-cell-id mapping stays a simple mixed-radix product.
func buildGeometry(aabb []float64, dim, target int) geometry {
	if target < 1 {
		target = 1
	}
	extents := make([]float64, dim)
	volume := 1.0
	for i := 0; i < dim; i++ {
		extents[i] = aabb[2*i+1] - aabb[2*i]
		if extents[i] <= 0 {
			extents[i] = 1
		}
		volume *= extents[i]
	}

	edge := math.Pow(volume/float64(target), 1.0/float64(dim))
	dims := make([]int, dim)
	product := 1
	for i := 0; i < dim; i++ {
		dims[i] = int(math.Ceil(extents[i] / edge))
		if dims[i] < 1 {
			dims[i] = 1
		}
		product *= dims[i]
	}

	// Ceil-ing per axis independently can undershoot the target slightly;
	// grow the axis with the coarsest cells one cell at a time until it's met.
	for product < target {
		longest := 0
		for i := 1; i < dim; i++ {
			if extents[i]/float64(dims[i]) > extents[longest]/float64(dims[longest]) {
				longest = i
			}
		}
		product = product / dims[longest] * (dims[longest] + 1)
		dims[longest]++
	}

	shift := make([]float64, dim)
	for i := 0; i < dim; i++ {
		shift[i] = -aabb[2*i]
	}

	return geometry{dims: dims, edge: edge, shift: shift}
}

// cellsLen returns ∏ dims[i].
func (g geometry) cellsLen() int {
	n := 1
	for _, d := range g.dims {
		n *= d
	}
	return n
}

// coordsToID maps a point to its cell id and reports whether any axis had
// to be clamped into range (i.e. the point fell outside the aabb).
func (g geometry) coordsToID(v []float64) (id int, clamped bool) {
	mul := 1
	for i := range g.dims {
		f := (v[i] + g.shift[i]) / g.edge
		tmp := int(math.Floor(f))
		if tmp < 0 {
			tmp = 0
			clamped = true
		}
		if tmp >= g.dims[i] {
			tmp = g.dims[i] - 1
			clamped = true
		}
		id += tmp * mul
		mul *= g.dims[i]
	}
	return id, clamped
}

// idToCoords is coordsToID's inverse over cell ids (not points).
func (g geometry) idToCoords(id int) []int {
	coords := make([]int, len(g.dims))
	for i := range g.dims {
		coords[i] = id % g.dims[i]
		id /= g.dims[i]
	}
	return coords
}

// coordsToCellID packs a coordinate tuple back into a cell id, or reports
// ok=false if any axis is out of range (used by shell enumeration, which
// must discard neighbours that fall off the edge of the grid).
func (g geometry) coordsToCellID(coords []int) (id int, ok bool) {
	mul := 1
	for i, c := range coords {
		if c < 0 || c >= g.dims[i] {
			return 0, false
		}
		id += c * mul
		mul *= g.dims[i]
	}
	return id, true
}

// maxShellRadius is the largest r for which shellCoords can still return a
// non-empty set: the ℓ∞ distance from home to the farthest grid corner.
func (g geometry) maxShellRadius(home []int) int {
	max := 0
	for i, h := range home {
		if d := h; d > max {
			max = d
		}
		if d := g.dims[i] - 1 - h; d > max {
			max = d
		}
	}
	return max
}

// shellCells returns the ids of every in-grid cell at ℓ∞ distance exactly r
// from home. r=0 yields the home cell itself.
func (g geometry) shellCells(home []int, r int) []int {
	if r == 0 {
		id, _ := g.coordsToCellID(home)
		return []int{id}
	}
	var out []int
	offset := make([]int, len(home))
	var rec func(axis int)
	rec = func(axis int) {
		if axis == len(home) {
			touchesShell := false
			for i, o := range offset {
				if abs(o) == r {
					touchesShell = true
				}
				_ = i
			}
			if !touchesShell {
				return
			}
			coords := make([]int, len(home))
			for i := range home {
				coords[i] = home[i] + offset[i]
			}
			if id, ok := g.coordsToCellID(coords); ok {
				out = append(out, id)
			}
			return
		}
		for d := -r; d <= r; d++ {
			offset[axis] = d
			rec(axis + 1)
		}
	}
	rec(0)
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
