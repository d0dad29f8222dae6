package vptree

import (
	"sort"

	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
)

// maxDegenerateIters bounds the median-nudge loop: each iteration shifts
// the split radius down by a fixed epsilon, so distinct-valued inputs
// converge in a handful of steps; this is a safety net against inputs with
// many exactly-equal distances.
const maxDegenerateIters = 64

// buildNode recursively partitions els into a subtree: a leaf if the
// bucket already fits, otherwise an internal node split on the
// mean-vantage-point / median-distance rule, falling back to a leaf if the
// split proves degenerate even after nudging the median.
func buildNode(cfg Config, els []*spatial.Element) *node {
	n := newLeaf()
	if len(els) <= cfg.MaxSize {
		appendLeafEls(n, els)
		return n
	}

	vecs := make([]vector.Vector, len(els))
	for i, e := range els {
		vecs[i] = e.Vec
	}
	vp := vector.Mean(vecs)

	dists := make([]float64, len(els))
	for i, e := range els {
		dists[i] = cfg.DistanceFunc(vp, e.Vec)
	}
	median := medianOf(dists)

	cur := len(els)
	for iter := 0; iter < maxDegenerateIters; iter++ {
		cur = partitionByMedian(els, dists, median, cfg.Epsilon)
		if cur != len(els) {
			break
		}
		median -= degenerateEpsilonFactor * cfg.Epsilon
	}

	if cur == 0 || cur == len(els) {
		// Degenerate even after nudging: give up and keep a single
		// (oversized) leaf rather than subdividing forever.
		appendLeafEls(n, els)
		return n
	}

	n.vp = vp
	n.mean = median
	n.left = buildNode(cfg, els[:cur])
	n.right = buildNode(cfg, els[cur:])
	return n
}

// medianOf returns the median of a copy of dists, averaging the two middle
// values on an even count, matching the reference build's median rule.
func medianOf(dists []float64) float64 {
	sorted := make([]float64, len(dists))
	copy(sorted, dists)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// partitionByMedian reorders els and their parallel dists in place so that
// every element with distance ≤ mean+eps comes first, and returns the
// count of such elements.
func partitionByMedian(els []*spatial.Element, dists []float64, mean, eps float64) int {
	cur := 0
	for i := range els {
		if dists[i] <= mean+eps {
			if cur != i {
				els[cur], els[i] = els[i], els[cur]
				dists[cur], dists[i] = dists[i], dists[cur]
			}
			cur++
		}
	}
	return cur
}
