// Package vector defines the fixed-dimension real vector type shared by
// every index and client in this module, plus the small set of distance
// operations the rest of the module builds on.
//
// Dimension is a property of the owning index, not of Vector itself: a
// Vector is just []float64, and it is the caller's responsibility to keep
// every Vector passed to one index at the same length. Distance functions
// are user-pluggable; VPTree's pruning proof requires the triangle
// inequality, GUG's shell pruning only recommends it.
package vector

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Vector is an ordered tuple of real numbers. Its length is its dimension.
type Vector []float64

// DistanceFunc computes a non-negative distance between two vectors of the
// same dimension. Implementations must be symmetric and satisfy d(x,x)=0;
// the triangle inequality is required by vptree and merely recommended for
// gug (it is used only to prune by axis-aligned cell bounds there).
type DistanceFunc func(a, b Vector) float64

// DefaultEpsilon is a default tolerance for approximate comparisons; vptree
// uses it as its default degenerate-split epsilon. Equal always takes an
// explicit eps.
const DefaultEpsilon = 1e-9

// Clone returns a fresh copy of v, safe for the index to retain even if the
// caller mutates the original afterwards.
func Clone(v Vector) Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Equal reports whether a and b have the same dimension and are
// coordinate-wise within eps of each other.
func Equal(a, b Vector, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	return floats.EqualApprox(a, b, eps)
}

// Euclidean returns the L2 distance between a and b.
// Panics if a and b have different lengths (a dimension mismatch is a
// caller bug, not a recoverable runtime condition).
func Euclidean(a, b Vector) float64 {
	mustSameDim(a, b)
	return floats.Distance(a, b, 2)
}

// SquaredEuclidean returns the squared L2 distance between a and b. GNG's
// error accumulation uses the squared distance because it is cheaper and
// still monotonic with the true distance; keeping it as a distinct
// operation (rather than squaring Euclidean's result) avoids a spurious
// sqrt and keeps clients from accidentally mixing squared and unsquared
// quantities.
func SquaredEuclidean(a, b Vector) float64 {
	mustSameDim(a, b)
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Mean returns the coordinate-wise mean of vs. It is the reference
// vantage-point selection heuristic for vptree (spec permits any selector;
// mean is cheap and the documented default). Panics if vs is empty or the
// vectors disagree on dimension.
func Mean(vs []Vector) Vector {
	if len(vs) == 0 {
		panic("vector: Mean of empty set")
	}
	d := len(vs[0])
	sum := make(Vector, d)
	for _, v := range vs {
		mustSameDim(sum, v)
		floats.Add(sum, v)
	}
	floats.Scale(1/float64(len(vs)), sum)
	return sum
}

func mustSameDim(a, b Vector) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vector: dimension mismatch: %d != %d", len(a), len(b)))
	}
}
