package vptree_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
	"github.com/vpgrid/ngng/vptree"
)

func randomPoints(n int, seed int64) []vector.Vector {
	rng := rand.New(rand.NewSource(seed))
	out := make([]vector.Vector, n)
	for i := range out {
		out[i] = vector.Vector{rng.Float64()*20 - 10, rng.Float64()*20 - 10}
	}
	return out
}

func bruteForceKNearest(points []vector.Vector, q vector.Vector, k int) []float64 {
	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = vector.Euclidean(q, p)
	}
	sort.Float64s(dists)
	if k > len(dists) {
		k = len(dists)
	}
	return dists[:k]
}

func TestVPTreeBatchBuildNearestMatchesBruteForce(t *testing.T) {
	points := randomPoints(500, 1)
	elements := make([]*spatial.Element, len(points))
	for i, p := range points {
		elements[i] = spatial.NewElement(p)
	}
	tr, err := vptree.Build(2, elements, vptree.WithMaxSize(4))
	require.NoError(t, err)
	assert.Equal(t, len(points), tr.Len())

	got := tr.Nearest(vector.Vector{0, 0}, 5)
	want := bruteForceKNearest(points, vector.Vector{0, 0}, 5)
	require.Len(t, got, 5)
	for i := range want {
		assert.InDelta(t, want[i], got[i].Dist, 1e-9)
	}
}

func TestVPTreeNearestMatchesBruteForceAcrossMaxSizes(t *testing.T) {
	points := randomPoints(300, 2)
	for _, maxSize := range []int{1, 2, 3, 5} {
		elements := make([]*spatial.Element, len(points))
		for i, p := range points {
			elements[i] = spatial.NewElement(p)
		}
		tr, err := vptree.Build(2, elements, vptree.WithMaxSize(maxSize))
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(int64(maxSize)))
		for trial := 0; trial < 30; trial++ {
			q := vector.Vector{rng.Float64()*20 - 10, rng.Float64()*20 - 10}
			k := 1 + trial%5

			got := tr.Nearest(q, k)
			want := bruteForceKNearest(points, q, k)
			require.Len(t, got, k)
			for i := range want {
				assert.InDeltaf(t, want[i], got[i].Dist, 1e-9, "maxSize=%d trial=%d", maxSize, trial)
			}
		}
	}
}

func TestVPTreeRoundTripBatchVsIncremental(t *testing.T) {
	points := randomPoints(200, 3)

	batchEls := make([]*spatial.Element, len(points))
	for i, p := range points {
		batchEls[i] = spatial.NewElement(p)
	}
	batch, err := vptree.Build(2, batchEls, vptree.WithMaxSize(3))
	require.NoError(t, err)

	incremental, err := vptree.New(2, vptree.WithMaxSize(3))
	require.NoError(t, err)
	for _, p := range points {
		require.NoError(t, incremental.Add(spatial.NewElement(p)))
	}

	rng := rand.New(rand.NewSource(4))
	for trial := 0; trial < 20; trial++ {
		q := vector.Vector{rng.Float64()*20 - 10, rng.Float64()*20 - 10}
		a := batch.Nearest(q, 3)
		b := incremental.Nearest(q, 3)
		require.Len(t, a, 3)
		require.Len(t, b, 3)
		for i := range a {
			assert.InDelta(t, a[i].Dist, b[i].Dist, 1e-9)
		}
	}
}

func TestVPTreeAddRejectsDuplicateAndWrongDimension(t *testing.T) {
	tr, err := vptree.New(2)
	require.NoError(t, err)
	e := spatial.NewElement(vector.Vector{1, 2})
	require.NoError(t, tr.Add(e))
	assert.ErrorIs(t, tr.Add(e), spatial.ErrAlreadyRegistered)

	bad := spatial.NewElement(vector.Vector{1, 2, 3})
	assert.ErrorIs(t, tr.Add(bad), spatial.ErrDimensionMismatch)
}

func TestVPTreeRemoveThenNearestExcludesRemovedElement(t *testing.T) {
	tr, err := vptree.New(2, vptree.WithMaxSize(2))
	require.NoError(t, err)
	e1 := spatial.NewElement(vector.Vector{0, 0})
	e2 := spatial.NewElement(vector.Vector{1, 0})
	e3 := spatial.NewElement(vector.Vector{2, 0})
	require.NoError(t, tr.Add(e1))
	require.NoError(t, tr.Add(e2))
	require.NoError(t, tr.Add(e3))

	require.NoError(t, tr.Remove(e1))
	assert.Equal(t, 2, tr.Len())
	assert.ErrorIs(t, tr.Remove(e1), spatial.ErrNotRegistered)

	got := tr.Nearest(vector.Vector{0, 0}, 2)
	for _, r := range got {
		assert.NotEqual(t, e1, r.Element)
	}
}

func TestVPTreeUpdateIsNoOpAndRejectsUnregistered(t *testing.T) {
	tr, err := vptree.New(2)
	require.NoError(t, err)
	e := spatial.NewElement(vector.Vector{0, 0})
	assert.ErrorIs(t, tr.Update(e), spatial.ErrNotRegistered)
	require.NoError(t, tr.Add(e))
	assert.NoError(t, tr.Update(e))
}

func TestVPTreeNearestResultsAreNonDecreasing(t *testing.T) {
	points := randomPoints(100, 5)
	elements := make([]*spatial.Element, len(points))
	for i, p := range points {
		elements[i] = spatial.NewElement(p)
	}
	tr, err := vptree.Build(2, elements, vptree.WithMaxSize(4))
	require.NoError(t, err)

	got := tr.Nearest(vector.Vector{0, 0}, 10)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Dist, got[i].Dist)
	}
}
