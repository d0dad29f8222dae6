package spatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
)

func TestKBestKeepsKSmallestSorted(t *testing.T) {
	kb := spatial.NewKBest(3)
	dists := []float64{5, 1, 9, 2, 0.5, 7}
	for _, d := range dists {
		kb.Add(spatial.NewElement(vector.Vector{d}), d)
	}
	results := kb.Results()
	assert.Len(t, results, 3)
	assert.InDelta(t, 0.5, results[0].Dist, 1e-12)
	assert.InDelta(t, 1, results[1].Dist, 1e-12)
	assert.InDelta(t, 2, results[2].Dist, 1e-12)
}

func TestKBestWorstDistInfiniteUntilFull(t *testing.T) {
	kb := spatial.NewKBest(2)
	assert.True(t, math.IsInf(kb.WorstDist(), 1))
	kb.Add(spatial.NewElement(vector.Vector{1}), 1)
	assert.True(t, math.IsInf(kb.WorstDist(), 1))
	kb.Add(spatial.NewElement(vector.Vector{2}), 2)
	assert.InDelta(t, 2, kb.WorstDist(), 1e-12)
}

func TestElementStateRoundTrips(t *testing.T) {
	e := spatial.NewElement(vector.Vector{1, 2})
	assert.False(t, e.Registered())
	e.SetState(7)
	assert.True(t, e.Registered())
	assert.Equal(t, 7, e.State())
	e.SetState(nil)
	assert.False(t, e.Registered())
}
