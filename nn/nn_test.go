package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpgrid/ngng/nn"
	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
)

func TestNewDispatchesToRequestedBackend(t *testing.T) {
	g, err := nn.New(nn.Config{Backend: nn.BackendGUG, Dim: 2, AABB: []float64{-10, 10, -10, 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Dim())

	v, err := nn.New(nn.Config{Backend: nn.BackendVPTree, Dim: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, v.Dim())

	l, err := nn.New(nn.Config{Backend: nn.BackendLinear, Dim: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Dim())

	_, err = nn.New(nn.Config{Backend: nn.Backend(99), Dim: 2})
	assert.ErrorIs(t, err, nn.ErrUnknownBackend)
}

func TestKNNEquivalenceAcrossBackends(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var points []vector.Vector
	for i := 0; i < 200; i++ {
		points = append(points, vector.Vector{rng.Float64()*20 - 10, rng.Float64()*20 - 10})
	}

	backends := map[string]nn.Config{
		"gug":    {Backend: nn.BackendGUG, Dim: 2, AABB: []float64{-10, 10, -10, 10}, NumCellsTarget: 16},
		"vptree": {Backend: nn.BackendVPTree, Dim: 2, MaxSize: 4},
		"linear": {Backend: nn.BackendLinear, Dim: 2},
	}

	indices := make(map[string]spatial.Index, len(backends))
	for name, cfg := range backends {
		idx, err := nn.New(cfg)
		require.NoError(t, err)
		for _, p := range points {
			require.NoError(t, idx.Add(spatial.NewElement(p)))
		}
		indices[name] = idx
	}

	for trial := 0; trial < 20; trial++ {
		q := vector.Vector{rng.Float64()*20 - 10, rng.Float64()*20 - 10}
		k := 1 + trial%5

		var reference []float64
		for name, idx := range indices {
			got := idx.Nearest(q, k)
			require.Len(t, got, k, "backend %s", name)
			dists := make([]float64, len(got))
			for i, r := range got {
				dists[i] = r.Dist
			}
			if reference == nil {
				reference = dists
				continue
			}
			for i := range reference {
				assert.InDeltaf(t, reference[i], dists[i], 1e-9, "backend %s trial %d", name, trial)
			}
		}
	}
}
