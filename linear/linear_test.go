package linear_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpgrid/ngng/linear"
	"github.com/vpgrid/ngng/spatial"
	"github.com/vpgrid/ngng/vector"
)

func TestAddRemoveTracksLength(t *testing.T) {
	idx, err := linear.New(2)
	require.NoError(t, err)
	e := spatial.NewElement(vector.Vector{1, 1})
	require.NoError(t, idx.Add(e))
	assert.Equal(t, 1, idx.Len())
	require.NoError(t, idx.Remove(e))
	assert.Equal(t, 0, idx.Len())
	assert.ErrorIs(t, idx.Remove(e), spatial.ErrNotRegistered)
}

func TestNearestReturnsKSmallestInOrder(t *testing.T) {
	idx, err := linear.New(2)
	require.NoError(t, err)
	pts := []vector.Vector{{0, 0}, {5, 0}, {1, 0}, {10, 0}, {2, 0}}
	for _, p := range pts {
		require.NoError(t, idx.Add(spatial.NewElement(p)))
	}
	got := idx.Nearest(vector.Vector{0, 0}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, vector.Vector{0, 0}, got[0].Element.Vec)
	assert.Equal(t, vector.Vector{1, 0}, got[1].Element.Vec)
	assert.Equal(t, vector.Vector{2, 0}, got[2].Element.Vec)
}

func TestNearestOnEmptyIndexReturnsNoResults(t *testing.T) {
	idx, err := linear.New(2)
	require.NoError(t, err)
	assert.Empty(t, idx.Nearest(vector.Vector{0, 0}, 3))
}

func TestNearestWithKExceedingLenReturnsEverything(t *testing.T) {
	idx, err := linear.New(2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(spatial.NewElement(vector.Vector{0, 0})))
	require.NoError(t, idx.Add(spatial.NewElement(vector.Vector{1, 0})))
	got := idx.Nearest(vector.Vector{0, 0}, 10)
	assert.Len(t, got, 2)
}

func TestUpdateIsNoOpAndRequiresRegistration(t *testing.T) {
	idx, err := linear.New(2)
	require.NoError(t, err)
	e := spatial.NewElement(vector.Vector{0, 0})
	assert.ErrorIs(t, idx.Update(e), spatial.ErrNotRegistered)
	require.NoError(t, idx.Add(e))
	assert.NoError(t, idx.Update(e))
}
