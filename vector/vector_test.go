package vector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpgrid/ngng/vector"
)

func TestEuclideanZeroForIdenticalPoints(t *testing.T) {
	a := vector.Vector{1, 2, 3}
	assert.InDelta(t, 0, vector.Euclidean(a, a), 1e-12)
}

func TestEuclideanSymmetric(t *testing.T) {
	a := vector.Vector{0, 0}
	b := vector.Vector{3, 4}
	assert.InDelta(t, vector.Euclidean(a, b), vector.Euclidean(b, a), 1e-12)
	assert.InDelta(t, 5, vector.Euclidean(a, b), 1e-12)
}

func TestSquaredEuclideanMatchesSquareOfEuclidean(t *testing.T) {
	a := vector.Vector{1, 1}
	b := vector.Vector{4, 5}
	assert.InDelta(t, vector.Euclidean(a, b)*vector.Euclidean(a, b), vector.SquaredEuclidean(a, b), 1e-9)
}

func TestMeanOfSinglePointIsItself(t *testing.T) {
	a := vector.Vector{2, -3}
	got := vector.Mean([]vector.Vector{a})
	assert.True(t, vector.Equal(a, got, 1e-12))
}

func TestMeanOfSymmetricPairIsMidpoint(t *testing.T) {
	a := vector.Vector{0, 0}
	b := vector.Vector{2, 4}
	got := vector.Mean([]vector.Vector{a, b})
	require.Len(t, got, 2)
	assert.InDelta(t, 1, got[0], 1e-12)
	assert.InDelta(t, 2, got[1], 1e-12)
}

func TestEqualRespectsEpsilon(t *testing.T) {
	a := vector.Vector{1.0, 1.0}
	b := vector.Vector{1.0 + 1e-6, 1.0}
	assert.False(t, vector.Equal(a, b, 1e-9))
	assert.True(t, vector.Equal(a, b, 1e-5))
}

func TestEqualDifferentDimension(t *testing.T) {
	assert.False(t, vector.Equal(vector.Vector{1}, vector.Vector{1, 2}, 1e-9))
}

func TestCloneIsIndependent(t *testing.T) {
	a := vector.Vector{1, 2}
	b := vector.Clone(a)
	b[0] = 99
	assert.Equal(t, float64(1), a[0])
}
