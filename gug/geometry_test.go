package gug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGeometryMeetsTarget(t *testing.T) {
	g := buildGeometry([]float64{-1, 1, -2, 2}, 2, 16)
	assert.GreaterOrEqual(t, g.cellsLen(), 16)
}

func TestCoordsToIDClampsOutOfAABB(t *testing.T) {
	g := buildGeometry([]float64{-1, 1, -2, 2}, 2, 16)
	_, clampedInside := g.coordsToID([]float64{0, 0})
	assert.False(t, clampedInside)

	id, clamped := g.coordsToID([]float64{-100, -100})
	assert.True(t, clamped)
	assert.Equal(t, 0, id)

	idHigh, clampedHigh := g.coordsToID([]float64{100, 100})
	assert.True(t, clampedHigh)
	assert.Equal(t, g.cellsLen()-1, idHigh)
}

func TestIDToCoordsRoundTrips(t *testing.T) {
	g := buildGeometry([]float64{-1, 1, -2, 2}, 2, 16)
	for id := 0; id < g.cellsLen(); id++ {
		coords := g.idToCoords(id)
		back, ok := g.coordsToCellID(coords)
		require.True(t, ok)
		assert.Equal(t, id, back)
	}
}

func TestShellCellsHomeIsSingleCell(t *testing.T) {
	g := buildGeometry([]float64{-1, 1, -2, 2}, 2, 16)
	home := g.idToCoords(0)
	shell0 := g.shellCells(home, 0)
	require.Len(t, shell0, 1)
}

func TestShellCellsAreDistinctFromInnerShells(t *testing.T) {
	g := buildGeometry([]float64{0, 10, 0, 10}, 2, 100)
	home := []int{5, 5}
	shell1 := g.shellCells(home, 1)
	for _, id := range shell1 {
		coords := g.idToCoords(id)
		maxAbs := 0
		for i := range coords {
			d := coords[i] - home[i]
			if d < 0 {
				d = -d
			}
			if d > maxAbs {
				maxAbs = d
			}
		}
		assert.Equal(t, 1, maxAbs)
	}
}
