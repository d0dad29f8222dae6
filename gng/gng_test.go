package gng_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpgrid/ngng/gng"
	"github.com/vpgrid/ngng/vector"
)

func annulusSampler(rng *rand.Rand, inner, outer float64) gng.SampleSource {
	return func() vector.Vector {
		for {
			x := rng.Float64()*2*outer - outer
			y := rng.Float64()*2*outer - outer
			r := math.Hypot(x, y)
			if r >= inner && r <= outer {
				return vector.Vector{x, y}
			}
		}
	}
}

func TestNewSeedsTwoNodesWithNoEdge(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := gng.DefaultConfig(2)
	cfg.Sample = annulusSampler(rng, 3, 5)

	g, err := gng.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodesLen())
	assert.Equal(t, 0, g.EdgesLen())
}

func TestNewRejectsMissingSample(t *testing.T) {
	cfg := gng.DefaultConfig(2)
	_, err := gng.New(cfg)
	assert.ErrorIs(t, err, gng.ErrNoSample)
}

func TestConnectAlwaysResetsAgeBeforeNeighbourAgeing(t *testing.T) {
	pts := []vector.Vector{{0, 0}, {10, 0}}
	i := 0
	cfg := gng.DefaultConfig(2)
	cfg.Eb, cfg.En = 0, 0
	cfg.AgeMax = 1000
	cfg.Sample = func() vector.Vector {
		v := pts[i%2]
		i++
		return v
	}

	g, err := gng.New(cfg)
	require.NoError(t, err)

	require.NoError(t, g.Step())
	assert.Equal(t, 1, g.EdgesLen())
	var age int
	g.EachEdge(func(a int) { age = a })
	// Step 3 resets the n1-n2 edge's age to 0; step 6 then ages every edge
	// incident to the winner by one, including that same edge, so the net
	// effect after one step is age=1, not 0.
	assert.Equal(t, 1, age)

	require.NoError(t, g.Step())
	g.EachEdge(func(a int) { age = a })
	assert.Equal(t, 1, age, "repeated connect-then-age on the same pair should not accumulate")
}

func TestStepMaintainsCoreInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := gng.DefaultConfig(2)
	cfg.Lambda = 25
	cfg.Sample = annulusSampler(rng, 3, 5)

	g, err := gng.New(cfg)
	require.NoError(t, err)

	for i := 0; i < 3000; i++ {
		require.NoError(t, g.Step())

		assert.Zero(t, g.IsolatedNodes(), "step %d left an isolated node", i)

		maxAge := 0
		g.EachEdge(func(age int) {
			if age > maxAge {
				maxAge = age
			}
			assert.GreaterOrEqual(t, age, 0)
		})
		assert.LessOrEqual(t, maxAge, cfg.AgeMax)

		g.EachNode(func(_ vector.Vector, errAcc float64) {
			assert.GreaterOrEqual(t, errAcc, 0.0)
		})
	}

	assert.Greater(t, g.NodesLen(), 2, "insert-node epochs should have grown the network")
}

func TestNewRejectsWrongDimensionSeedSamples(t *testing.T) {
	cfg := gng.DefaultConfig(2)
	cfg.Sample = func() vector.Vector { return vector.Vector{1, 2, 3} }
	g, err := gng.New(cfg)
	require.Error(t, err) // the two seed draws already have the wrong dimension
	assert.Nil(t, g)
}

func TestRunRequiresTerminateCallback(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	cfg := gng.DefaultConfig(2)
	cfg.Sample = annulusSampler(rng, 3, 5)
	g, err := gng.New(cfg)
	require.NoError(t, err)
	assert.Error(t, g.Run())
}

func TestRunStopsWhenTerminatePredicateFires(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cfg := gng.DefaultConfig(2)
	cfg.Lambda = 10
	cfg.Sample = annulusSampler(rng, 3, 5)

	steps := 0
	cfg.Callbacks.Terminate = func() bool {
		steps++
		return steps > 500
	}

	g, err := gng.New(cfg)
	require.NoError(t, err)
	require.NoError(t, g.Run())
	assert.Equal(t, 500, g.Steps())
}

func TestProgressCallbackFiresOnPeriod(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	cfg := gng.DefaultConfig(2)
	cfg.Lambda = 10
	cfg.CallbackPeriod = 50
	cfg.Sample = annulusSampler(rng, 3, 5)

	var fired []int
	cfg.Callbacks.Progress = func(step int) { fired = append(fired, step) }

	g, err := gng.New(cfg)
	require.NoError(t, err)
	for i := 0; i < 120; i++ {
		require.NoError(t, g.Step())
	}
	assert.Equal(t, []int{50, 100}, fired)
}

func TestInsertNodeSetsChildErrorToScaledParentError(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	cfg := gng.DefaultConfig(2)
	cfg.Lambda = 1
	cfg.Alpha = 0.5
	cfg.Sample = annulusSampler(rng, 3, 5)

	g, err := gng.New(cfg)
	require.NoError(t, err)
	require.NoError(t, g.Step())

	assert.Equal(t, 3, g.NodesLen())

	// Nodes are listed in insertion order, so the last one is the inserted
	// node r. Only the winner q has accumulated error, so r's error must
	// equal q's error after the Alpha scaling (both then decay by Beta).
	var errs []float64
	g.EachNode(func(_ vector.Vector, errAcc float64) { errs = append(errs, errAcc) })
	require.Len(t, errs, 3)
	assert.Equal(t, math.Max(errs[0], errs[1]), errs[2])
}

func TestNewEuclideanUsesGUGBackedIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	g, err := gng.NewEuclidean([]float64{-10, 10, -10, 10}, gng.WithSample(func() vector.Vector {
		return vector.Vector{rng.Float64()*20 - 10, rng.Float64()*20 - 10}
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodesLen())
}
