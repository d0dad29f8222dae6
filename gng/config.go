// Package gng implements the Growing Neural Gas streaming topology
// learner (spec §4.7) and its density-targeting variant GNG-T (§4.8): a
// net.Net of weighted nodes connected by aged edges, kept queryable by a
// spatial.Index built by nn.New, grown and pruned one input sample at a time.
//
// Both variants share the same substrate and step primitives (nearest-two
// query, Hebbian edge refresh, error accumulation, winner/neighbour move,
// edge ageing); they differ only in when and how nodes are inserted or
// removed, which is why TargetRunner wraps a *GNG rather than
// reimplementing the substrate.
package gng

import (
	"errors"

	"github.com/vpgrid/ngng/ngngerrors"
	"github.com/vpgrid/ngng/nn"
	"github.com/vpgrid/ngng/vector"
)

// ErrNoSample indicates a Config has no Sample source configured.
var ErrNoSample = errors.New("gng: sample source is required")

// SampleSource draws one input signal. Spec §6: the returned vector is
// valid only until the next call — Step fully consumes it (queries,
// accumulates error, clones it into any new node) before drawing again.
type SampleSource func() vector.Vector

// Callbacks are the three hooks spec §6 grants the caller: a termination
// predicate polled every step, a progress callback polled every
// CallbackPeriod steps, and an optional seeding hook.
type Callbacks struct {
	// Terminate is consulted once per step; Run stops when it returns true.
	// Nil means "never terminate on its own" — the caller must call Step
	// directly instead of Run.
	Terminate func() bool

	// Progress is called every CallbackPeriod steps, if non-nil.
	Progress func(step int)

	// Init seeds the network with two starting nodes. If nil, or if it
	// returns ok=false, New draws two samples from Sample instead.
	Init func() (n1, n2 vector.Vector, ok bool)
}

// Config tunes a GNG run. The zero value is not ready for use; build one
// with DefaultConfig and the With* options.
type Config struct {
	Dim int

	// Lambda is the insert-node epoch period: every Lambda steps, the
	// node with highest error grows a neighbour.
	Lambda int
	// Eb is the winner's learning rate.
	Eb float64
	// En is a winner-neighbour's learning rate.
	En float64
	// Alpha scales q's and f's error down when a node is inserted between
	// them.
	Alpha float64
	// Beta is the global per-step error decay factor.
	Beta float64
	// AgeMax is the oldest an edge may get before it is pruned.
	AgeMax int

	// CallbackPeriod is how often Callbacks.Progress fires; 0 means never.
	CallbackPeriod int

	// DistanceFunc measures node-to-sample distance. Defaults to
	// vector.Euclidean (accumulated as its square, per spec §4.7 step 4).
	DistanceFunc vector.DistanceFunc

	// Sample is the input signal source. Required.
	Sample SampleSource

	// Callbacks holds the termination/progress/init hooks.
	Callbacks Callbacks

	// NN selects and configures the nearest-neighbour backend the net's
	// nodes are queried through. If NN.Dim is left zero, it defaults to a
	// plain linear-scan backend (always valid, no AABB required); Dim is
	// always overwritten with the Config's own Dim.
	NN nn.Config
}

// Option mutates a Config under construction.
type Option func(*Config)

// DefaultConfig returns a Config for the given dimension with the
// original GNG paper's defaults for Lambda/Eb/En/Beta/AgeMax. Alpha
// defaults to 0.5, the value used throughout spec.md's worked convergence
// scenario (§8 scenario 4) rather than the reference implementation's
// compiled-in 0.95 — DESIGN.md records this as a deliberate choice, not
// an oversight.
func DefaultConfig(dim int) Config {
	return Config{
		Dim:          dim,
		Lambda:       200,
		Eb:           0.05,
		En:           0.0006,
		Alpha:        0.5,
		Beta:         0.9995,
		AgeMax:       200,
		DistanceFunc: vector.Euclidean,
	}
}

// WithLambda overrides the insert-node epoch period. Panics if n is not
// positive.
func WithLambda(n int) Option {
	if n <= 0 {
		panic("gng: lambda must be positive")
	}
	return func(c *Config) { c.Lambda = n }
}

// WithLearningRates overrides the winner and neighbour learning rates.
// Panics if either is negative.
func WithLearningRates(eb, en float64) Option {
	if eb < 0 || en < 0 {
		panic("gng: learning rates must be non-negative")
	}
	return func(c *Config) { c.Eb, c.En = eb, en }
}

// WithAlpha overrides the insertion error-decay factor. Panics if alpha is
// outside [0, 1].
func WithAlpha(alpha float64) Option {
	if alpha < 0 || alpha > 1 {
		panic("gng: alpha must be in [0, 1]")
	}
	return func(c *Config) { c.Alpha = alpha }
}

// WithBeta overrides the global per-step error decay factor. Panics if
// beta is outside [0, 1].
func WithBeta(beta float64) Option {
	if beta < 0 || beta > 1 {
		panic("gng: beta must be in [0, 1]")
	}
	return func(c *Config) { c.Beta = beta }
}

// WithAgeMax overrides the maximum edge age. Panics if n is negative.
func WithAgeMax(n int) Option {
	if n < 0 {
		panic("gng: age max must be non-negative")
	}
	return func(c *Config) { c.AgeMax = n }
}

// WithCallbackPeriod sets how often Callbacks.Progress fires. Panics if n
// is negative.
func WithCallbackPeriod(n int) Option {
	if n < 0 {
		panic("gng: callback period must be non-negative")
	}
	return func(c *Config) { c.CallbackPeriod = n }
}

// WithDistanceFunc overrides the default Euclidean distance.
func WithDistanceFunc(f vector.DistanceFunc) Option {
	return func(c *Config) { c.DistanceFunc = f }
}

// WithSample sets the input signal source.
func WithSample(s SampleSource) Option {
	return func(c *Config) { c.Sample = s }
}

// WithCallbacks sets the termination/progress/init hooks.
func WithCallbacks(cb Callbacks) Option {
	return func(c *Config) { c.Callbacks = cb }
}

// WithNN selects and configures the nearest-neighbour backend.
func WithNN(nc nn.Config) Option {
	return func(c *Config) { c.NN = nc }
}

func (c *Config) validate() error {
	if c.Dim <= 0 {
		return ngngerrors.ErrInvalidConfig
	}
	if c.Sample == nil {
		return ErrNoSample
	}
	if c.DistanceFunc == nil {
		c.DistanceFunc = vector.Euclidean
	}
	if c.Lambda <= 0 {
		c.Lambda = 200
	}
	if c.NN.Dim == 0 {
		c.NN = nn.Config{Backend: nn.BackendLinear, Dim: c.Dim}
	} else {
		c.NN.Dim = c.Dim
	}
	return nil
}
