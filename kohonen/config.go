package kohonen

import (
	"errors"

	"github.com/vpgrid/ngng/nn"
	"github.com/vpgrid/ngng/vector"
)

// ErrNoSample indicates a Config has no Sample source configured.
var ErrNoSample = errors.New("kohonen: sample source is required")

// ErrNoNeighbourhood indicates a Config has no Neighbourhood function
// configured.
var ErrNoNeighbourhood = errors.New("kohonen: neighbourhood function is required")

// SampleSource draws one input signal, valid only until the next call.
type SampleSource func() vector.Vector

// Neighbourhood decides, for a node reached while expanding outward from
// winner by depth hops of net edges, whether it falls inside the current
// training neighbourhood and if so at what fraction of LearnRate it
// should move. Grounded in ferKohonenOps's neighborhood callback
// (src/kohonen.c): the BFS does not expand past a node this reports
// out of range.
type Neighbourhood func(winner, node NodeID, depth int) (inRange bool, rate float64)

// Callbacks are the hooks spec §6 grants the caller.
type Callbacks struct {
	// Terminate is consulted once per step; Run stops when it returns true.
	Terminate func() bool
	// Progress is called every CallbackPeriod steps, if non-nil.
	Progress func(step int)
}

// Config tunes a Kohonen map. The zero value is not ready for use; build
// one with DefaultConfig and the With* options.
type Config struct {
	Dim int

	// LearnRate is the winner's full move fraction; a neighbour at depth
	// d moves by LearnRate*rate, where rate comes from Neighbourhood.
	LearnRate float64

	// DistanceFunc measures node-to-sample distance for the winner query.
	// Defaults to vector.Euclidean.
	DistanceFunc vector.DistanceFunc

	// CallbackPeriod is how often Callbacks.Progress fires; 0 means never.
	CallbackPeriod int

	// Sample is the input signal source. Required.
	Sample SampleSource

	// Neighbourhood governs how far and how strongly a step's move
	// spreads outward from the winner. Required.
	Neighbourhood Neighbourhood

	// Callbacks holds the termination/progress hooks.
	Callbacks Callbacks

	// NN selects and configures the nearest-neighbour backend the
	// winner-search is answered through. If NN.Dim is left zero, it
	// defaults to a plain linear-scan backend; Dim is always overwritten
	// with the Config's own Dim.
	NN nn.Config
}

// Option mutates a Config under construction.
type Option func(*Config)

// DefaultConfig returns a Config for the given dimension with
// ferKohonenParamsInit's default LearnRate of 0.1.
func DefaultConfig(dim int) Config {
	return Config{
		Dim:          dim,
		LearnRate:    0.1,
		DistanceFunc: vector.Euclidean,
	}
}

// WithLearnRate overrides the winner's move fraction. Panics if rate is
// negative.
func WithLearnRate(rate float64) Option {
	if rate < 0 {
		panic("kohonen: learn rate must be non-negative")
	}
	return func(c *Config) { c.LearnRate = rate }
}

// WithDistanceFunc overrides the default Euclidean distance.
func WithDistanceFunc(f vector.DistanceFunc) Option {
	return func(c *Config) { c.DistanceFunc = f }
}

// WithCallbackPeriod sets how often Callbacks.Progress fires. Panics if n
// is negative.
func WithCallbackPeriod(n int) Option {
	if n < 0 {
		panic("kohonen: callback period must be non-negative")
	}
	return func(c *Config) { c.CallbackPeriod = n }
}

// WithSample sets the input signal source.
func WithSample(s SampleSource) Option {
	return func(c *Config) { c.Sample = s }
}

// WithNeighbourhood sets the BFS in-range/rate function.
func WithNeighbourhood(n Neighbourhood) Option {
	return func(c *Config) { c.Neighbourhood = n }
}

// WithCallbacks sets the termination/progress hooks.
func WithCallbacks(cb Callbacks) Option {
	return func(c *Config) { c.Callbacks = cb }
}

// WithNN selects and configures the nearest-neighbour backend.
func WithNN(nc nn.Config) Option {
	return func(c *Config) { c.NN = nc }
}

func (c *Config) validate() error {
	if c.Dim <= 0 {
		return errors.New("kohonen: dim must be positive")
	}
	if c.Sample == nil {
		return ErrNoSample
	}
	if c.Neighbourhood == nil {
		return ErrNoNeighbourhood
	}
	if c.DistanceFunc == nil {
		c.DistanceFunc = vector.Euclidean
	}
	if c.NN.Dim == 0 {
		c.NN = nn.Config{Backend: nn.BackendLinear, Dim: c.Dim}
	} else {
		c.NN.Dim = c.Dim
	}
	return nil
}
