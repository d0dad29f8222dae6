// Package config loads demonstration run parameters from the environment,
// in the same style as the reference vector-database's config package: a
// single struct, env-default tags, and a loader that fails fast on a
// malformed environment rather than limping along with half-applied
// settings. No other package in this module imports it, and the module
// contains no examples/ programs that call it.
package config

import (
	"github.com/caarlos0/env/v8"
)

// DemoConfig holds run parameters for a GNG/Kohonen demonstration run.
type DemoConfig struct {
	// Seed seeds the demo's RNG; 0 is a valid, deterministic seed.
	Seed int64 `env:"NGNG_SEED" envDefault:"1"`
	// Steps is the number of GNG/Kohonen training steps to run.
	Steps int `env:"NGNG_STEPS" envDefault:"20000"`
	// Lambda is the GNG insert-node period.
	Lambda int `env:"NGNG_LAMBDA" envDefault:"200"`
	// EB is the winner learning rate.
	EB float64 `env:"NGNG_EB" envDefault:"0.05"`
	// EN is the neighbour learning rate.
	EN float64 `env:"NGNG_EN" envDefault:"0.0006"`
	// Alpha is the error-halving factor applied on node insertion.
	Alpha float64 `env:"NGNG_ALPHA" envDefault:"0.5"`
	// Beta is the global per-step error decay factor.
	Beta float64 `env:"NGNG_BETA" envDefault:"0.9995"`
	// AgeMax is the maximum edge age before pruning.
	AgeMax int `env:"NGNG_AGE_MAX" envDefault:"200"`
}

// Load reads a DemoConfig from the environment, applying the struct's
// envDefault tags for anything unset. RequiredIfNoDef is left false: every
// field carries a default, so an empty environment is a valid environment.
func Load() (DemoConfig, error) {
	cfg := DemoConfig{}
	opts := env.Options{Prefix: ""}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return DemoConfig{}, err
	}
	return cfg, nil
}
