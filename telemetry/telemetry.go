// Package telemetry is a thin structured-logging wrapper around zerolog,
// used by the index and client packages for the handful of diagnostics the
// spec calls for: the one-time IndexOutOfRange warning in gug and the
// DegenerateVPSplit warning in vptree. The GNG/GNG-T/Kohonen progress
// callbacks call the user's function directly and do not log. It never logs on the hot path of a query or a step; only on
// the edges the spec explicitly names.
package telemetry

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// base is the process-wide zerolog logger. Component loggers derive from it
// with a "component" field, mirroring the teacher pack's
// log.With().Str("component", ...).Logger() idiom.
var base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).With().Timestamp().Logger()

// Logger returns a component-scoped logger.
func Logger(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// Once warns a single time per key and is silent on every subsequent call
// with that key, whichever logger is passed. It backs the spec's "producers are warned once per
// instance" requirement for IndexOutOfRange.
type Once struct {
	mu   sync.Mutex
	seen map[string]bool
}

// Warn logs msg at warn level the first time it is called for key, and is a
// no-op afterwards.
func (o *Once) Warn(log zerolog.Logger, key, msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seen == nil {
		o.seen = make(map[string]bool)
	}
	if o.seen[key] {
		return
	}
	o.seen[key] = true
	log.Warn().Str("key", key).Msg(msg)
}
