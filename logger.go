package qstate

import (
	"time"

	"github.com/goliatone/go-querystate/render"
)

// DerivationEvent describes one Derive call for logging.
type DerivationEvent struct {
	Keys     []string
	Filters  int
	Sort     []string
	Page     int
	PageSize int
	Dialect  render.Dialect
	Duration time.Duration
	Err      error
}

// Logger records derivation events.
type Logger interface {
	LogDerivation(DerivationEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(DerivationEvent)

// LogDerivation implements Logger.
func (f LoggerFunc) LogDerivation(event DerivationEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogDerivation(DerivationEvent) {}

// WithLogger attaches a derivation logger to the Query.
func WithLogger(logger Logger) Option {
	return func(cfg *queryConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
