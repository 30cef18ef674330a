package bootstrap

import (
	"time"

	"github.com/shhhinnovations/cryptokit/encryption"
	"github.com/shhhinnovations/cryptokit/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	registry        *encryption.Registry
	gracefulTimeout *time.Duration
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, the global logger is
// initialized from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}

// WithRegistry installs the cryptographer into r instead of the
// process-wide encryption.Default registry.
func WithRegistry(r *encryption.Registry) Option {
	return func(o *appOptions) { o.registry = r }
}
