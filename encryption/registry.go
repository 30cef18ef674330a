package encryption

import (
	"reflect"
	"sync"
	"sync/atomic"

	apperrors "github.com/shhhinnovations/cryptokit/errors"
	"github.com/shhhinnovations/cryptokit/logger"
)

// Registry holds the active Cryptographer. It is itself a Cryptographer that
// delegates every call to whatever strategy is current at call time.
//
// The zero value is ready to use and lazily installs Passthrough on first
// access. Concurrent first callers observe the same instance.
type Registry struct {
	mu     sync.Mutex
	active atomic.Pointer[slot]
	log    *logger.Logger
}

// slot boxes the interface value so it can live behind an atomic.Pointer.
type slot struct {
	c Cryptographer
}

var _ Cryptographer = (*Registry)(nil)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used to report strategy swaps.
func WithRegistryLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates a Registry whose active strategy is initial, or
// Passthrough when initial is nil.
func NewRegistry(initial Cryptographer, opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if !isNil(initial) {
		r.active.Store(&slot{c: initial})
	}
	return r
}

// Current returns the active strategy, installing Passthrough exactly once
// if none has been set.
func (r *Registry) Current() Cryptographer {
	if s := r.active.Load(); s != nil {
		return s.c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.active.Load(); s != nil {
		return s.c
	}
	s := &slot{c: Passthrough{}}
	r.active.Store(s)
	return s.c
}

// Set replaces the active strategy for all subsequent calls. Calls already
// in flight finish on the strategy they started with.
func (r *Registry) Set(c Cryptographer) error {
	if isNil(c) {
		return apperrors.InvalidArgument("cryptographer", "must not be nil")
	}

	r.mu.Lock()
	r.active.Store(&slot{c: c})
	r.mu.Unlock()

	r.logger().Info("cryptographer replaced", logger.Fields(logger.FieldAlgorithm, Name(c)))
	return nil
}

// Encrypt encrypts with the current strategy.
func (r *Registry) Encrypt(salt, plaintext string) (string, error) {
	return r.Current().Encrypt(salt, plaintext)
}

// Decrypt decrypts with the current strategy.
func (r *Registry) Decrypt(salt, ciphertext string) (string, error) {
	return r.Current().Decrypt(salt, ciphertext)
}

// isNil reports whether c is nil or an interface holding a nil pointer,
// map, slice, func or chan.
func isNil(c Cryptographer) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (r *Registry) logger() *logger.Logger {
	if r.log != nil {
		return r.log
	}
	return logger.Get("encryption")
}

// --- Process-wide default registry ---

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(nil)
	})
	return defaultRegistry
}

// Current returns the active strategy of the default registry.
func Current() Cryptographer {
	return Default().Current()
}

// SetCryptographer replaces the active strategy of the default registry.
func SetCryptographer(c Cryptographer) error {
	return Default().Set(c)
}
