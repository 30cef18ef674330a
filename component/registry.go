package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shhhinnovations/cryptokit/logger"
)

const defaultStopTimeout = 10 * time.Second

// componentEntry holds a component and its started state.
type componentEntry struct {
	component Component
	started   bool
}

// Registry manages component lifecycle with deterministic ordering.
// Components are started in registration order and stopped in reverse order.
type Registry struct {
	entries []*componentEntry
	lookup  map[string]*componentEntry
	mu      sync.RWMutex
	log     *logger.Logger
}

// NewRegistry creates a component registry that logs through log. A nil
// log uses the global logger.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Get("component")
	}
	return &Registry{
		entries: make([]*componentEntry, 0),
		lookup:  make(map[string]*componentEntry),
		log:     log,
	}
}

// Register adds a component. Register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}

	entry := &componentEntry{component: c}
	r.entries = append(r.entries, entry)
	r.lookup[name] = entry

	r.log.Debug("component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts all components in registration order and stops at the
// first failure. Components started before the failure stay started; call
// StopAll to release them.
func (r *Registry) StartAll(ctx context.Context) error {
	entries := r.snapshot()
	for _, entry := range entries {
		name := entry.component.Name()
		if err := entry.component.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
			))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		r.setStarted(entry, true)
		r.log.Debug("component started", logger.Fields(logger.FieldComponent, name))
	}

	r.log.Info("components started", logger.Fields("count", len(entries)))
	return nil
}

// StopAll stops started components in reverse registration order. Each
// component gets its own timeout. The registry lock is not held while a
// component stops, so health checks served during shutdown do not block.
func (r *Registry) StopAll(ctx context.Context) error {
	entries := r.snapshot()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if !r.isStarted(entry) {
			continue
		}

		name := entry.component.Name()
		stopCtx, cancel := context.WithTimeout(ctx, defaultStopTimeout)
		if err := entry.component.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			r.log.Error("component stop failed", logger.Fields(
				logger.FieldComponent, name,
				logger.FieldError, err.Error(),
			))
		} else {
			r.log.Debug("component stopped", logger.Fields(logger.FieldComponent, name))
		}
		r.setStarted(entry, false)
		cancel()
	}

	return errors.Join(errs...)
}

func (r *Registry) snapshot() []*componentEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*componentEntry(nil), r.entries...)
}

func (r *Registry) setStarted(e *componentEntry, started bool) {
	r.mu.Lock()
	e.started = started
	r.mu.Unlock()
}

func (r *Registry) isStarted(e *componentEntry) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return e.started
}

// HealthAll returns health status for all registered components.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	entries := r.snapshot()
	results := make([]Health, 0, len(entries))
	for _, entry := range entries {
		results = append(results, entry.component.Health(ctx))
	}
	return results
}

// Get returns a registered component by name, or nil if not found.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, exists := r.lookup[name]; exists {
		return entry.component
	}
	return nil
}
