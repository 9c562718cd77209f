package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/servicebinding/pkg/binding"
	"github.com/randalmurphal/servicebinding/pkg/binding/config"
	"github.com/randalmurphal/servicebinding/pkg/binding/observability"
)

// Stopper is implemented by services that need to release resources when
// their registry shuts down.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Registry owns a binding store for the lifetime of an application.
//
// Reads go straight to the store: they never lock and never wait for a
// writer. Writes are serialized by the registry, which is what the
// swap-on-write stores require of their callers.
type Registry[K comparable, V any] struct {
	id       string
	name     string
	strategy string
	store    binding.Store[K, V]

	// mu serializes every write to store and guards order.
	mu     sync.Mutex
	order  []K // keys in first-bind order, for shutdown
	closed atomic.Bool

	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	lookupMetrics bool
	spans         observability.SpanManager
}

// New creates an empty registry.
// Returns binding.ErrUnknownStrategy or binding.ErrKeyNotIdentity if the
// selected strategy cannot serve K.
func New[K comparable, V any](opts ...Option) (*Registry[K, V], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	store, err := binding.New[K, V](o.strategy)
	if err != nil {
		return nil, fmt.Errorf("create registry: %w", err)
	}

	id := uuid.New().String()
	logger := observability.EnrichLogger(o.logger, id, string(o.strategy))
	if logger != nil && o.name != "" {
		logger = logger.With(slog.String("registry", o.name))
	}

	return &Registry[K, V]{
		id:            id,
		name:          o.name,
		strategy:      string(o.strategy),
		store:         store,
		logger:        logger,
		metrics:       o.metrics,
		lookupMetrics: o.lookupMetrics,
		spans:         o.spans,
	}, nil
}

// NewFromConfig validates cfg and creates a registry from it.
// Logs go to handler, filtered at cfg's level; a nil handler disables
// logging. opts are applied after the configuration.
func NewFromConfig[K comparable, V any](cfg config.Registry, handler slog.Handler, opts ...Option) (*Registry[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("create registry: %w", err)
	}
	base := FromConfig(cfg, handler)
	if handler == nil {
		base = append(base, WithLogger(nil))
	}
	return New[K, V](append(base, opts...)...)
}

// ID returns the unique registry identifier.
func (r *Registry[K, V]) ID() string {
	return r.id
}

// Name returns the configured registry name.
func (r *Registry[K, V]) Name() string {
	return r.name
}

// Strategy returns the strategy backing the registry's store.
func (r *Registry[K, V]) Strategy() binding.Strategy {
	return r.store.Strategy()
}

// Closed reports whether Close has been called.
func (r *Registry[K, V]) Closed() bool {
	return r.closed.Load()
}

// Register adds or updates a value in the registry.
func (r *Registry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return ErrRegistryClosed
	}
	return r.bindLocked(context.Background(), key, value)
}

// RegisterMany adds multiple entries to the registry.
// It stops at the first entry that fails; entries bound before it remain.
func (r *Registry[K, V]) RegisterMany(entries map[K]V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return ErrRegistryClosed
	}
	for k, v := range entries {
		if err := r.bindLocked(context.Background(), k, v); err != nil {
			return err
		}
	}
	return nil
}

// bindLocked writes one binding. r.mu must be held.
func (r *Registry[K, V]) bindLocked(ctx context.Context, key K, value V) error {
	_, existed := r.store.Get(key)
	if err := r.store.Put(key, value); err != nil {
		return &BindingError{Key: key, Op: "bind", Err: err}
	}
	if !existed {
		r.order = append(r.order, key)
	}

	observability.LogBind(r.logger, key)
	r.metrics.RecordBind(ctx, r.strategy, r.store.Len())
	return nil
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	v, ok := r.store.Get(key)
	if r.lookupMetrics {
		r.metrics.RecordLookup(context.Background(), r.strategy, ok)
	}
	return v, ok
}

// MustGet returns the value for a key, panicking if not found.
func (r *Registry[K, V]) MustGet(key K) V {
	v, ok := r.Get(key)
	if !ok {
		panic("registry: key not found")
	}
	return v
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns all keys in the registry.
// The order is not guaranteed.
func (r *Registry[K, V]) Keys() []K {
	keys := make([]K, 0, r.store.Len())
	for k := range r.store.All() {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	return r.store.Len()
}

// Values returns a lazy sequence over the bound values.
// Consistency follows the strategy: one snapshot for the swap strategies,
// a weakly consistent view for binding.StrategyConcurrent.
func (r *Registry[K, V]) Values() iter.Seq[V] {
	return r.store.Values()
}

// Range iterates over all entries in the registry.
// The function fn is called for each entry. If fn returns false,
// iteration stops.
//
// It is safe to call Register from fn. With the swap strategies Range
// walks the snapshot that was current when it started, so such writes
// are not visited.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	for k, v := range r.store.All() {
		if !fn(k, v) {
			return
		}
	}
}

// GetOrCreate returns the value for a key, creating it with the factory
// function if it doesn't exist. The factory is called at most once per key,
// even under concurrent access.
//
// The factory runs while the registry's write lock is held. It may read from
// the registry but must not write to it.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() (V, error)) (V, error) {
	// Fast path: no lock
	if v, ok := r.store.Get(key); ok {
		return v, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var zero V
	if r.closed.Load() {
		return zero, ErrRegistryClosed
	}

	// Double-check after acquiring the write lock
	if v, ok := r.store.Get(key); ok {
		return v, nil
	}

	v, err := factory()
	if err != nil {
		return zero, &BindingError{Key: key, Op: "create", Err: err}
	}
	if err := r.bindLocked(context.Background(), key, v); err != nil {
		return zero, err
	}
	return v, nil
}

// Reset removes every binding without stopping the bound services.
// The registry stays open.
func (r *Registry[K, V]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := r.store.Len()
	r.store.Clear()
	r.order = nil
	observability.LogReset(r.logger, dropped)
}

// Close shuts the registry down.
//
// Bound values implementing Stopper or io.Closer are stopped in reverse
// binding order; a value bound under several keys is stopped once. The
// store is then cleared and further writes fail with ErrRegistryClosed.
// Stop failures do not interrupt shutdown: they are returned together,
// each wrapped in a *BindingError. Calling Close again is a no-op.
func (r *Registry[K, V]) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return nil
	}
	r.closed.Store(true)

	ctx, span := r.spans.StartShutdownSpan(ctx, r.id)
	start := time.Now()

	var errs []error
	stopped := 0
	seen := make(map[uintptr]struct{})
	for i := len(r.order) - 1; i >= 0; i-- {
		key := r.order[i]
		v, ok := r.store.Get(key)
		if !ok {
			continue
		}
		if addr, ok := addressOf(v); ok {
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
		}

		didStop, err := stopValue(ctx, v)
		if err != nil {
			observability.LogStopError(r.logger, key, err)
			errs = append(errs, &BindingError{Key: key, Op: "stop", Err: err})
			continue
		}
		if didStop {
			stopped++
			r.spans.AddSpanEvent(ctx, "service stopped",
				attribute.String("key", observability.KeyString(key)))
		}
	}

	r.store.Clear()
	r.order = nil

	err := errors.Join(errs...)
	duration := time.Since(start)
	r.metrics.RecordShutdown(ctx, r.strategy, duration, len(errs))
	observability.LogShutdown(r.logger, stopped, len(errs), float64(duration.Microseconds())/1000)
	r.spans.EndSpanWithError(span, err)
	return err
}

// stopValue stops v if it implements Stopper or io.Closer.
// A panic inside Stop or Close is returned as a *PanicError.
func stopValue(ctx context.Context, v any) (stopped bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			stopped, err = false, &PanicError{Value: p}
		}
	}()

	switch s := v.(type) {
	case Stopper:
		return true, s.Stop(ctx)
	case io.Closer:
		return true, s.Close()
	}
	return false, nil
}

// addressOf returns the address of a pointer value.
func addressOf(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, false
	}
	return rv.Pointer(), true
}
