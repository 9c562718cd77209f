package registry

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/randalmurphal/servicebinding/pkg/binding/observability"
)

// Binder writes bindings during a Configure call.
// A Binder is only valid until the configure function returns.
type Binder[K comparable, V any] struct {
	r     *Registry[K, V]
	ctx   context.Context
	bound int
	done  atomic.Bool
}

// Bind binds key to value. Binding the same key again replaces the value.
func (b *Binder[K, V]) Bind(key K, value V) error {
	if b.done.Load() {
		return ErrConfigurationFinished
	}
	if err := b.r.bindLocked(b.ctx, key, value); err != nil {
		return err
	}
	b.bound++
	return nil
}

// Get returns a value bound earlier, in this or a previous configuration.
func (b *Binder[K, V]) Get(key K) (V, bool) {
	return b.r.store.Get(key)
}

// Context returns the context passed to Configure.
func (b *Binder[K, V]) Context() context.Context {
	return b.ctx
}

// Configure runs fn as one configuration phase.
//
// Writes from other goroutines wait until fn returns. Readers are never
// blocked and observe each binding as soon as Bind returns. If fn fails,
// bindings it already made stay in place. A panic in fn is returned as a
// *PanicError.
func (r *Registry[K, V]) Configure(ctx context.Context, fn func(*Binder[K, V]) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return ErrRegistryClosed
	}

	ctx, span := r.spans.StartConfigureSpan(ctx, r.id, r.strategy)
	elapsed := observability.TimedOperation()
	observability.LogConfigureStart(r.logger, r.store.Len())

	b := &Binder[K, V]{r: r, ctx: ctx}
	err := runConfigure(fn, b)

	if err != nil {
		err = fmt.Errorf("configure registry: %w", err)
		observability.LogConfigureError(r.logger, err, b.bound, elapsed())
		r.spans.EndSpanWithError(span, err)
		return err
	}

	observability.LogConfigureComplete(r.logger, b.bound, r.store.Len(), elapsed())
	r.spans.EndSpanWithError(span, nil)
	return nil
}

// runConfigure calls fn and retires b once fn returns or panics.
func runConfigure[K comparable, V any](fn func(*Binder[K, V]) error, b *Binder[K, V]) (err error) {
	defer func() {
		b.done.Store(true)
		if p := recover(); p != nil {
			err = &PanicError{Value: p}
		}
	}()
	return fn(b)
}
