package binding

import (
	"fmt"
	"iter"

	"github.com/puzpuzpuz/xsync/v3"
)

// ConcurrentStore is a Store backed by a concurrent hash table.
//
// Bindings are mutated in place: Put is amortized O(1) and never copies
// existing bindings. Every method is safe for concurrent use without
// external synchronization. Reads are lock-free; writes lock a single
// bucket.
//
// Values and All iterate the live table and are weakly consistent: they do
// not panic under concurrent writes but may or may not reflect them.
type ConcurrentStore[K comparable, V any] struct {
	table     *xsync.MapOf[K, V]
	checkKeys bool
}

// Compile-time interface check.
var _ Store[string, any] = (*ConcurrentStore[string, any])(nil)

// NewConcurrentStore creates an empty ConcurrentStore.
func NewConcurrentStore[K comparable, V any]() *ConcurrentStore[K, V] {
	return &ConcurrentStore[K, V]{
		table:     xsync.NewMapOf[K, V](),
		checkKeys: keysMayPanic[K](),
	}
}

// Put implements Store.
func (s *ConcurrentStore[K, V]) Put(key K, value V) error {
	if err := checkBinding(key, value); err != nil {
		return err
	}
	if s.checkKeys && !comparableKey(key) {
		return fmt.Errorf("%w: %T", ErrKeyNotComparable, key)
	}
	s.table.Store(key, value)
	return nil
}

// Get implements Store.
// A key that is not comparable is never bound.
func (s *ConcurrentStore[K, V]) Get(key K) (V, bool) {
	if s.checkKeys && !comparableKey(key) {
		var zero V
		return zero, false
	}
	return s.table.Load(key)
}

// Values implements Store.
func (s *ConcurrentStore[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		s.table.Range(func(_ K, v V) bool {
			return yield(v)
		})
	}
}

// All implements Store.
func (s *ConcurrentStore[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		s.table.Range(yield)
	}
}

// Len implements Store.
func (s *ConcurrentStore[K, V]) Len() int {
	return s.table.Size()
}

// Clear implements Store.
func (s *ConcurrentStore[K, V]) Clear() {
	s.table.Clear()
}

// Strategy implements Store.
func (s *ConcurrentStore[K, V]) Strategy() Strategy {
	return StrategyConcurrent
}
