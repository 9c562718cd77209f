package binding

import (
	"fmt"
	"iter"
	"sync/atomic"
)

// snapshot is an immutable key to value mapping.
// Its map is never written after the snapshot is published.
type snapshot[K comparable, V any] struct {
	entries map[K]V
}

// SnapshotStore is a swap-on-write Store for read-heavy workloads.
//
// Every Put copies the current snapshot, applies the change to the copy and
// publishes it with a single atomic store. Get, Values, All and Len take a
// single atomic load and then work on an immutable map, so readers never
// lock and never observe a partially built mapping.
//
// Put and Clear must be serialized by the caller. Two unsynchronized writers
// do not corrupt the store, but one of their updates may be lost.
type SnapshotStore[K comparable, V any] struct {
	current   atomic.Pointer[snapshot[K, V]]
	empty     *snapshot[K, V]
	checkKeys bool
}

// Compile-time interface check.
var _ Store[string, any] = (*SnapshotStore[string, any])(nil)

// NewSnapshotStore creates an empty SnapshotStore.
func NewSnapshotStore[K comparable, V any]() *SnapshotStore[K, V] {
	s := &SnapshotStore[K, V]{
		empty:     &snapshot[K, V]{entries: map[K]V{}},
		checkKeys: keysMayPanic[K](),
	}
	s.current.Store(s.empty)
	return s
}

// Put implements Store.
// The cost is proportional to the number of bindings.
func (s *SnapshotStore[K, V]) Put(key K, value V) error {
	if err := checkBinding(key, value); err != nil {
		return err
	}
	if s.checkKeys && !comparableKey(key) {
		return fmt.Errorf("%w: %T", ErrKeyNotComparable, key)
	}

	old := s.current.Load()
	entries := make(map[K]V, len(old.entries)+1)
	for k, v := range old.entries {
		entries[k] = v
	}
	entries[key] = value

	s.current.Store(&snapshot[K, V]{entries: entries})
	return nil
}

// Get implements Store.
// A key that is not comparable is never bound.
func (s *SnapshotStore[K, V]) Get(key K) (V, bool) {
	if s.checkKeys && !comparableKey(key) {
		var zero V
		return zero, false
	}
	v, ok := s.current.Load().entries[key]
	return v, ok
}

// Values implements Store.
// The snapshot is captured when Values is called; every pass over the
// returned sequence yields the same bindings.
func (s *SnapshotStore[K, V]) Values() iter.Seq[V] {
	snap := s.current.Load()
	return func(yield func(V) bool) {
		for _, v := range snap.entries {
			if !yield(v) {
				return
			}
		}
	}
}

// All implements Store.
// Like Values, it walks the snapshot that was current when All was called.
func (s *SnapshotStore[K, V]) All() iter.Seq2[K, V] {
	snap := s.current.Load()
	return func(yield func(K, V) bool) {
		for k, v := range snap.entries {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Len implements Store.
func (s *SnapshotStore[K, V]) Len() int {
	return len(s.current.Load().entries)
}

// Clear implements Store.
// It publishes the shared empty snapshot without copying anything.
func (s *SnapshotStore[K, V]) Clear() {
	s.current.Store(s.empty)
}

// Strategy implements Store.
func (s *SnapshotStore[K, V]) Strategy() Strategy {
	return StrategySnapshot
}
