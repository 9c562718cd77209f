package binding

import (
	"fmt"
	"iter"
	"reflect"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
)

// IdentityStore is a swap-on-write Store that compares keys by identity.
//
// Two keys occupy the same slot only when they refer to the same object.
// Value-equal keys that are distinct allocations are bound independently.
// Keys must be pointers, channels, unsafe pointers, or an interface type
// whose dynamic values are one of those. reflect.Type qualifies: its values
// are interned type descriptors.
//
// Pointers to distinct zero-size values may share an address and therefore
// an identity.
//
// Snapshots are persistent hash maps. Put derives a new snapshot from the
// current one and publishes it atomically; readers take a single atomic load
// and never lock. Put and Clear must be serialized by the caller, as with
// SnapshotStore.
type IdentityStore[K comparable, V any] struct {
	current atomic.Pointer[immutable.Map[K, V]]
	empty   *immutable.Map[K, V]
}

// Compile-time interface check.
var _ Store[reflect.Type, any] = (*IdentityStore[reflect.Type, any])(nil)

// NewIdentityStore creates an empty IdentityStore.
// Returns ErrKeyNotIdentity if K cannot carry an identity.
func NewIdentityStore[K comparable, V any]() (*IdentityStore[K, V], error) {
	kt := reflect.TypeFor[K]()
	switch kt.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Interface:
	default:
		return nil, fmt.Errorf("%w: %s", ErrKeyNotIdentity, kt)
	}

	s := &IdentityStore[K, V]{
		empty: immutable.NewMap[K, V](identityHasher[K]{}),
	}
	s.current.Store(s.empty)
	return s, nil
}

// Put implements Store.
// Returns ErrKeyNotIdentity if an interface key holds a value without identity.
func (s *IdentityStore[K, V]) Put(key K, value V) error {
	if err := checkBinding(key, value); err != nil {
		return err
	}
	if _, ok := identityOf(key); !ok {
		return fmt.Errorf("%w: %T", ErrKeyNotIdentity, key)
	}

	s.current.Store(s.current.Load().Set(key, value))
	return nil
}

// Get implements Store.
func (s *IdentityStore[K, V]) Get(key K) (V, bool) {
	return s.current.Load().Get(key)
}

// Values implements Store.
// The snapshot is captured when Values is called.
func (s *IdentityStore[K, V]) Values() iter.Seq[V] {
	snap := s.current.Load()
	return func(yield func(V) bool) {
		itr := snap.Iterator()
		for !itr.Done() {
			_, v, ok := itr.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// All implements Store.
// The snapshot is captured when All is called.
func (s *IdentityStore[K, V]) All() iter.Seq2[K, V] {
	snap := s.current.Load()
	return func(yield func(K, V) bool) {
		itr := snap.Iterator()
		for !itr.Done() {
			k, v, ok := itr.Next()
			if !ok || !yield(k, v) {
				return
			}
		}
	}
}

// Len implements Store.
func (s *IdentityStore[K, V]) Len() int {
	return s.current.Load().Len()
}

// Clear implements Store.
func (s *IdentityStore[K, V]) Clear() {
	s.current.Store(s.empty)
}

// Strategy implements Store.
func (s *IdentityStore[K, V]) Strategy() Strategy {
	return StrategyIdentity
}

// identityHasher hashes keys by the address they refer to.
type identityHasher[K comparable] struct{}

// Hash implements immutable.Hasher.
func (identityHasher[K]) Hash(key K) uint32 {
	addr, _ := identityOf(key)
	// Fibonacci hashing spreads aligned addresses across the hash space.
	h := uint64(addr) * 0x9E3779B97F4A7C15
	return uint32(h >> 32)
}

// Equal implements immutable.Hasher.
// For reference kinds == compares addresses, never pointee values.
func (identityHasher[K]) Equal(a, b K) bool {
	return a == b
}

// identityOf returns the address a key refers to.
// ok is false for nil keys and for keys without identity.
func identityOf[K comparable](key K) (addr uintptr, ok bool) {
	rv := reflect.ValueOf(key)
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}
