package binding

import (
	"fmt"
	"iter"
	"strings"
)

// Store binds keys to values for a long-lived registry.
//
// All implementations share the same contract: Get never blocks and never
// fails for a missing key, Values and All never panic while writers run,
// and Clear returns the store to the empty state.
//
// K may be an interface type. Put then rejects keys whose dynamic value
// cannot be compared, such as slices and maps, and Get reports them absent.
//
// Whether Put and Clear may be called concurrently depends on the strategy.
// See SnapshotStore and IdentityStore for the writer precondition of the
// swap strategies.
type Store[K comparable, V any] interface {
	// Put inserts or replaces the binding for key. The last write wins.
	// Returns ErrNilKey or ErrNilValue for nil keys or values and
	// ErrKeyNotComparable for keys that cannot be compared.
	Put(key K, value V) error

	// Get returns the value bound to key and whether it exists.
	Get(key K) (V, bool)

	// Values returns a lazy sequence over the bound values.
	Values() iter.Seq[V]

	// All returns a lazy sequence over the bindings.
	All() iter.Seq2[K, V]

	// Len returns the number of bindings.
	Len() int

	// Clear removes every binding.
	Clear()

	// Strategy reports which strategy backs the store.
	Strategy() Strategy
}

// Strategy names a Store implementation.
type Strategy string

const (
	// StrategySnapshot copies the current map on every write and publishes
	// the copy atomically. Readers take a single atomic load.
	StrategySnapshot Strategy = "snapshot"

	// StrategyIdentity is StrategySnapshot with keys compared by identity.
	StrategyIdentity Strategy = "identity"

	// StrategyConcurrent uses a concurrent hash table mutated in place.
	StrategyConcurrent Strategy = "concurrent"
)

// Strategies lists every known strategy.
func Strategies() []Strategy {
	return []Strategy{StrategySnapshot, StrategyIdentity, StrategyConcurrent}
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy converts a strategy name into a Strategy.
// Matching is case-insensitive and an empty name selects StrategySnapshot.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategySnapshot:
		return StrategySnapshot, nil
	case StrategyIdentity:
		return StrategyIdentity, nil
	case StrategyConcurrent:
		return StrategyConcurrent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// New creates an empty store backed by the given strategy.
//
// Example:
//
//	store, err := binding.New[reflect.Type, any](binding.StrategyConcurrent)
//	if err != nil {
//	    return err
//	}
func New[K comparable, V any](s Strategy) (Store[K, V], error) {
	switch s {
	case StrategySnapshot:
		return NewSnapshotStore[K, V](), nil
	case StrategyIdentity:
		return NewIdentityStore[K, V]()
	case StrategyConcurrent:
		return NewConcurrentStore[K, V](), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
}
