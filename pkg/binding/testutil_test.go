package binding

import (
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test key and value types shared across tests.

// serviceKey stands in for a service interface descriptor.
// Tests intern one pointer per name so every strategy sees the same keys.
type serviceKey struct {
	name string
}

// service stands in for a service implementation.
type service struct {
	name string
}

// newKeys returns n interned keys named key-00, key-01, ...
func newKeys(n int) []*serviceKey {
	keys := make([]*serviceKey, n)
	for i := range keys {
		keys[i] = &serviceKey{name: fmt.Sprintf("key-%02d", i)}
	}
	return keys
}

// storeCase is one strategy under test.
type storeCase[K comparable, V any] struct {
	strategy Strategy
	newStore func(t *testing.T) Store[K, V]
}

// allStrategies returns a constructor for every strategy.
func allStrategies[K comparable, V any]() []storeCase[K, V] {
	cases := make([]storeCase[K, V], 0, len(Strategies()))
	for _, s := range Strategies() {
		cases = append(cases, storeCase[K, V]{
			strategy: s,
			newStore: func(t *testing.T) Store[K, V] {
				t.Helper()
				store, err := New[K, V](s)
				require.NoError(t, err)
				return store
			},
		})
	}
	return cases
}

// swapStrategies returns constructors for the swap-on-write strategies only.
func swapStrategies[K comparable, V any]() []storeCase[K, V] {
	var cases []storeCase[K, V]
	for _, c := range allStrategies[K, V]() {
		if c.strategy != StrategyConcurrent {
			cases = append(cases, c)
		}
	}
	return cases
}

// collectValues drains a store's Values sequence.
func collectValues[K comparable, V any](s Store[K, V]) []V {
	return slices.Collect(s.Values())
}

// collectAll drains a store's All sequence into a map.
func collectAll[K comparable, V any](s Store[K, V]) map[K]V {
	return maps.Collect(s.All())
}
