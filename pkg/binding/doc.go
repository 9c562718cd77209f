/*
Package binding provides concurrent key-value stores for binding service
identities to their implementations.

# Overview

A service registry binds a small, fixed set of keys during configuration
and then resolves them for the rest of the process lifetime. Lookups are on
the hot path; writes are not. Store captures that workload behind one
interface with three interchangeable strategies:

  - SnapshotStore: swap-on-write over an immutable Go map. Readers take one
    atomic load and never lock. Each write copies the whole map.
  - IdentityStore: swap-on-write over a persistent hash map that compares
    keys by identity. Suited to interned keys such as reflect.Type.
  - ConcurrentStore: a concurrent hash table mutated in place. Safe for any
    number of concurrent writers.

# Basic Usage

	store, err := binding.New[string, int](binding.StrategySnapshot)
	if err != nil {
	    log.Fatal(err)
	}

	_ = store.Put("A", 1)
	_ = store.Put("B", 2)
	_ = store.Put("A", 3)

	v, ok := store.Get("A") // 3, true
	_, ok = store.Get("C")  // false

	for v := range store.Values() {
	    fmt.Println(v) // 3 and 2, in any order
	}

# Writers

SnapshotStore and IdentityStore require Put and Clear to be serialized by
the caller. Readers may run concurrently with each other and with the single
writer, and always observe either the snapshot before a write or the one
after it. Unsynchronized writers never corrupt a snapshot but may lose an
update. The registry package serializes writes for you.

ConcurrentStore needs no writer discipline.

# Nil Keys and Values

Put rejects nil keys with ErrNilKey and nil values with ErrNilValue in every
strategy, so a missing binding is always reported by Get's boolean and never
by a stored nil.
*/
package binding
