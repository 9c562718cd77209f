package binding

import (
	"errors"
	"reflect"
)

// Sentinel errors for store construction.
var (
	// ErrUnknownStrategy indicates a strategy name that no store implements.
	ErrUnknownStrategy = errors.New("unknown binding strategy")

	// ErrKeyNotIdentity indicates a key type (or dynamic key value) that has
	// no identity to compare, such as a string or a struct.
	ErrKeyNotIdentity = errors.New("key has no identity")
)

// ErrKeyNotComparable indicates an interface key whose dynamic value, such
// as a slice or a map, cannot be compared.
var ErrKeyNotComparable = errors.New("binding key is not comparable")

// Sentinel errors for Put.
var (
	// ErrNilKey indicates Put was called with a nil key.
	ErrNilKey = errors.New("binding key cannot be nil")

	// ErrNilValue indicates Put was called with a nil value.
	// A nil value is rejected so it can never be mistaken for an absent key.
	ErrNilValue = errors.New("binding value cannot be nil")
)

// checkBinding validates a key/value pair before it is stored.
func checkBinding[K comparable, V any](key K, value V) error {
	if isNil(key) {
		return ErrNilKey
	}
	if isNil(value) {
		return ErrNilValue
	}
	return nil
}

// isNil reports whether v is a nil interface or a nil reference value.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// keysMayPanic reports whether comparing two K values can panic at run time.
// That is the case when K is or contains an interface type.
func keysMayPanic[K comparable]() bool {
	return mayPanicOnCompare(reflect.TypeFor[K]())
}

func mayPanicOnCompare(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Array:
		return mayPanicOnCompare(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if mayPanicOnCompare(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// comparableKey reports whether key can be hashed and compared.
func comparableKey(key any) bool {
	return reflect.ValueOf(key).Comparable()
}
