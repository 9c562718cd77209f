package registry

import (
	"fmt"
	"reflect"
)

// ServiceKey identifies a service by its type.
type ServiceKey = reflect.Type

// Services binds service interfaces to their implementations.
//
// Keys are the interned reflect.Type of the service, so the registry works
// with every strategy, including binding.StrategyIdentity.
type Services = Registry[ServiceKey, any]

// NewServices creates an empty service registry.
func NewServices(opts ...Option) (*Services, error) {
	return New[ServiceKey, any](opts...)
}

// serviceKey returns the key for service type S.
func serviceKey[S any]() ServiceKey {
	return reflect.TypeFor[S]()
}

// Bind binds impl as the implementation of service S.
//
// Example:
//
//	err := registry.Bind[Clock](services, systemClock{})
func Bind[S any](r *Services, impl S) error {
	return r.Register(serviceKey[S](), impl)
}

// BindIn binds impl as the implementation of service S within a
// configuration phase.
func BindIn[S any](b *Binder[ServiceKey, any], impl S) error {
	return b.Bind(serviceKey[S](), impl)
}

// Lookup returns the implementation bound to service S.
func Lookup[S any](r *Services) (S, bool) {
	var zero S
	v, ok := r.Get(serviceKey[S]())
	if !ok {
		return zero, false
	}
	s, ok := v.(S)
	if !ok {
		return zero, false
	}
	return s, true
}

// MustLookup returns the implementation bound to service S, panicking if
// none is bound.
func MustLookup[S any](r *Services) S {
	s, ok := Lookup[S](r)
	if !ok {
		panic(fmt.Sprintf("registry: no service bound for %s", serviceKey[S]()))
	}
	return s
}

// LookupOrCreate returns the implementation bound to service S, binding the
// result of create if none is bound yet.
func LookupOrCreate[S any](r *Services, create func() (S, error)) (S, error) {
	var zero S
	v, err := r.GetOrCreate(serviceKey[S](), func() (any, error) {
		s, err := create()
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return zero, err
	}
	s, ok := v.(S)
	if !ok {
		return zero, &BindingError{Key: serviceKey[S](), Op: "create", Err: ErrServiceMismatch}
	}
	return s, nil
}
