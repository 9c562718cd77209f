package registry

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/servicebinding/pkg/binding/observability"
)

// Sentinel errors for registry lifecycle.
var (
	// ErrRegistryClosed indicates a write after Close.
	ErrRegistryClosed = errors.New("registry closed")

	// ErrConfigurationFinished indicates a Binder used after its
	// Configure call returned.
	ErrConfigurationFinished = errors.New("configuration already finished")

	// ErrServiceMismatch indicates a service key bound to a value that does
	// not implement the service.
	ErrServiceMismatch = errors.New("bound value does not implement service")
)

// BindingError wraps errors from binding, creating, or stopping a service.
type BindingError struct {
	// Key is the binding key involved.
	Key any
	// Op is the operation that failed ("bind", "create", "stop").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, observability.KeyString(e.Key), e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *BindingError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised by a configure function or while
// stopping a service.
type PanicError struct {
	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
