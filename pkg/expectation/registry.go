// SPDX-License-Identifier: MPL-2.0

package expectation

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotRegistered is the sentinel error wrapped by NotRegisteredError.
var ErrNotRegistered = errors.New("expectation not registered")

type (
	// Diagnostics is the result of an expectation's self-check. The gallery
	// builder treats it as opaque; the only requirement is that it
	// serializes cleanly to JSON.
	Diagnostics map[string]any

	// Implementation is a registered expectation. RunDiagnostics performs
	// the implementation's self-check and returns a structured summary of
	// its capabilities and status.
	Implementation interface {
		Name() string
		RunDiagnostics() (Diagnostics, error)
	}

	// Factory produces a fresh Implementation instance. Diagnostics run
	// against a new instance per invocation, never a shared one.
	Factory func() Implementation

	// NotRegisteredError is returned when a lookup names an unknown
	// expectation.
	NotRegisteredError struct {
		Name string
	}

	// DuplicateError is returned when a registration reuses a name.
	DuplicateError struct {
		Name string
	}

	// Registry holds expectation implementations by name. The gallery build
	// is a single-threaded, one-shot process, so the registry performs no
	// locking.
	Registry struct {
		factories map[string]Factory
	}
)

// Error implements the error interface.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("expectation %q is not registered", e.Name)
}

// Unwrap returns ErrNotRegistered so callers can use errors.Is.
func (e *NotRegisteredError) Unwrap() error { return ErrNotRegistered }

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("expectation %q is already registered", e.Name)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds an expectation factory under the given name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("expectation name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("expectation %q: factory must not be nil", name)
	}
	if _, exists := r.factories[name]; exists {
		return &DuplicateError{Name: name}
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is Register for static registration tables; it panics on
// error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// List returns the names of all registered expectations, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get resolves a name to its factory.
func (r *Registry) Get(name string) (Factory, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, &NotRegisteredError{Name: name}
	}
	return factory, nil
}

// Len returns the number of registered expectations.
func (r *Registry) Len() int {
	return len(r.factories)
}
