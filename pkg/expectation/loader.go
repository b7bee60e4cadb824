// SPDX-License-Identifier: MPL-2.0

package expectation

import (
	"errors"
	"fmt"
)

// Contrib module groups. These mirror the contrib manifest sections.
const (
	// GroupExpectations holds contrib expectation modules.
	GroupExpectations Group = "expectations"
	// GroupMetrics holds contrib metric modules.
	GroupMetrics Group = "metrics"
)

// ErrUnknownContribModule is the sentinel error wrapped by
// UnknownContribModuleError.
var ErrUnknownContribModule = errors.New("unknown contrib module")

type (
	// Group identifies a contrib module group.
	Group string

	// RegisterFunc registers a contrib module's implementations into a
	// registry. It is the explicit replacement for import-time registration
	// side effects.
	RegisterFunc func(*Registry) error

	// ContribLoader activates a contrib module by name, registering its
	// implementations. Loading happens strictly after the module's declared
	// requirements have been installed.
	ContribLoader interface {
		Load(group Group, module string) error
	}

	// UnknownContribModuleError is returned when a manifest names a module
	// no registration function was provided for.
	UnknownContribModuleError struct {
		Group  Group
		Module string
	}

	// StaticLoader is a ContribLoader backed by an in-memory table of
	// registration functions, keyed by group and module name. Contrib
	// packages compiled into the binary contribute entries via Add.
	StaticLoader struct {
		registry *Registry
		modules  map[Group]map[string]RegisterFunc
	}
)

// String returns the group name.
func (g Group) String() string { return string(g) }

// Valid reports whether the group is one of the defined contrib groups.
func (g Group) Valid() bool {
	return g == GroupExpectations || g == GroupMetrics
}

// Error implements the error interface.
func (e *UnknownContribModuleError) Error() string {
	return fmt.Sprintf("no registration function for contrib module %s/%s", e.Group, e.Module)
}

// Unwrap returns ErrUnknownContribModule so callers can use errors.Is.
func (e *UnknownContribModuleError) Unwrap() error { return ErrUnknownContribModule }

// NewStaticLoader creates a loader that registers into the given registry.
func NewStaticLoader(registry *Registry) *StaticLoader {
	return &StaticLoader{
		registry: registry,
		modules:  make(map[Group]map[string]RegisterFunc),
	}
}

// Add declares a registration function for a contrib module.
func (l *StaticLoader) Add(group Group, module string, fn RegisterFunc) {
	if l.modules[group] == nil {
		l.modules[group] = make(map[string]RegisterFunc)
	}
	l.modules[group][module] = fn
}

// Load implements ContribLoader.
func (l *StaticLoader) Load(group Group, module string) error {
	fn, ok := l.modules[group][module]
	if !ok {
		return &UnknownContribModuleError{Group: group, Module: module}
	}
	if err := fn(l.registry); err != nil {
		return fmt.Errorf("register contrib module %s/%s: %w", group, module, err)
	}
	return nil
}
