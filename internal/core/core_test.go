// SPDX-License-Identifier: MPL-2.0

package core

import (
	"testing"

	"gallery-cli/pkg/expectation"
)

func TestRegister(t *testing.T) {
	registry := expectation.NewRegistry()
	if err := Register(registry); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if got, want := registry.Len(), len(builtins); got != want {
		t.Fatalf("registry has %d expectations, want %d", got, want)
	}

	for _, name := range registry.List() {
		factory, err := registry.Get(name)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", name, err)
		}

		impl := factory()
		if impl.Name() != name {
			t.Errorf("Name() = %q, want %q", impl.Name(), name)
		}

		diag, err := impl.RunDiagnostics()
		if err != nil {
			t.Fatalf("RunDiagnostics(%q) error = %v", name, err)
		}
		desc, ok := diag["description"].(map[string]any)
		if !ok {
			t.Fatalf("diagnostics for %q has no description mapping: %v", name, diag)
		}
		if desc["snake_name"] != name {
			t.Errorf("snake_name = %v, want %q", desc["snake_name"], name)
		}
	}
}

func TestRegisterTwice(t *testing.T) {
	registry := expectation.NewRegistry()
	if err := Register(registry); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if err := Register(registry); err == nil {
		t.Error("second Register() error = nil, want duplicate fault")
	}
}
