// SPDX-License-Identifier: MPL-2.0

// Package core ships the expectations built into the gallery binary. They
// are registered eagerly at startup, unlike contrib modules, which are
// activated through the loader after their requirements are installed.
package core

import (
	"fmt"

	"gallery-cli/pkg/expectation"
)

// builtin is a core expectation backed by a static diagnostics payload.
type builtin struct {
	name        string
	description string
	metrics     []string
}

// Name returns the expectation's snake_case identifier.
func (b *builtin) Name() string { return b.name }

// RunDiagnostics reports the expectation's self-description. Core
// expectations carry no third-party requirements, so the payload is fully
// static.
func (b *builtin) RunDiagnostics() (expectation.Diagnostics, error) {
	return expectation.Diagnostics{
		"description": map[string]any{
			"snake_name": b.name,
			"docstring":  b.description,
		},
		"library_metadata": map[string]any{
			"maturity":     "production",
			"requirements": []string{},
		},
		"metrics": b.metrics,
	}, nil
}

// builtins lists the core catalog in registration order.
var builtins = []*builtin{
	{
		name:        "expect_column_values_to_not_be_null",
		description: "Expect column values to not be null.",
		metrics:     []string{"column_values.nonnull"},
	},
	{
		name:        "expect_column_values_to_be_unique",
		description: "Expect each column value to be unique.",
		metrics:     []string{"column_values.unique"},
	},
	{
		name:        "expect_column_values_to_be_between",
		description: "Expect column values to be between a minimum and a maximum.",
		metrics:     []string{"column_values.between"},
	},
	{
		name:        "expect_table_row_count_to_be_between",
		description: "Expect the table row count to be between two values.",
		metrics:     []string{"table.row_count"},
	},
}

// Register adds every core expectation to the registry.
func Register(registry *expectation.Registry) error {
	for _, b := range builtins {
		impl := b
		err := registry.Register(impl.name, func() expectation.Implementation { return impl })
		if err != nil {
			return fmt.Errorf("register core expectation: %w", err)
		}
	}
	return nil
}
