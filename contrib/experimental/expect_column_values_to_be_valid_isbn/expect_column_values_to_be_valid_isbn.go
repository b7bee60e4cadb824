// SPDX-License-Identifier: MPL-2.0

// Package validisbn expects column values to be valid ISBN-10 or ISBN-13
// identifiers.
package validisbn

import "gallery-cli/pkg/expectation"

var libraryMetadata = map[string]any{
	"maturity": "experimental",
	"requirements": []string{
		"isbnlib>=3.10",
	},
}

// ExpectColumnValuesToBeValidIsbn checks that each column value is a valid
// ISBN identifier.
type ExpectColumnValuesToBeValidIsbn struct{}

func (e *ExpectColumnValuesToBeValidIsbn) Name() string {
	return "expect_column_values_to_be_valid_isbn"
}

func (e *ExpectColumnValuesToBeValidIsbn) RunDiagnostics() (expectation.Diagnostics, error) {
	return expectation.Diagnostics{
		"description": map[string]any{
			"snake_name": e.Name(),
			"docstring":  "Expect column values to be valid ISBN-10 or ISBN-13 identifiers.",
		},
		"library_metadata": libraryMetadata,
		"metrics":          []string{"column_values.match_regex"},
	}, nil
}

func init() {
	expectation.RegisterContribModule(expectation.GroupExpectations,
		"expect_column_values_to_be_valid_isbn",
		func(r *expectation.Registry) error {
			return r.Register("expect_column_values_to_be_valid_isbn",
				func() expectation.Implementation { return &ExpectColumnValuesToBeValidIsbn{} })
		})
}
