// SPDX-License-Identifier: MPL-2.0

// Package validemail expects column values to be syntactically valid email
// addresses.
package validemail

import "gallery-cli/pkg/expectation"

// libraryMetadata declares the module's third-party requirements. The
// extractor reads this literal statically; keep it free of references and
// calls.
var libraryMetadata = map[string]any{
	"maturity": "experimental",
	"requirements": []string{
		"email-validator>=1.1",
	},
}

// ExpectColumnValuesToBeValidEmail checks that each column value parses as
// an email address.
type ExpectColumnValuesToBeValidEmail struct{}

func (e *ExpectColumnValuesToBeValidEmail) Name() string {
	return "expect_column_values_to_be_valid_email"
}

func (e *ExpectColumnValuesToBeValidEmail) RunDiagnostics() (expectation.Diagnostics, error) {
	return expectation.Diagnostics{
		"description": map[string]any{
			"snake_name": e.Name(),
			"docstring":  "Expect column values to be valid email addresses.",
		},
		"library_metadata": libraryMetadata,
		"metrics":          []string{"column_values.match_regex"},
	}, nil
}

func init() {
	expectation.RegisterContribModule(expectation.GroupExpectations,
		"expect_column_values_to_be_valid_email",
		func(r *expectation.Registry) error {
			return r.Register("expect_column_values_to_be_valid_email",
				func() expectation.Implementation { return &ExpectColumnValuesToBeValidEmail{} })
		})
}
