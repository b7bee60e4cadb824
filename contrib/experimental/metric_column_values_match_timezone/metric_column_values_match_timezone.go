// SPDX-License-Identifier: MPL-2.0

// Package matchtimezone provides the column_values.match_timezone metric.
package matchtimezone

import "gallery-cli/pkg/expectation"

var libraryMetadata = map[string]any{
	"maturity": "experimental",
	"requirements": []string{
		"pytz>=2021.3",
	},
}

// MetricColumnValuesMatchTimezone resolves the share of column values that
// name a known timezone.
type MetricColumnValuesMatchTimezone struct{}

func (m *MetricColumnValuesMatchTimezone) Name() string {
	return "metric_column_values_match_timezone"
}

func (m *MetricColumnValuesMatchTimezone) RunDiagnostics() (expectation.Diagnostics, error) {
	return expectation.Diagnostics{
		"description": map[string]any{
			"snake_name": m.Name(),
			"docstring":  "Resolve the share of column values naming a known timezone.",
		},
		"library_metadata": libraryMetadata,
		"metrics":          []string{"column_values.match_timezone"},
	}, nil
}

func init() {
	expectation.RegisterContribModule(expectation.GroupMetrics,
		"metric_column_values_match_timezone",
		func(r *expectation.Registry) error {
			return r.Register("metric_column_values_match_timezone",
				func() expectation.Implementation { return &MetricColumnValuesMatchTimezone{} })
		})
}
