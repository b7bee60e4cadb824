// SPDX-License-Identifier: MPL-2.0

package experimental

// Linking this package pulls every shipped contrib module into the
// compiled-in loader table. Activation still only happens when the loader
// is asked to load a module named in contrib.cue.
import (
	_ "gallery-cli/contrib/experimental/expect_column_values_to_be_valid_email"
	_ "gallery-cli/contrib/experimental/expect_column_values_to_be_valid_isbn"
	_ "gallery-cli/contrib/experimental/metric_column_values_match_timezone"
)
