// SPDX-License-Identifier: MPL-2.0

// Package gallery orchestrates a gallery build: discover contrib modules,
// extract and install their declared requirements, load them into the
// expectation registry, run every expectation's self-diagnostics, and
// return the aggregated results for the JSON artifact.
//
// The build is a linear, single-threaded, one-shot pipeline. Installation
// failures are logged and skipped; extraction, manifest, load and
// diagnostics failures abort the run. Nothing is written to disk here; the
// CLI layer persists the returned GalleryInfo once, at the very end.
package gallery
