// SPDX-License-Identifier: MPL-2.0

// Package experimental holds contrib expectation and metric modules that
// ship with the gallery binary but are only activated when the contrib
// phase runs. Each module file declares its third-party requirements in a
// libraryMetadata literal, which the extractor reads without evaluating any
// module code; contrib.cue lists which modules the loader activates.
package experimental
