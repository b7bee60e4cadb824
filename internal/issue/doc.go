// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps and
// Markdown-formatted guidance for the fatal failures a gallery build can hit:
// a missing contrib directory, an invalid manifest, a broken metadata literal,
// a failing diagnostic run.
package issue
