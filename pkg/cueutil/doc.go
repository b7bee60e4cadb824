// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing helpers for the gallery CLI's
// declarative inputs: the contrib manifest and the tool configuration file.
//
// Both inputs follow the same flow: compile an embedded schema, compile the
// user document, unify, validate, and decode into a Go struct. Errors carry
// JSON-path context so a bad manifest entry points at the offending field
// rather than dumping a raw CUE trace.
package cueutil
