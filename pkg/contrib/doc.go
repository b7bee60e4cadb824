// SPDX-License-Identifier: MPL-2.0

// Package contrib models the contrib directory manifest.
//
// A contrib directory holds experimental expectation and metric modules plus
// a contrib.cue manifest declaring which modules to load, per group and in
// order. The manifest replaces implicit "load everything importable"
// discovery: a module file that exists on disk but is not listed in the
// manifest is extracted for requirements bookkeeping yet never loaded.
package contrib
