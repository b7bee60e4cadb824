// SPDX-License-Identifier: MPL-2.0

// Package extract statically analyzes contrib expectation source files to
// discover their declared third-party requirements without building or
// executing them.
//
// Contrib files may depend on packages that are not installed yet (that is
// the whole point of extracting requirements first), so the analysis is
// purely syntactic: the file is parsed into an AST and a module-level
// libraryMetadata literal is evaluated with a restricted literal evaluator.
// No type checking, no imports, no code execution.
package extract
