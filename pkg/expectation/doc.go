// SPDX-License-Identifier: MPL-2.0

// Package expectation defines the registry surface the gallery builder
// consumes: registered expectation implementations, their self-diagnostic
// contract, and the explicit contrib registration interface.
//
// Registration is always explicit. Contrib modules expose registration
// functions that the orchestrator invokes through a ContribLoader; nothing
// registers itself as an import side effect, which keeps the dependency
// graph visible and makes the loading order testable.
package expectation
