// SPDX-License-Identifier: MPL-2.0

// Package installer shells out to the package manager to install contrib
// requirement specifiers before their modules are loaded.
//
// Two shell backends exist: native (the host shell via os/exec) and virtual
// (the built-in mvdan/sh interpreter, used when no host shell is available
// and in tests). Both capture output and convert a nonzero exit into a
// returned status rather than an error: a failed installation is logged and
// the build moves on to the next requirement.
//
// Every invocation runs under a configurable timeout. The untimed original
// behavior is an operational risk a build must not inherit, so a hung
// installer surfaces as a distinct TimeoutError instead of blocking forever.
package installer
