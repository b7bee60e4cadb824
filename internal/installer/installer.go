// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Shell backend kinds.
const (
	// ShellNative runs install commands through the host shell.
	ShellNative ShellKind = "native"
	// ShellVirtual runs install commands through the built-in mvdan/sh
	// interpreter.
	ShellVirtual ShellKind = "virtual"
)

// DefaultCommand is the package-manager command prefix a requirement
// specifier is appended to.
const DefaultCommand = "pip install"

// DefaultTimeout bounds a single install invocation.
const DefaultTimeout = 5 * time.Minute

// ErrInstallTimeout is the sentinel error wrapped by TimeoutError.
var ErrInstallTimeout = errors.New("install timed out")

type (
	// ShellKind selects the shell backend.
	ShellKind string

	// Result is the outcome of one install invocation. A nonzero ExitCode
	// is not an error: installation failures are reported through the
	// status code and logged, never propagated as faults.
	Result struct {
		// ExitCode is the command's exit status (0 on success).
		ExitCode int
		// Output is the captured standard output.
		Output string
		// ErrOutput is the captured standard error.
		ErrOutput string
		// Err is an infrastructure failure (shell missing, timeout), not a
		// nonzero exit.
		Err error
	}

	// TimeoutError reports an install invocation killed by its deadline.
	TimeoutError struct {
		Requirement string
		Timeout     time.Duration
	}

	// Runner executes a shell command and captures its output.
	Runner interface {
		// Name returns the backend name.
		Name() string
		// Available reports whether the backend can run on this host.
		Available() bool
		// Run executes command in dir (empty means the current directory),
		// with dir prepended to PATH so freshly installed tools resolve.
		Run(ctx context.Context, command, dir string) *Result
	}

	// Installer installs one requirement specifier per call.
	Installer interface {
		Install(ctx context.Context, requirement string) *Result
	}

	// PipInstaller is the production Installer: it renders the configured
	// command template with a quoted requirement specifier and hands it to
	// its shell backend.
	PipInstaller struct {
		command string
		runner  Runner
		timeout time.Duration
		logger  *log.Logger
	}

	// Option configures a PipInstaller.
	Option func(*PipInstaller)
)

// Failed reports whether the invocation did not complete successfully.
func (r *Result) Failed() bool {
	return r.ExitCode != 0 || r.Err != nil
}

// CombinedOutput returns stdout and stderr joined for logging.
func (r *Result) CombinedOutput() string {
	out := strings.TrimSpace(r.Output)
	errOut := strings.TrimSpace(r.ErrOutput)
	switch {
	case out == "":
		return errOut
	case errOut == "":
		return out
	}
	return out + "\n" + errOut
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("installing %q exceeded the %s timeout", e.Requirement, e.Timeout)
}

// Unwrap returns ErrInstallTimeout so callers can use errors.Is.
func (e *TimeoutError) Unwrap() error { return ErrInstallTimeout }

// WithCommand overrides the package-manager command prefix.
func WithCommand(command string) Option {
	return func(p *PipInstaller) {
		if command != "" {
			p.command = command
		}
	}
}

// WithTimeout overrides the per-invocation timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(p *PipInstaller) {
		p.timeout = timeout
	}
}

// WithLogger sets the logger for command tracing and failure reporting.
func WithLogger(logger *log.Logger) Option {
	return func(p *PipInstaller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a PipInstaller on the given shell backend.
func New(runner Runner, opts ...Option) *PipInstaller {
	p := &PipInstaller{
		command: DefaultCommand,
		runner:  runner,
		timeout: DefaultTimeout,
		logger:  log.New(os.Stdout),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewRunner creates the shell backend for a ShellKind.
func NewRunner(kind ShellKind) (Runner, error) {
	switch kind {
	case ShellNative, "":
		return &NativeRunner{}, nil
	case ShellVirtual:
		return &VirtualRunner{}, nil
	}
	return nil, fmt.Errorf("unknown installer shell %q", kind)
}

// Install runs the package manager for a single requirement specifier.
// Success output is logged at INFO, failures at ERROR with the captured
// stderr. The returned Result carries the status; it is never an abort
// signal for the caller.
func (p *PipInstaller) Install(ctx context.Context, requirement string) *Result {
	command := fmt.Sprintf("%s %q", p.command, requirement)
	p.logger.Debug("executing install command", "command", command)

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	res := p.runner.Run(ctx, command, workingDir())

	if errors.Is(res.Err, context.DeadlineExceeded) {
		res.Err = &TimeoutError{Requirement: requirement, Timeout: p.timeout}
	}

	switch {
	case res.Err != nil:
		p.logger.Error("install failed",
			"requirement", requirement, "error", res.Err, "output", res.CombinedOutput())
	case res.ExitCode != 0:
		p.logger.Error("install failed",
			"requirement", requirement, "exit_code", res.ExitCode, "output", res.CombinedOutput())
	default:
		if out := strings.TrimSpace(res.Output); out != "" {
			p.logger.Info(out)
		}
	}

	return res
}

// workingDir returns the current directory, or "." when it cannot be
// resolved.
func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}

// pathWithDir returns the process environment with dir prepended to PATH.
func pathWithDir(dir string) []string {
	env := os.Environ()
	if dir == "" {
		return env
	}

	for i, entry := range env {
		if strings.HasPrefix(entry, "PATH=") {
			env[i] = "PATH=" + dir + string(os.PathListSeparator) + entry[len("PATH="):]
			return env
		}
	}
	return append(env, "PATH="+dir+string(os.PathListSeparator)+defaultPath())
}

func defaultPath() string {
	// Mirrors the conventional fallback search path when PATH is unset.
	return strings.Join([]string{"/usr/local/bin", "/usr/bin", "/bin"}, string(os.PathListSeparator))
}
