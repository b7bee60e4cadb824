// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// NativeRunner executes install commands through the host shell.
type NativeRunner struct {
	// Shell overrides shell discovery.
	Shell string
}

// Name returns the backend name.
func (r *NativeRunner) Name() string {
	return string(ShellNative)
}

// Available returns whether a usable shell exists on this host.
func (r *NativeRunner) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Run executes the command with `<shell> -c`, captures stdout and stderr,
// and maps a nonzero exit to Result.ExitCode rather than an error.
func (r *NativeRunner) Run(ctx context.Context, command, dir string) *Result {
	shell, err := r.getShell()
	if err != nil {
		return &Result{ExitCode: 1, Err: err}
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Env = pathWithDir(dir)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if runErr != nil {
		// A deadline kill shows up as a plain exit error; surface the
		// context error so the caller can classify it as a timeout.
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.ExitCode = 1
			result.Err = ctxErr
			return result
		}
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result
		}
		result.ExitCode = 1
		result.Err = fmt.Errorf("failed to execute install command: %w", runErr)
	}

	return result
}

// getShell determines which shell to use.
func (r *NativeRunner) getShell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}

	if runtime.GOOS == "windows" {
		// Install commands use POSIX quoting; require a POSIX shell even
		// on Windows (e.g. git-bash) rather than guessing at cmd semantics.
		return exec.LookPath("bash")
	}

	if shell := os.Getenv("SHELL"); shell != "" {
		return shell, nil
	}
	if bash, err := exec.LookPath("bash"); err == nil {
		return bash, nil
	}
	if sh, err := exec.LookPath("sh"); err == nil {
		return sh, nil
	}
	return "", fmt.Errorf("no shell found")
}
