// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner executes install commands with the embedded mvdan/sh
// interpreter. It needs no host shell, which makes it the safe default on
// minimal CI images and the backend of choice in tests.
type VirtualRunner struct{}

// Name returns the backend name.
func (r *VirtualRunner) Name() string {
	return string(ShellVirtual)
}

// Available returns true: the interpreter is compiled in.
func (r *VirtualRunner) Available() bool {
	return true
}

// Run parses and interprets the command, capturing stdout and stderr.
func (r *VirtualRunner) Run(ctx context.Context, command, dir string) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "install")
	if err != nil {
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to parse install command: %w", err)}
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(pathWithDir(dir)...)),
		interp.StdIO(nil, &stdout, &stderr),
	}
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to create shell interpreter: %w", err)}
	}

	runErr := runner.Run(ctx, prog)
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.ExitCode = 1
			result.Err = ctxErr
			return result
		}
		if status, ok := interp.IsExitStatus(runErr); ok {
			result.ExitCode = int(status)
			return result
		}
		result.ExitCode = 1
		result.Err = runErr
	}

	return result
}
