package portscan

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Runner starts a process and waits for it.
// It returns the captured standard output and the exit code. A non-zero
// exit is not an error; err is set only when the process could not run.
type Runner interface {
	Run(ctx context.Context, path string, args ...string) (stdout []byte, exitCode int, err error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

// Run implements Runner. Standard error goes to the null device.
func (ExecRunner) Run(ctx context.Context, path string, args ...string) ([]byte, int, error) {
	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, path, args...) //nolint:gosec // Scanner path and arguments are built internally
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), exitErr.ExitCode(), nil
	}
	return nil, -1, err
}
