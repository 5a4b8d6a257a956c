package execution

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Command is one external process invocation
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string // nil inherits the current environment
}

// Result holds what a finished process wrote and how it exited
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Executor runs a command to completion. A non-zero exit is reported in Result, not as an error.
type Executor func(ctx context.Context, cmd Command) (Result, error)

// SystemExecutor runs commands with os/exec
func SystemExecutor(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, err
	}
	return result, nil
}
