package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Result holds the captured output of one external command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Commander runs an external program to completion.
type Commander interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecCommander runs programs as child processes. Cancelling the context
// sends SIGTERM to the child and SIGKILL after WaitDelay.
type ExecCommander struct {
	WaitDelay time.Duration
}

func (c ExecCommander) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = c.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = 5 * time.Second
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s: %w", name, ctxErr)
	}
	return result, &CommandError{Program: name, Result: result, Err: err}
}

// CommandError describes a program that exited unsuccessfully.
type CommandError struct {
	Program string
	Result  Result
	Err     error
}

func (e *CommandError) Error() string {
	detail := strings.TrimSpace(e.Result.Stderr)
	if i := strings.LastIndexByte(detail, '\n'); i >= 0 {
		detail = strings.TrimSpace(detail[i+1:])
	}
	if detail == "" {
		return fmt.Sprintf("%s: %v", e.Program, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Program, e.Err, detail)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
