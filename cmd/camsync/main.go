package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"camsync/internal/domain"
	apperrors "camsync/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCommand(newCommandContext(stdin, stdout, stderr))
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return exitCode(cmd.ExecuteContext(ctx), stderr)
}

// outcomeError carries a non-successful run outcome up to main.
type outcomeError struct {
	outcome domain.Outcome
}

func (e outcomeError) Error() string {
	return "run finished with " + e.outcome.String()
}

func outcomeErr(outcome domain.Outcome) error {
	if outcome == domain.FullSuccess {
		return nil
	}
	return outcomeError{outcome: outcome}
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var oe outcomeError
	if errors.As(err, &oe) {
		return oe.outcome.ExitCode()
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "Interrupted.")
		return 1
	}
	fmt.Fprintln(stderr, apperrors.UserMessage(err))
	return 1
}
