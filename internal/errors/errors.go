package errors

import (
	stderrors "errors"
	"fmt"
)

type Kind string

const (
	InvalidConfig Kind = "invalid_config"
	Precondition  Kind = "precondition"
	Connectivity  Kind = "connectivity"
	Enumeration   Kind = "enumeration"
	Transfer      Kind = "transfer"
	Deletion      Kind = "deletion"
	Reorg         Kind = "reorg"
	Aborted       Kind = "aborted"
	IOFailure     Kind = "io_failure"
	Internal      Kind = "internal"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// New builds an AppError from a message.
func New(kind Kind, op, path, msg string) error {
	return &AppError{Kind: kind, Op: op, Path: path, Err: stderrors.New(msg)}
}

// KindOf returns the kind of the outermost AppError in err's chain, or
// Internal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Fatal reports whether err stops a whole run rather than a single board or
// session.
func Fatal(err error) bool {
	switch KindOf(err) {
	case InvalidConfig, Precondition, Aborted:
		return true
	default:
		return false
	}
}

func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case Precondition:
		return fmt.Sprintf("Precondition failed: %v", appErr.Err)
	case Connectivity:
		return fmt.Sprintf("Host unreachable: %s", appErr.Path)
	case Enumeration:
		return fmt.Sprintf("Could not list sessions in %s: %v", appErr.Path, appErr.Err)
	case Transfer:
		return fmt.Sprintf("Transfer failed: %s: %v", appErr.Path, appErr.Err)
	case Deletion:
		return fmt.Sprintf("Deletion failed: %s: %v", appErr.Path, appErr.Err)
	case Reorg:
		return fmt.Sprintf("Reorganization failed: %s: %v", appErr.Path, appErr.Err)
	case Aborted:
		return fmt.Sprintf("Aborted: %v", appErr.Err)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s", appErr.Path)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
