// Package apperr defines the sentinel error categories used across infraclassify.
//
// Error taxonomy
//
//	UserError  – caused by missing or invalid user input (wrong flag, bad value, …).
//	             The CLI prints only the message as a status line.
//	             Exit code: 1.
//
//	ErrCancelled – the user deliberately aborted an interactive flow (path
//	               prompt, confirmation, …). Nothing is printed.
//	               Exit code: 0 (not a failure).
//
//	InitializationError – a required collaborator of the interactive session
//	               is missing. The session never becomes interactive.
//	               Exit code: 1.
//
// Classification failures (timeout, server, network, malformed response) are
// typed in internal/client; file rejections in internal/validator.
// Everything else is a plain Go error propagated with fmt.Errorf("context: %w", err).
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCancelled is returned when the user explicitly aborts an interactive
// operation.  The CLI should exit 0 rather than 1 when it sees this error.
var ErrCancelled = errors.New("operation cancelled")

// UserError represents an error caused by invalid or missing user input.
// Cobra command handlers return this instead of a bare fmt.Errorf so that
// the error handler prints just the message as one status line.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// User creates a UserError with the given message.
func User(msg string) error { return &UserError{Message: msg} }

// Userf creates a formatted UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// IsUser reports whether err is (or wraps) a *UserError.
func IsUser(err error) bool {
	var u *UserError
	return errors.As(err, &u)
}

// InitializationError lists the collaborators that were missing at setup.
type InitializationError struct {
	Missing []string
}

func (e *InitializationError) Error() string {
	return "initialization failed: missing " + strings.Join(e.Missing, ", ")
}

// IsInitialization reports whether err is (or wraps) an *InitializationError.
func IsInitialization(err error) bool {
	var ie *InitializationError
	return errors.As(err, &ie)
}
