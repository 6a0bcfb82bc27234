package ufork

import (
	"fmt"

	"github.com/go-stack/stack"
)

// ErrorCode represents a uFork error code.
type ErrorCode int

const (
	// ErrUnknown represents an unknown error.
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid machine configuration.
	ErrInvalidConfig

	// ErrImageLoad represents a failure loading a bootstrap image.
	ErrImageLoad

	// ErrExecution represents a runtime-loop failure.
	ErrExecution

	// ErrOutOfMemory represents cell-heap exhaustion.
	ErrOutOfMemory
)

// VMError represents a recoverable uFork error (spec.md section 7's
// Error-class conditions, surfaced at the public API boundary).
type VMError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ufork error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("ufork error [%d]: %s", e.Code, e.Message)
}

func (e *VMError) Unwrap() error { return e.Cause }

func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// FatalError represents a Panic-class condition (spec.md section 7:
// out-of-heap, double-free, internal invariant violation). It carries the
// Go call stack at the point of failure for crash diagnostics.
type FatalError struct {
	Message string
	Cause   error
	Stack   stack.CallStack
}

// NewFatalError captures the current call stack alongside cause.
func NewFatalError(message string, cause error) *FatalError {
	return &FatalError{
		Message: message,
		Cause:   cause,
		Stack:   stack.Trace().TrimRuntime(),
	}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("ufork: fatal: %s: %v\n%v", e.Message, e.Cause, e.Stack)
}

func (e *FatalError) Unwrap() error { return e.Cause }
