package video

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimestamp is wrapped by every FormatError
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidRequest is wrapped by every ValidationError
	ErrInvalidRequest = errors.New("invalid trim request")

	// ErrExecution is wrapped by every ExecutionError
	ErrExecution = errors.New("trim execution failed")
)

// FormatError reports malformed timestamp text
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid timestamp %q", e.Value)
	}
	return fmt.Sprintf("invalid timestamp %q: %s", e.Value, e.Reason)
}

// Is lets errors.Is match ErrInvalidTimestamp
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidTimestamp
}

// ValidationError reports a well-formed but semantically invalid request.
// Field names the offending input ("input", "start", "end") when there is one.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrInvalidRequest
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// ExecutionError reports a missing external tool or a failed tool run.
// Remedy is a human-readable hint shown to the user.
type ExecutionError struct {
	Message string
	Remedy  string
	Err     error
}

func (e *ExecutionError) Error() string {
	if e.Remedy == "" {
		return e.Message
	}
	return e.Message + " " + e.Remedy
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrExecution
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}
