// Package errors provides sentinel errors and structured error details for the tsgen CLI.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid configuration or an invalid task graph.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a task, marker, file or tool was not found.
	ErrNotFound = errors.New("not found")

	// ErrPermission indicates insufficient filesystem permissions.
	ErrPermission = errors.New("permission denied")

	// ErrConflict indicates generated files would overwrite existing ones.
	ErrConflict = errors.New("conflict")

	// ErrTaskFailed indicates a task action (or an external tool it ran) failed.
	ErrTaskFailed = errors.New("task failed")
)

// DetailError is an error rendered as a labelled block: a category line,
// location, field and context lines, the message, then a hint. Only Type
// and Message are required.
type DetailError struct {
	Type    string
	Message string

	// Location is a file path, optionally with a line number.
	Location string

	// Field is a dotted configuration key.
	Field string

	Context map[string]string
	Hint    string
	Cause   error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", e.Type)
	for _, line := range e.lines() {
		fmt.Fprintf(&b, "  %s: %s\n", line[0], line[1])
	}
	fmt.Fprintf(&b, "\n  %s\n", e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "\nHint: %s\n", e.Hint)
	}
	return b.String()
}

// lines returns the labelled detail lines: location, field, then context
// in key order.
func (e *DetailError) lines() [][2]string {
	var out [][2]string
	if e.Location != "" {
		out = append(out, [2]string{"Location", e.Location})
	}
	if e.Field != "" {
		out = append(out, [2]string{"Field", e.Field})
	}
	for _, k := range slices.Sorted(maps.Keys(e.Context)) {
		out = append(out, [2]string{k, e.Context[k]})
	}
	return out
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewConflictError creates a conflict error listing the conflicting paths.
func NewConflictError(message, location string, paths []string, hint string) error {
	e := &DetailError{
		Type:     "conflict",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrConflict,
	}
	if len(paths) > 0 {
		e.Context = map[string]string{"Files": strings.Join(paths, ", ")}
	}
	return e
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
