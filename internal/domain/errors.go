package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrDuplicateApplication = errors.New("a pending application for this property already exists")
)

// ValidationError reports every malformed input field, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, reason string) {
	e.Fields[field] = reason
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, r := range e.Fields {
		parts = append(parts, f+": "+r)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// InvalidTransitionError rejects a state-machine move that is not permitted
// from the application's current status.
type InvalidTransitionError struct {
	From ApplicationStatus
	To   ApplicationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// StoreError wraps an underlying executor failure. The wrapped error is for
// logs only; callers see an opaque failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store failure in %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
