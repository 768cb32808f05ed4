package model

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// maxRawExcerpt bounds how much of an offending backend response is kept on a
// SchemaViolationError.
const maxRawExcerpt = 512

// ValidationError reports a risk report that does not satisfy the input schema.
// It is raised before any backend call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid risk report: %s", e.Reason)
	}
	return fmt.Sprintf("invalid risk report: %s %s", e.Field, e.Reason)
}

// BackendError reports a failure to obtain any response from the generative
// backend: transport errors, timeouts, authentication failures, rate limiting.
// Callers may retry; the core does not.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("model backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Retryable is always true: a classification is a pure function of its prompt.
func (e *BackendError) Retryable() bool {
	return true
}

// Timeout reports whether the failure was a deadline being exceeded.
func (e *BackendError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// SchemaViolationError reports a backend response that could not be parsed
// into a valid PrioritizationResult.
type SchemaViolationError struct {
	Reason string
	Raw    string
}

// NewSchemaViolation builds a SchemaViolationError keeping a bounded excerpt
// of the offending payload.
func NewSchemaViolation(reason string, raw []byte) *SchemaViolationError {
	excerpt := string(raw)
	if len(excerpt) > maxRawExcerpt {
		excerpt = excerpt[:maxRawExcerpt] + "..."
	}
	return &SchemaViolationError{Reason: reason, Raw: excerpt}
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("model output violates schema: %s", e.Reason)
}
