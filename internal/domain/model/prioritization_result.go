package model

import (
	"strings"

	"github.com/Vinith-15116/studio1/internal/domain/valueobject"
)

// PrioritizationResult is the validated outcome of a recommendation: a status
// and a short human-readable justification.
type PrioritizationResult struct {
	status      valueobject.PrioritizationStatus
	explanation string
}

// NewPrioritizationResult builds a result from raw backend values. It fails
// with a SchemaViolationError unless status is exactly one of the permitted
// values and explanation is not blank.
func NewPrioritizationResult(status, explanation string) (PrioritizationResult, error) {
	s, err := valueobject.PrioritizationStatusFromString(status)
	if err != nil {
		return PrioritizationResult{}, &SchemaViolationError{Reason: err.Error()}
	}
	if strings.TrimSpace(explanation) == "" {
		return PrioritizationResult{}, &SchemaViolationError{Reason: "explanation must not be empty"}
	}
	return PrioritizationResult{status: s, explanation: explanation}, nil
}

func (r PrioritizationResult) Status() valueobject.PrioritizationStatus { return r.status }
func (r PrioritizationResult) Explanation() string                      { return r.explanation }

// IsZero returns true if the result has not been set.
func (r PrioritizationResult) IsZero() bool {
	return r.status.IsZero()
}
