package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Vinith-15116/studio1/internal/domain/model"
	"github.com/Vinith-15116/studio1/internal/domain/valueobject"
)

// StubBackend is a development backend that answers every prompt with the
// same configured status and explanation, without calling any model.
type StubBackend struct {
	status      valueobject.PrioritizationStatus
	explanation string
}

// NewStubBackend creates a stub backend. The status must be one of the
// prioritization statuses.
func NewStubBackend(status, explanation string) (*StubBackend, error) {
	s, err := valueobject.PrioritizationStatusFromString(status)
	if err != nil {
		return nil, fmt.Errorf("invalid stub status: %w", err)
	}
	return &StubBackend{status: s, explanation: explanation}, nil
}

// Name implements port.ModelBackend.
func (b *StubBackend) Name() string { return "stub" }

// Classify implements port.ModelBackend.
func (b *StubBackend) Classify(ctx context.Context, _ string, schema model.OutputSchema) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return json.Marshal(map[string]string{
		schema.StatusField:      b.status.String(),
		schema.ExplanationField: b.explanation,
	})
}
