package model

import (
	"slices"

	"github.com/Vinith-15116/studio1/internal/domain/valueobject"
)

// OutputSchema describes the structured output a backend must produce: an
// object with one closed-enum field and one free-text field, nothing else.
type OutputSchema struct {
	Name             string
	Description      string
	StatusField      string
	StatusValues     []string
	ExplanationField string
}

// PrioritizationSchema returns the output contract for a recommendation.
func PrioritizationSchema() OutputSchema {
	return OutputSchema{
		Name:             "PrioritizationResult",
		Description:      "Recommended prioritization status for a global risk report.",
		StatusField:      "status",
		StatusValues:     valueobject.StatusValues(),
		ExplanationField: "explanation",
	}
}

// Fields returns the property names in their canonical order.
func (s OutputSchema) Fields() []string {
	return []string{s.StatusField, s.ExplanationField}
}

// JSONSchema renders the descriptor as a JSON Schema object suitable for
// providers that accept a raw schema.
func (s OutputSchema) JSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			s.StatusField: map[string]any{
				"type":        "string",
				"enum":        slices.Clone(s.StatusValues),
				"description": "The recommended prioritization status for the problem.",
			},
			s.ExplanationField: map[string]any{
				"type":        "string",
				"description": "A brief explanation of the reasoning behind the recommended status.",
			},
		},
		"required":             s.Fields(),
		"additionalProperties": false,
	}
}
