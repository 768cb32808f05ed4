package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/Vinith-15116/studio1/internal/domain/model"
	"github.com/Vinith-15116/studio1/internal/domain/port"
)

// Recommender turns a risk report into a prioritization recommendation by
// delegating the classification to a generative backend. It holds no state
// between calls and is safe for concurrent use.
type Recommender struct {
	backend port.ModelBackend
	schema  model.OutputSchema
	logger  *slog.Logger
}

// NewRecommender creates a Recommender bound to the given backend.
func NewRecommender(backend port.ModelBackend, logger *slog.Logger) *Recommender {
	return &Recommender{
		backend: backend,
		schema:  model.PrioritizationSchema(),
		logger:  logger,
	}
}

// BackendName returns the name of the backend the recommender delegates to.
func (r *Recommender) BackendName() string {
	return r.backend.Name()
}

// Recommend classifies the report. It fails with *model.ValidationError for
// a report not built by model.NewRiskReport (before any backend call), with
// *model.BackendError if the backend produced no response, and with
// *model.SchemaViolationError if the response does not satisfy the output
// schema. A failed call never yields a result.
func (r *Recommender) Recommend(ctx context.Context, report model.RiskReport) (model.PrioritizationResult, error) {
	if report.IsZero() {
		return model.PrioritizationResult{}, &model.ValidationError{Reason: "report is required"}
	}

	prompt := RenderPrompt(report)

	raw, err := r.backend.Classify(ctx, prompt, r.schema)
	if err != nil {
		var backendErr *model.BackendError
		if errors.As(err, &backendErr) {
			return model.PrioritizationResult{}, backendErr
		}
		return model.PrioritizationResult{}, &model.BackendError{Backend: r.backend.Name(), Err: err}
	}

	result, err := ParseResult(raw, r.schema)
	if err != nil {
		r.logger.WarnContext(ctx, "backend response violated output schema",
			slog.String("backend", r.backend.Name()),
			slog.String("error", err.Error()),
		)
		return model.PrioritizationResult{}, err
	}

	return result, nil
}

// ParseResult decodes a backend response into a PrioritizationResult. The
// response must be a single JSON object holding exactly the schema's fields,
// both as strings; anything else is a *model.SchemaViolationError.
func ParseResult(raw []byte, schema model.OutputSchema) (model.PrioritizationResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return model.PrioritizationResult{}, model.NewSchemaViolation("empty response", raw)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return model.PrioritizationResult{}, model.NewSchemaViolation(fmt.Sprintf("response is not a JSON object: %v", err), raw)
	}
	if fields == nil {
		return model.PrioritizationResult{}, model.NewSchemaViolation("response is not a JSON object", raw)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.PrioritizationResult{}, model.NewSchemaViolation("unexpected data after JSON object", raw)
	}

	if extra := unknownFields(fields, schema); len(extra) > 0 {
		return model.PrioritizationResult{}, model.NewSchemaViolation(fmt.Sprintf("unexpected fields %v", extra), raw)
	}

	status, err := stringField(fields, schema.StatusField)
	if err != nil {
		return model.PrioritizationResult{}, model.NewSchemaViolation(err.Error(), raw)
	}
	explanation, err := stringField(fields, schema.ExplanationField)
	if err != nil {
		return model.PrioritizationResult{}, model.NewSchemaViolation(err.Error(), raw)
	}

	result, err := model.NewPrioritizationResult(status, explanation)
	if err != nil {
		var violation *model.SchemaViolationError
		if errors.As(err, &violation) {
			return model.PrioritizationResult{}, model.NewSchemaViolation(violation.Reason, raw)
		}
		return model.PrioritizationResult{}, err
	}
	return result, nil
}

func unknownFields(fields map[string]json.RawMessage, schema model.OutputSchema) []string {
	var extra []string
	for name := range fields {
		if name != schema.StatusField && name != schema.ExplanationField {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return extra
}

func stringField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", fmt.Errorf("missing field %q", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q is not a string", name)
	}
	return s, nil
}
