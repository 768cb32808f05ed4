package model_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinith-15116/studio1/internal/domain/model"
	"github.com/Vinith-15116/studio1/internal/domain/valueobject"
)

func TestNewPrioritizationResult(t *testing.T) {
	t.Run("valid status and explanation", func(t *testing.T) {
		r, err := model.NewPrioritizationResult("WARNING", "monitor closely")
		require.NoError(t, err)
		assert.True(t, r.Status().Equal(valueobject.StatusWarning))
		assert.Equal(t, "monitor closely", r.Explanation())
		assert.False(t, r.IsZero())
	})

	tests := []struct {
		name        string
		status      string
		explanation string
	}{
		{"unknown status", "HIGH", "x"},
		{"lowercase status", "warning", "x"},
		{"empty status", "", "x"},
		{"empty explanation", "NORMAL", ""},
		{"blank explanation", "NORMAL", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := model.NewPrioritizationResult(tt.status, tt.explanation)
			var sErr *model.SchemaViolationError
			require.True(t, errors.As(err, &sErr), "expected SchemaViolationError, got %v", err)
			assert.True(t, r.IsZero())
		})
	}
}

func TestPrioritizationSchema(t *testing.T) {
	s := model.PrioritizationSchema()
	assert.Equal(t, []string{"status", "explanation"}, s.Fields())
	assert.Equal(t, []string{"CRITICAL", "WARNING", "NORMAL"}, s.StatusValues)

	js := s.JSONSchema()
	assert.Equal(t, "object", js["type"])
	assert.Equal(t, false, js["additionalProperties"])
	assert.Equal(t, []string{"status", "explanation"}, js["required"])

	props, ok := js["properties"].(map[string]any)
	require.True(t, ok)
	status, ok := props["status"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"CRITICAL", "WARNING", "NORMAL"}, status["enum"])
}

func TestBackendError(t *testing.T) {
	cause := fmt.Errorf("dial: %w", context.DeadlineExceeded)
	err := &model.BackendError{Backend: "gemini", Err: cause}

	assert.Contains(t, err.Error(), "gemini")
	assert.True(t, err.Retryable())
	assert.True(t, err.Timeout())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	plain := &model.BackendError{Backend: "openai", Err: errors.New("401 unauthorized")}
	assert.False(t, plain.Timeout())
}

func TestNewSchemaViolation_TruncatesRaw(t *testing.T) {
	raw := []byte(strings.Repeat("x", 2000))
	err := model.NewSchemaViolation("bad", raw)
	assert.Less(t, len(err.Raw), 600)
	assert.Equal(t, "model output violates schema: bad", err.Error())
}

func TestValidationError_Message(t *testing.T) {
	err := &model.ValidationError{Field: "title", Reason: "must not be empty"}
	assert.Equal(t, "invalid risk report: title must not be empty", err.Error())

	noField := &model.ValidationError{Reason: "report is required"}
	assert.Equal(t, "invalid risk report: report is required", noField.Error())
}
