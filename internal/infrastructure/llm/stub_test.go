package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinith-15116/studio1/internal/domain/model"
)

func TestStubBackend(t *testing.T) {
	backend, err := NewStubBackend("WARNING", "stubbed")
	require.NoError(t, err)

	raw, err := backend.Classify(context.Background(), "anything", model.PrioritizationSchema())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"WARNING","explanation":"stubbed"}`, string(raw))
	assert.Equal(t, "stub", backend.Name())
}

func TestStubBackend_RejectsUnknownStatus(t *testing.T) {
	_, err := NewStubBackend("HIGH", "x")
	assert.Error(t, err)
}

func TestStubBackend_CanceledContext(t *testing.T) {
	backend, err := NewStubBackend("NORMAL", "x")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = backend.Classify(ctx, "p", model.PrioritizationSchema())
	assert.ErrorIs(t, err, context.Canceled)
}
