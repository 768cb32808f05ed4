package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinith-15116/studio1/internal/domain/model"
)

type scriptedBackend struct {
	calls   atomic.Int32
	respond func(ctx context.Context, call int) ([]byte, error)
}

func (s *scriptedBackend) Name() string { return "scripted" }

func (s *scriptedBackend) Classify(ctx context.Context, _ string, _ model.OutputSchema) ([]byte, error) {
	n := int(s.calls.Add(1))
	return s.respond(ctx, n)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var okBody = []byte(`{"status":"NORMAL","explanation":"fine"}`)

func TestGuard_PassesThroughSuccess(t *testing.T) {
	next := &scriptedBackend{respond: func(context.Context, int) ([]byte, error) { return okBody, nil }}
	g := NewGuard(next, GuardConfig{Timeout: time.Second, MaxAttempts: 1}, discardLogger())

	raw, err := g.Classify(context.Background(), "p", model.PrioritizationSchema())

	require.NoError(t, err)
	assert.Equal(t, okBody, raw)
	assert.Equal(t, "scripted", g.Name())
	assert.Equal(t, "closed", g.BreakerState())
	assert.True(t, g.Ready())
}

func TestGuard_SingleShotByDefault(t *testing.T) {
	cause := errors.New("connection reset")
	next := &scriptedBackend{respond: func(context.Context, int) ([]byte, error) { return nil, cause }}
	g := NewGuard(next, GuardConfig{Timeout: time.Second}, discardLogger())

	_, err := g.Classify(context.Background(), "p", model.PrioritizationSchema())

	var bErr *model.BackendError
	require.True(t, errors.As(err, &bErr))
	assert.Equal(t, "scripted", bErr.Backend)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestGuard_RetriesTransportErrors(t *testing.T) {
	next := &scriptedBackend{respond: func(_ context.Context, call int) ([]byte, error) {
		if call < 3 {
			return nil, errors.New("temporary failure")
		}
		return okBody, nil
	}}
	g := NewGuard(next, GuardConfig{
		Timeout:         time.Second,
		MaxAttempts:     3,
		BreakerFailures: 10,
		retryInterval:   time.Millisecond,
	}, discardLogger())

	raw, err := g.Classify(context.Background(), "p", model.PrioritizationSchema())

	require.NoError(t, err)
	assert.Equal(t, okBody, raw)
	assert.Equal(t, int32(3), next.calls.Load())
}

func TestGuard_GivesUpAfterMaxAttempts(t *testing.T) {
	next := &scriptedBackend{respond: func(context.Context, int) ([]byte, error) {
		return nil, errors.New("still down")
	}}
	g := NewGuard(next, GuardConfig{
		Timeout:         time.Second,
		MaxAttempts:     2,
		BreakerFailures: 10,
		retryInterval:   time.Millisecond,
	}, discardLogger())

	_, err := g.Classify(context.Background(), "p", model.PrioritizationSchema())

	var bErr *model.BackendError
	require.True(t, errors.As(err, &bErr))
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestGuard_AttemptTimeout(t *testing.T) {
	next := &scriptedBackend{respond: func(ctx context.Context, _ int) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	g := NewGuard(next, GuardConfig{Timeout: 20 * time.Millisecond, MaxAttempts: 1}, discardLogger())

	_, err := g.Classify(context.Background(), "p", model.PrioritizationSchema())

	var bErr *model.BackendError
	require.True(t, errors.As(err, &bErr))
	assert.True(t, bErr.Timeout())
}

func TestGuard_OpensCircuit(t *testing.T) {
	next := &scriptedBackend{respond: func(context.Context, int) ([]byte, error) {
		return nil, errors.New("down")
	}}
	g := NewGuard(next, GuardConfig{
		Timeout:         time.Second,
		MaxAttempts:     1,
		BreakerFailures: 2,
		BreakerCooldown: time.Minute,
	}, discardLogger())

	for i := 0; i < 2; i++ {
		_, err := g.Classify(context.Background(), "p", model.PrioritizationSchema())
		require.Error(t, err)
	}
	assert.Equal(t, "open", g.BreakerState())
	assert.False(t, g.Ready())

	_, err := g.Classify(context.Background(), "p", model.PrioritizationSchema())
	var bErr *model.BackendError
	require.True(t, errors.As(err, &bErr))
	assert.Equal(t, int32(2), next.calls.Load(), "open circuit must not reach the backend")
}

func TestGuard_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	next := &scriptedBackend{respond: func(ctx context.Context, _ int) ([]byte, error) {
		return nil, ctx.Err()
	}}
	g := NewGuard(next, GuardConfig{Timeout: time.Second, MaxAttempts: 3, BreakerFailures: 1}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Classify(ctx, "p", model.PrioritizationSchema())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "closed", g.BreakerState())
}

func TestGuard_RateLimitWaitHonoursContext(t *testing.T) {
	next := &scriptedBackend{respond: func(context.Context, int) ([]byte, error) { return okBody, nil }}
	g := NewGuard(next, GuardConfig{Timeout: time.Second, MaxAttempts: 1, RateLimit: 0.001, RateBurst: 1}, discardLogger())

	_, err := g.Classify(context.Background(), "p", model.PrioritizationSchema())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = g.Classify(ctx, "p", model.PrioritizationSchema())

	var bErr *model.BackendError
	require.True(t, errors.As(err, &bErr))
	assert.Equal(t, int32(1), next.calls.Load())
}
