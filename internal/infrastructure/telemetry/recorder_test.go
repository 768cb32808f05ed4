package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecorder_RecordRecommendation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	rec, err := NewRecorder(provider.Meter("test"), "stub")
	require.NoError(t, err)

	ctx := context.Background()
	rec.RecordRecommendation(ctx, "ok", "CRITICAL", 120*time.Millisecond)
	rec.RecordRecommendation(ctx, "ok", "CRITICAL", 80*time.Millisecond)
	rec.RecordRecommendation(ctx, "backend_error", "", time.Second)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := make(map[string]metricdata.Metrics)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	counter, ok := byName["triage_recommendations_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := make(map[string]int64)
	for _, dp := range counter.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		backend, _ := dp.Attributes.Value(attribute.Key("backend"))
		assert.Equal(t, "stub", backend.AsString())
		counts[outcome.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{"ok": 2, "backend_error": 1}, counts)

	hist, ok := byName["triage_recommendation_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(3), total)
}
