package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder implements port.RecommendationRecorder with OpenTelemetry
// instruments.
type Recorder struct {
	requests metric.Int64Counter
	latency  metric.Float64Histogram
	backend  attribute.KeyValue
}

// NewRecorder creates the recommendation instruments on the given meter.
func NewRecorder(meter metric.Meter, backend string) (*Recorder, error) {
	requests, err := meter.Int64Counter("triage_recommendations_total",
		metric.WithDescription("Recommendations by outcome and status."),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendations counter: %w", err)
	}

	latency, err := meter.Float64Histogram("triage_recommendation_duration_seconds",
		metric.WithDescription("Time spent producing a recommendation."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create latency histogram: %w", err)
	}

	return &Recorder{
		requests: requests,
		latency:  latency,
		backend:  attribute.String("backend", backend),
	}, nil
}

// RecordRecommendation implements port.RecommendationRecorder.
func (r *Recorder) RecordRecommendation(ctx context.Context, outcome, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		r.backend,
		attribute.String("outcome", outcome),
		attribute.String("status", status),
	)
	r.requests.Add(ctx, 1, attrs)
	r.latency.Record(ctx, elapsed.Seconds(), attrs)
}
