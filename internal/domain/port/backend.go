package port

import (
	"context"
	"time"

	"github.com/Vinith-15116/studio1/internal/domain/model"
	"github.com/Vinith-15116/studio1/pkg/events"
)

// ModelBackend is the port to an external generative text model. Given a
// prompt and an output schema it returns the model's structured output as a
// JSON object, or an error if no response could be obtained.
//
// Implementations must be safe for concurrent use.
type ModelBackend interface {
	// Classify sends the prompt under the schema constraint and returns the
	// raw JSON object produced by the model.
	Classify(ctx context.Context, prompt string, schema model.OutputSchema) ([]byte, error)

	// Name identifies the backend in logs, errors and responses.
	Name() string
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, domainEvents ...events.DomainEvent) error
}

// RecommendationRecorder receives one observation per recommendation attempt.
type RecommendationRecorder interface {
	RecordRecommendation(ctx context.Context, outcome, status string, elapsed time.Duration)
}
