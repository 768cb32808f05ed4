package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Vinith-15116/studio1/internal/application/dto"
	"github.com/Vinith-15116/studio1/internal/domain/event"
	"github.com/Vinith-15116/studio1/internal/domain/model"
	"github.com/Vinith-15116/studio1/internal/domain/port"
	"github.com/Vinith-15116/studio1/internal/domain/service"
	"github.com/Vinith-15116/studio1/pkg/events"
)

const (
	// DefaultLocation replaces an empty location submitted by a caller.
	DefaultLocation = "Global"
	// DefaultCategory replaces an empty category submitted by a caller.
	DefaultCategory = "General"
)

// Outcome labels reported to the RecommendationRecorder.
const (
	OutcomeOK              = "ok"
	OutcomeInvalid         = "invalid"
	OutcomeBackendError    = "backend_error"
	OutcomeSchemaViolation = "schema_violation"
)

var tracer = otel.Tracer("github.com/Vinith-15116/studio1/internal/application/usecase")

// RecommendPriority is the use case for prioritizing a submitted risk report.
type RecommendPriority struct {
	recommender *service.Recommender
	publisher   port.EventPublisher
	recorder    port.RecommendationRecorder
	logger      *slog.Logger
	now         func() time.Time
}

// NewRecommendPriority creates a new RecommendPriority use case.
func NewRecommendPriority(
	recommender *service.Recommender,
	publisher port.EventPublisher,
	recorder port.RecommendationRecorder,
	logger *slog.Logger,
) *RecommendPriority {
	return &RecommendPriority{
		recommender: recommender,
		publisher:   publisher,
		recorder:    recorder,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Execute applies caller defaults, classifies the report, and publishes the
// resulting events. Domain errors are returned unwrapped so callers can map
// them with errors.As.
func (uc *RecommendPriority) Execute(ctx context.Context, req dto.RiskReportRequest) (dto.RecommendationResponse, error) {
	ctx, span := tracer.Start(ctx, "RecommendPriority",
		trace.WithAttributes(attribute.String("triage.backend", uc.recommender.BackendName())),
	)
	defer span.End()

	start := time.Now()

	// 1. Build the report with caller defaults applied.
	report, err := NewReportFromRequest(req)
	if err != nil {
		uc.finish(ctx, span, start, err, "")
		return dto.RecommendationResponse{}, err
	}

	// 2. Classify via the domain service.
	result, err := uc.recommender.Recommend(ctx, report)
	if err != nil {
		uc.finish(ctx, span, start, err, "")
		return dto.RecommendationResponse{}, err
	}
	uc.finish(ctx, span, start, nil, result.Status().String())

	// 3. Publish domain events.
	id := uuid.New()
	generatedAt := uc.now()
	span.SetAttributes(
		attribute.String("triage.recommendation_id", id.String()),
		attribute.String("triage.status", result.Status().String()),
	)

	domainEvents, err := uc.buildEvents(id, generatedAt, report, result)
	if err != nil {
		uc.logger.ErrorContext(ctx, "failed to build recommendation events",
			slog.String("recommendation_id", id.String()),
			slog.String("error", err.Error()),
		)
	} else if err := uc.publisher.Publish(ctx, domainEvents...); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish recommendation events",
			slog.String("recommendation_id", id.String()),
			slog.String("error", err.Error()),
		)
	}

	uc.logger.InfoContext(ctx, "recommendation generated",
		slog.String("recommendation_id", id.String()),
		slog.String("status", result.Status().String()),
		slog.String("backend", uc.recommender.BackendName()),
	)

	return dto.FromResult(id, uc.recommender.BackendName(), generatedAt, result), nil
}

func (uc *RecommendPriority) buildEvents(
	id uuid.UUID,
	at time.Time,
	report model.RiskReport,
	result model.PrioritizationResult,
) ([]events.DomainEvent, error) {
	var collector events.EventCollector

	generated, err := event.NewRecommendationGenerated(event.RecommendationGenerated{
		RecommendationID: id,
		Title:            report.Title(),
		Location:         report.Location(),
		Category:         report.Category(),
		Tags:             report.Tags(),
		Status:           result.Status().String(),
		Explanation:      result.Explanation(),
		Backend:          uc.recommender.BackendName(),
		GeneratedAt:      at,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s event: %w", event.EventTypeRecommendationGenerated, err)
	}
	collector.Record(generated)

	if result.Status().IsCritical() {
		flagged, err := event.NewCriticalRiskFlagged(event.CriticalRiskFlagged{
			RecommendationID: id,
			Title:            report.Title(),
			Location:         report.Location(),
			Explanation:      result.Explanation(),
			FlaggedAt:        at,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s event: %w", event.EventTypeCriticalRiskFlagged, err)
		}
		collector.Record(flagged)
	}

	return collector.ClearEvents(), nil
}

func (uc *RecommendPriority) finish(ctx context.Context, span trace.Span, start time.Time, err error, status string) {
	outcome := Outcome(err)
	uc.recorder.RecordRecommendation(ctx, outcome, status, time.Since(start))
	span.SetAttributes(attribute.String("triage.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
}

// Outcome classifies a recommendation error into its recorder label.
func Outcome(err error) string {
	var (
		validationErr *model.ValidationError
		schemaErr     *model.SchemaViolationError
	)
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &validationErr):
		return OutcomeInvalid
	case errors.As(err, &schemaErr):
		return OutcomeSchemaViolation
	default:
		return OutcomeBackendError
	}
}

// NewReportFromRequest applies the caller defaults for location and category
// and validates the result into a RiskReport.
func NewReportFromRequest(req dto.RiskReportRequest) (model.RiskReport, error) {
	location := req.Location
	if strings.TrimSpace(location) == "" {
		location = DefaultLocation
	}
	category := req.Category
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}
	return model.NewRiskReport(req.Title, req.Description, location, category, req.Tags)
}
