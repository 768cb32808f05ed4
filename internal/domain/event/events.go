package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/Vinith-15116/studio1/pkg/events"
)

const (
	// EventTypeRecommendationGenerated is emitted after every successful recommendation.
	EventTypeRecommendationGenerated = "triage.recommendation.generated"

	// EventTypeCriticalRiskFlagged is emitted when a report is classified CRITICAL.
	EventTypeCriticalRiskFlagged = "triage.critical_risk.flagged"

	// AggregateTypeRecommendation names the aggregate both events belong to.
	AggregateTypeRecommendation = "Recommendation"
)

// RecommendationGenerated is the payload of EventTypeRecommendationGenerated.
type RecommendationGenerated struct {
	GeneratedAt      time.Time `json:"generated_at"`
	Title            string    `json:"title"`
	Location         string    `json:"location"`
	Category         string    `json:"category"`
	Status           string    `json:"status"`
	Explanation      string    `json:"explanation"`
	Backend          string    `json:"backend"`
	Tags             []string  `json:"tags"`
	RecommendationID uuid.UUID `json:"recommendation_id"`
}

// CriticalRiskFlagged is the payload of EventTypeCriticalRiskFlagged.
type CriticalRiskFlagged struct {
	FlaggedAt        time.Time `json:"flagged_at"`
	Title            string    `json:"title"`
	Location         string    `json:"location"`
	Explanation      string    `json:"explanation"`
	RecommendationID uuid.UUID `json:"recommendation_id"`
}

// NewRecommendationGenerated wraps the payload in an event envelope.
func NewRecommendationGenerated(p RecommendationGenerated) (events.DomainEvent, error) {
	return events.NewBaseEvent(EventTypeRecommendationGenerated, p.RecommendationID, AggregateTypeRecommendation, p)
}

// NewCriticalRiskFlagged wraps the payload in an event envelope.
func NewCriticalRiskFlagged(p CriticalRiskFlagged) (events.DomainEvent, error) {
	return events.NewBaseEvent(EventTypeCriticalRiskFlagged, p.RecommendationID, AggregateTypeRecommendation, p)
}
