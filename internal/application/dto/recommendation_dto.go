package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Vinith-15116/studio1/internal/domain/model"
)

// RiskReportRequest is the input DTO shared by the RecommendPriority and
// RenderPrompt use cases.
type RiskReportRequest struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Location    string   `json:"location" yaml:"location"`
	Category    string   `json:"category" yaml:"category"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// RecommendationResponse is the output DTO returned after a recommendation.
type RecommendationResponse struct {
	GeneratedAt time.Time `json:"generated_at"`
	Status      string    `json:"status"`
	Explanation string    `json:"explanation"`
	Backend     string    `json:"backend"`
	ID          uuid.UUID `json:"id"`
}

// PromptResponse carries the rendered prompt for a report.
type PromptResponse struct {
	Prompt string `json:"prompt"`
}

// FromResult maps a domain result to the response DTO.
func FromResult(id uuid.UUID, backend string, generatedAt time.Time, r model.PrioritizationResult) RecommendationResponse {
	return RecommendationResponse{
		ID:          id,
		Status:      r.Status().String(),
		Explanation: r.Explanation(),
		Backend:     backend,
		GeneratedAt: generatedAt,
	}
}
