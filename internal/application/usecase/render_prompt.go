package usecase

import (
	"context"

	"github.com/Vinith-15116/studio1/internal/application/dto"
	"github.com/Vinith-15116/studio1/internal/domain/service"
)

// RenderPrompt is the use case for previewing the prompt a backend would
// receive for a report.
type RenderPrompt struct{}

// NewRenderPrompt creates a new RenderPrompt use case.
func NewRenderPrompt() *RenderPrompt {
	return &RenderPrompt{}
}

// Execute applies the same caller defaults as RecommendPriority and renders
// the prompt. No backend is contacted.
func (uc *RenderPrompt) Execute(_ context.Context, req dto.RiskReportRequest) (dto.PromptResponse, error) {
	report, err := NewReportFromRequest(req)
	if err != nil {
		return dto.PromptResponse{}, err
	}
	return dto.PromptResponse{Prompt: service.RenderPrompt(report)}, nil
}
