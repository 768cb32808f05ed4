package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Vinith-15116/studio1/internal/application/dto"
	"github.com/Vinith-15116/studio1/internal/application/usecase"
	"github.com/Vinith-15116/studio1/internal/domain/model"
)

// Compile-time assertion that TriageServiceHandler implements TriageServiceServer.
var _ TriageServiceServer = (*TriageServiceHandler)(nil)

// TriageServiceHandler implements the gRPC TriageServiceServer interface.
type TriageServiceHandler struct {
	UnimplementedTriageServiceServer
	recommendPriority *usecase.RecommendPriority
	renderPrompt      *usecase.RenderPrompt
	logger            *slog.Logger
}

// NewTriageServiceHandler creates a new gRPC handler.
func NewTriageServiceHandler(
	recommendPriority *usecase.RecommendPriority,
	renderPrompt *usecase.RenderPrompt,
	logger *slog.Logger,
) *TriageServiceHandler {
	return &TriageServiceHandler{
		recommendPriority: recommendPriority,
		renderPrompt:      renderPrompt,
		logger:            logger,
	}
}

// RecommendPriority handles a recommendation request.
func (h *TriageServiceHandler) RecommendPriority(ctx context.Context, req *RecommendPriorityRequest) (*RecommendPriorityResponse, error) {
	if req == nil || req.Report == nil {
		return nil, status.Error(codes.InvalidArgument, "report is required")
	}

	result, err := h.recommendPriority.Execute(ctx, toDTO(req.Report))
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	return &RecommendPriorityResponse{
		Recommendation: &RecommendationMsg{
			ID:          result.ID.String(),
			Status:      result.Status,
			Explanation: result.Explanation,
			Backend:     result.Backend,
			GeneratedAt: result.GeneratedAt.Format(time.RFC3339Nano),
		},
	}, nil
}

// RenderPrompt handles a prompt preview request.
func (h *TriageServiceHandler) RenderPrompt(ctx context.Context, req *RenderPromptRequest) (*RenderPromptResponse, error) {
	if req == nil || req.Report == nil {
		return nil, status.Error(codes.InvalidArgument, "report is required")
	}

	result, err := h.renderPrompt.Execute(ctx, toDTO(req.Report))
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &RenderPromptResponse{Prompt: result.Prompt}, nil
}

func toDTO(r *RiskReportMsg) dto.RiskReportRequest {
	return dto.RiskReportRequest{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Category:    r.Category,
		Tags:        r.Tags,
	}
}

// toStatus maps domain errors onto gRPC status codes.
func (h *TriageServiceHandler) toStatus(ctx context.Context, err error) error {
	var (
		validationErr *model.ValidationError
		backendErr    *model.BackendError
		schemaErr     *model.SchemaViolationError
	)
	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Error())
	case errors.As(err, &backendErr):
		h.logger.WarnContext(ctx, "model backend unavailable", slog.String("error", err.Error()))
		if backendErr.Timeout() {
			return status.Error(codes.DeadlineExceeded, "model backend timed out")
		}
		return status.Error(codes.Unavailable, "model backend unavailable")
	case errors.As(err, &schemaErr):
		h.logger.ErrorContext(ctx, "model output rejected",
			slog.String("reason", schemaErr.Reason),
			slog.String("raw", schemaErr.Raw),
		)
		return status.Error(codes.Internal, "model returned an invalid recommendation")
	default:
		h.logger.ErrorContext(ctx, "recommendation failed", slog.String("error", err.Error()))
		return status.Error(codes.Internal, "internal error")
	}
}
