package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Vinith-15116/studio1/internal/application/dto"
	"github.com/Vinith-15116/studio1/internal/application/usecase"
	"github.com/Vinith-15116/studio1/internal/domain/model"
)

// RecommendationHandler exposes the triage use cases over HTTP.
type RecommendationHandler struct {
	recommendPriority *usecase.RecommendPriority
	renderPrompt      *usecase.RenderPrompt
	logger            *slog.Logger
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(
	recommendPriority *usecase.RecommendPriority,
	renderPrompt *usecase.RenderPrompt,
	logger *slog.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendPriority: recommendPriority,
		renderPrompt:      renderPrompt,
		logger:            logger,
	}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RegisterRoutes registers the recommendation endpoints on the provided ServeMux.
func (h *RecommendationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/recommendations", h.Recommend)
	mux.HandleFunc("POST /v1/recommendations/prompt", h.Prompt)
}

// Recommend handles POST /v1/recommendations.
func (h *RecommendationHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	resp, err := h.recommendPriority.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Prompt handles POST /v1/recommendations/prompt.
func (h *RecommendationHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	resp, err := h.renderPrompt.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RecommendationHandler) decode(w http.ResponseWriter, r *http.Request) (dto.RiskReportRequest, bool) {
	var req dto.RiskReportRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return req, false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body: " + err.Error()})
		return req, false
	}
	return req, true
}

// writeError maps domain errors onto HTTP statuses.
func (h *RecommendationHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *model.ValidationError
		backendErr    *model.BackendError
		schemaErr     *model.SchemaViolationError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validationErr.Error(), Field: validationErr.Field})
	case errors.As(err, &backendErr):
		h.logger.WarnContext(r.Context(), "model backend unavailable", slog.String("error", err.Error()))
		code := http.StatusServiceUnavailable
		if backendErr.Timeout() {
			code = http.StatusGatewayTimeout
		}
		w.Header().Set("Retry-After", "5")
		writeJSON(w, code, ErrorResponse{Error: "model backend unavailable"})
	case errors.As(err, &schemaErr):
		h.logger.ErrorContext(r.Context(), "model output rejected",
			slog.String("reason", schemaErr.Reason),
			slog.String("raw", schemaErr.Raw),
		)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "model returned an invalid recommendation"})
	default:
		h.logger.ErrorContext(r.Context(), "recommendation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
