package rest

import (
	"log/slog"
	"net/http"
	"time"
)

// BackendProbe reports whether the model backend currently accepts requests.
type BackendProbe interface {
	Name() string
	Ready() bool
	BreakerState() string
}

// HealthHandler provides HTTP health check endpoints for the triage service.
type HealthHandler struct {
	backend   BackendProbe
	logger    *slog.Logger
	startTime time.Time
	events    bool
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(backend BackendProbe, eventsEnabled bool, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		backend:   backend,
		logger:    logger,
		startTime: time.Now(),
		events:    eventsEnabled,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "triage-service",
		Uptime:  time.Since(h.startTime).String(),
	})
}

// Readyz handles readiness probe requests. The service is not ready while the
// backend circuit is open.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	events := "disabled"
	if h.events {
		events = "enabled"
	}
	checks := map[string]string{
		"backend": h.backend.Name(),
		"breaker": h.backend.BreakerState(),
		"events":  events,
	}

	resp := ReadinessResponse{
		Status:  "ready",
		Service: "triage-service",
		Checks:  checks,
	}
	code := http.StatusOK
	if !h.backend.Ready() {
		resp.Status = "not_ready"
		code = http.StatusServiceUnavailable
		h.logger.DebugContext(r.Context(), "readiness check failed", slog.String("breaker", checks["breaker"]))
	}
	writeJSON(w, code, resp)
}
