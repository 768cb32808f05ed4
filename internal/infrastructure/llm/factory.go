package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Vinith-15116/studio1/internal/domain/port"
	"github.com/Vinith-15116/studio1/internal/infrastructure/config"
)

// NewBackend builds the configured backend wrapped in a Guard.
func NewBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Guard, error) {
	var (
		backend port.ModelBackend
		err     error
	)

	switch cfg.Model.Backend {
	case config.BackendGemini:
		backend, err = NewGeminiBackend(ctx, cfg.Model.GeminiAPIKey, cfg.Model.GeminiModel)
	case config.BackendOpenAI:
		backend = NewOpenAIBackend(&http.Client{}, cfg.Model.OpenAIBaseURL, cfg.Model.OpenAIAPIKey, cfg.Model.OpenAIModel)
	case config.BackendStub:
		if cfg.IsProduction() {
			return nil, errors.New("the stub backend is not allowed in production")
		}
		backend, err = NewStubBackend(cfg.Model.StubStatus, cfg.Model.StubExplanation)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Model.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", cfg.Model.Backend, err)
	}

	logger.Info("model backend configured",
		slog.String("backend", backend.Name()),
		slog.Duration("timeout", cfg.Model.Timeout),
		slog.Int("max_attempts", cfg.Model.MaxAttempts),
		slog.Float64("rate_limit_rps", cfg.Model.RateLimitRPS),
	)

	return NewGuard(backend, GuardConfig{
		Timeout:         cfg.Model.Timeout,
		MaxAttempts:     cfg.Model.MaxAttempts,
		RateLimit:       cfg.Model.RateLimitRPS,
		RateBurst:       cfg.Model.RateLimitBurst,
		BreakerFailures: cfg.Model.BreakerFailures,
		BreakerCooldown: cfg.Model.BreakerCooldown,
	}, logger), nil
}
