package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Vinith-15116/studio1/internal/domain/model"
	"github.com/Vinith-15116/studio1/internal/domain/port"
)

// GuardConfig tunes the resilience policy around a backend.
type GuardConfig struct {
	// Timeout bounds each attempt.
	Timeout time.Duration
	// MaxAttempts is the total number of attempts; 1 disables retries.
	MaxAttempts int
	// RateLimit is the outbound request rate; zero means unlimited.
	RateLimit float64
	RateBurst int
	// BreakerFailures consecutive failures open the circuit for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration

	// retryInterval overrides the initial backoff interval in tests.
	retryInterval time.Duration
}

// Guard decorates a port.ModelBackend with a per-attempt timeout, an
// outbound rate limit, a circuit breaker and bounded exponential retry.
// Every failure it returns is a *model.BackendError.
type Guard struct {
	next        port.ModelBackend
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	logger      *slog.Logger
	timeout     time.Duration
	maxAttempts int
	interval    time.Duration
}

// NewGuard wraps next with the configured policy.
func NewGuard(next port.ModelBackend, cfg GuardConfig, logger *slog.Logger) *Guard {
	g := &Guard{
		next:        next,
		logger:      logger,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		interval:    cfg.retryInterval,
	}
	if g.maxAttempts < 1 {
		g.maxAttempts = 1
	}
	if g.interval <= 0 {
		g.interval = 250 * time.Millisecond
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// A caller abandoning its request says nothing about backend health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("model backend circuit state changed",
				slog.String("backend", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return g
}

// Name implements port.ModelBackend.
func (g *Guard) Name() string { return g.next.Name() }

// BreakerState reports the circuit state: "closed", "half-open" or "open".
func (g *Guard) BreakerState() string { return g.breaker.State().String() }

// Ready reports whether the circuit currently admits requests.
func (g *Guard) Ready() bool { return g.breaker.State() != gobreaker.StateOpen }

// Classify implements port.ModelBackend.
func (g *Guard) Classify(ctx context.Context, prompt string, schema model.OutputSchema) ([]byte, error) {
	var (
		raw     []byte
		attempt int
	)

	operation := func() error {
		attempt++
		out, err := g.attempt(ctx, prompt, schema)
		if err == nil {
			raw = out
			return nil
		}
		if !g.retryable(ctx, err) {
			return backoff.Permanent(err)
		}
		g.logger.DebugContext(ctx, "model backend attempt failed",
			slog.String("backend", g.next.Name()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		return err
	}

	var err error
	if g.maxAttempts == 1 {
		err = operation()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
	} else {
		policy := backoff.NewExponentialBackOff()
		policy.InitialInterval = g.interval
		policy.MaxInterval = 8 * g.interval
		policy.MaxElapsedTime = 0
		err = backoff.Retry(operation, backoff.WithContext(
			backoff.WithMaxRetries(policy, uint64(g.maxAttempts-1)), ctx))
	}
	if err != nil {
		return nil, &model.BackendError{Backend: g.next.Name(), Err: err}
	}
	return raw, nil
}

func (g *Guard) attempt(ctx context.Context, prompt string, schema model.OutputSchema) ([]byte, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	attemptCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.Classify(attemptCtx, prompt, schema)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

// retryable reports whether another attempt may succeed: not when the caller
// is gone or the circuit refuses requests.
func (g *Guard) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return true
}
