package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Vinith-15116/studio1/internal/application/usecase"
	"github.com/Vinith-15116/studio1/internal/domain/port"
	"github.com/Vinith-15116/studio1/internal/domain/service"
	"github.com/Vinith-15116/studio1/internal/infrastructure/config"
	"github.com/Vinith-15116/studio1/internal/infrastructure/kafka"
	"github.com/Vinith-15116/studio1/internal/infrastructure/llm"
	"github.com/Vinith-15116/studio1/internal/infrastructure/telemetry"
	grpcpresentation "github.com/Vinith-15116/studio1/internal/presentation/grpc"
	"github.com/Vinith-15116/studio1/internal/presentation/rest"
	pkgkafka "github.com/Vinith-15116/studio1/pkg/kafka"
	"github.com/Vinith-15116/studio1/pkg/observability"
	"github.com/Vinith-15116/studio1/pkg/tlsutil"
)

const serviceName = "triage-service"

func main() {
	if err := run(); err != nil {
		slog.Error("triage-service exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	logger.Info("starting triage-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing is optional.
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    !cfg.IsProduction(),
			SampleRatio: 1,
		})
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(shutdownCtx); err != nil {
				logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			}
		}()
		logger.Info("tracing enabled", slog.String("endpoint", cfg.OTLPEndpoint))
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: serviceName,
		Registry:    prometheus.NewRegistry(),
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	// Initialize infrastructure adapters.
	backend, err := llm.NewBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init model backend: %w", err)
	}

	recorder, err := telemetry.NewRecorder(meterProvider.Meter("problempulse/triage"), backend.Name())
	if err != nil {
		return fmt.Errorf("init recorder: %w", err)
	}

	var publisher port.EventPublisher = kafka.NewNoopPublisher(logger)
	if cfg.EventsEnabled() {
		producer, err := pkgkafka.NewProducer(kafka.ClientConfig(cfg.Kafka))
		if err != nil {
			return fmt.Errorf("init kafka producer: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("kafka producer close error", slog.String("error", err.Error()))
			}
		}()
		publisher = kafka.NewPublisher(producer, cfg.Kafka.Topic, logger)
		logger.Info("event publishing enabled",
			slog.Any("brokers", cfg.Kafka.Brokers),
			slog.String("topic", cfg.Kafka.Topic),
		)
	}

	// Initialize domain services and use cases.
	recommender := service.NewRecommender(backend, logger)
	recommendPriorityUC := usecase.NewRecommendPriority(recommender, publisher, recorder, logger)
	renderPromptUC := usecase.NewRenderPrompt()

	// Initialize gRPC handler and server.
	grpcOpts := grpcpresentation.ServerOptions{EnableReflection: cfg.EnableReflection}
	if cfg.TLSEnabled() {
		creds, err := tlsutil.ServerTLSConfig(cfg.TLSCertFile, cfg.TLSKeyFile, cfg.TLSCAFile)
		if err != nil {
			return fmt.Errorf("load TLS credentials: %w", err)
		}
		grpcOpts.Creds = creds
	}
	grpcHandler := grpcpresentation.NewTriageServiceHandler(recommendPriorityUC, renderPromptUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), grpcOpts, logger)

	// Initialize HTTP server.
	httpMux := http.NewServeMux()
	rest.NewRecommendationHandler(recommendPriorityUC, renderPromptUC, logger).RegisterRoutes(httpMux)
	rest.NewHealthHandler(backend, cfg.EventsEnabled(), logger).RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	middleware := []func(http.Handler) http.Handler{rest.RequestLogger(logger)}
	if cfg.HTTPRateLimit > 0 {
		limiter := rest.NewPerClientRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst, 10*time.Minute)
		middleware = append(middleware, limiter.Middleware)
	}
	middleware = append(middleware, rest.MaxBody(cfg.HTTPMaxBody))

	// WriteTimeout leaves room for a full model call.
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.Chain(httpMux, middleware...),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Model.Timeout*time.Duration(cfg.Model.MaxAttempts) + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", slog.String("address", cfg.HTTPAddress()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("triage-service started",
		slog.String("grpc_address", cfg.GRPCAddress()),
		slog.String("http_address", cfg.HTTPAddress()),
		slog.String("backend", backend.Name()),
		slog.String("environment", cfg.Environment),
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case runErr = <-errCh:
		logger.Error("server error", slog.String("error", runErr.Error()))
	}

	// Graceful shutdown.
	logger.Info("shutting down triage-service")
	grpcServer.SetServing(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}
	grpcServer.Stop()

	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("meter provider shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("triage-service stopped")
	return runErr
}
