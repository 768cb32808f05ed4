package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Vinith-15116/studio1/internal/application/usecase"
	"github.com/Vinith-15116/studio1/internal/domain/model"
	"github.com/Vinith-15116/studio1/internal/domain/service"
	"github.com/Vinith-15116/studio1/internal/infrastructure/kafka"
	"github.com/Vinith-15116/studio1/internal/infrastructure/llm"
	grpcpresentation "github.com/Vinith-15116/studio1/internal/presentation/grpc"
	"github.com/Vinith-15116/studio1/pkg/events"
	pkgkafka "github.com/Vinith-15116/studio1/pkg/kafka"
)

// --- Helpers ---

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func useStubBackend(t *testing.T, status string) {
	t.Helper()
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("MODEL_BACKEND", "stub")
	t.Setenv("STUB_STATUS", status)
	t.Setenv("STUB_EXPLANATION", "stub says so")
}

func startServer(t *testing.T) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := llm.NewStubBackend("CRITICAL", "remote stub")
	require.NoError(t, err)

	handler := grpcpresentation.NewTriageServiceHandler(
		usecase.NewRecommendPriority(service.NewRecommender(backend, logger), kafka.NewNoopPublisher(logger), noopRecorder{}, logger),
		usecase.NewRenderPrompt(),
		logger,
	)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := grpcpresentation.NewServer(handler, listener.Addr().String(), grpcpresentation.ServerOptions{}, logger)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	return listener.Addr().String()
}

type noopRecorder struct{}

func (noopRecorder) RecordRecommendation(context.Context, string, string, time.Duration) {}

// --- Tests ---

func TestRender_FromFlags(t *testing.T) {
	res := run(t, "", "render", "--title", "Flooding", "--description", "River rising", "--tag", "water", "--tag", "infra")

	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Title: Flooding\n")
	assert.Contains(t, res.stdout, "Location: Global\n")
	assert.Contains(t, res.stdout, "Category: General\n")
	assert.True(t, strings.HasSuffix(res.stdout, "Tags: water, infra\n"))
}

func TestRender_FromStdinWithOverride(t *testing.T) {
	report := `
title: Drought
description: No rain for six months
location: Sahel
category: Environmental
tags: [water, food]
`
	res := run(t, report, "render", "-f", "-", "--location", "Chad")

	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Title: Drought\n")
	assert.Contains(t, res.stdout, "Location: Chad\n")
	assert.Contains(t, res.stdout, "Tags: water, food\n")
}

func TestRender_UnknownFieldInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: t\ndescription: d\nseverity: high\n"), 0o600))

	res := run(t, "", "render", "-f", path)

	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "severity")
}

func TestRender_InvalidReport(t *testing.T) {
	res := run(t, "", "render", "--title", "t")
	assert.Equal(t, exitInvalid, res.code)
	assert.Contains(t, res.stderr, "description")
}

func TestRecommend_Local(t *testing.T) {
	useStubBackend(t, "WARNING")

	res := run(t, "", "recommend", "--title", "Heatwave", "--description", "45C for a week")

	require.Equal(t, exitOK, res.code, res.stderr)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, "WARNING", out["status"])
	assert.Equal(t, "stub says so", out["explanation"])
	assert.Equal(t, "stub", out["backend"])
	assert.NotEmpty(t, out["id"])
}

func TestRecommend_LocalInvalidReport(t *testing.T) {
	useStubBackend(t, "NORMAL")

	res := run(t, "", "recommend", "--title", "   ", "--description", "d")

	assert.Equal(t, exitInvalid, res.code)
	assert.Contains(t, res.stderr, "title")
}

func TestRecommend_Remote(t *testing.T) {
	addr := startServer(t)

	res := run(t, "", "recommend", "--server", addr, "--title", "Wildfire", "--description", "Front approaching")
	require.Equal(t, exitOK, res.code, res.stderr)

	var out grpcpresentation.RecommendationMsg
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, "CRITICAL", out.Status)
	assert.Equal(t, "remote stub", out.Explanation)

	res = run(t, "", "recommend", "--server", addr, "--title", "Wildfire")
	assert.Equal(t, exitInvalid, res.code)

	res = run(t, "", "render", "--server", addr, "--title", "Wildfire", "--description", "d")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Title: Wildfire\n")
}

func TestDevCerts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")

	res := run(t, "", "dev-certs", "--out", dir, "--host", "localhost")

	require.Equal(t, exitOK, res.code, res.stderr)
	for _, name := range []string{"ca.pem", "ca-key.pem", "server.pem", "server-key.pem"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.Contains(t, res.stdout, "TLS_CERT_FILE="+filepath.Join(dir, "server.pem"))
}

func TestEventsTail_RequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")

	res := run(t, "", "events", "tail")

	assert.Equal(t, exitFailure, res.code)
	assert.Contains(t, res.stderr, "no brokers configured")
}

func TestEventPrinter(t *testing.T) {
	var out bytes.Buffer
	c := &cli{out: &out}

	envelope := func(eventType string) pkgkafka.Message {
		b, err := json.Marshal(events.Envelope{EventType: eventType, Payload: json.RawMessage(`{"status":"CRITICAL"}`)})
		require.NoError(t, err)
		return pkgkafka.Message{Value: b}
	}

	printAll := c.eventPrinter("")
	require.NoError(t, printAll(context.Background(), envelope("triage.recommendation.generated")))
	require.NoError(t, printAll(context.Background(), envelope("triage.critical_risk.flagged")))
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))

	out.Reset()
	onlyCritical := c.eventPrinter("triage.critical_risk.flagged")
	require.NoError(t, onlyCritical(context.Background(), envelope("triage.recommendation.generated")))
	require.NoError(t, onlyCritical(context.Background(), envelope("triage.critical_risk.flagged")))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.Contains(t, out.String(), `"event_type":"triage.critical_risk.flagged"`)

	assert.Error(t, printAll(context.Background(), pkgkafka.Message{Value: []byte("not json")}))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &model.ValidationError{Field: "title", Reason: "must not be empty"}, want: exitInvalid},
		{name: "wrapped validation", err: fmt.Errorf("run: %w", &model.ValidationError{Reason: "x"}), want: exitInvalid},
		{name: "backend", err: &model.BackendError{Backend: "gemini", Err: errors.New("down")}, want: exitUnavailable},
		{name: "grpc invalid argument", err: status.Error(codes.InvalidArgument, "bad"), want: exitInvalid},
		{name: "grpc unavailable", err: status.Error(codes.Unavailable, "down"), want: exitUnavailable},
		{name: "grpc internal", err: status.Error(codes.Internal, "boom"), want: exitFailure},
		{name: "schema violation", err: model.NewSchemaViolation("bad", nil), want: exitFailure},
		{name: "plain", err: errors.New("boom"), want: exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
