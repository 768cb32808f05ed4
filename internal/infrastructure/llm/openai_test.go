package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinith-15116/studio1/internal/domain/model"
)

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(body)
}

func TestOpenAIBackend_Classify(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(completion(`{"status":"NORMAL","explanation":"stable"}`)))
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.Client(), server.URL+"/v1/", "sk-test", "gpt-4o-mini")
	raw, err := backend.Classify(context.Background(), "the prompt", model.PrioritizationSchema())

	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"NORMAL","explanation":"stable"}`, string(raw))

	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "the prompt", got.Messages[0].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	require.NotNil(t, got.ResponseFormat.JSONSchema)
	assert.True(t, got.ResponseFormat.JSONSchema.Strict)
	assert.Equal(t, "PrioritizationResult", got.ResponseFormat.JSONSchema.Name)
	assert.Equal(t, false, got.ResponseFormat.JSONSchema.Schema["additionalProperties"])
}

func TestOpenAIBackend_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`, wantErr: "status 500"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: "status 401"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: "status 429"},
		{name: "api error in body", status: http.StatusOK, body: `{"error":{"message":"quota"}}`, wantErr: "API error: quota"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no completion"},
		{name: "refusal", status: http.StatusOK, body: `{"choices":[{"message":{"refusal":"cannot help"}}]}`, wantErr: "refused"},
		{name: "empty content", status: http.StatusOK, body: completion(""), wantErr: "empty completion"},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			backend := NewOpenAIBackend(server.Client(), server.URL, "k", "m")
			raw, err := backend.Classify(context.Background(), "p", model.PrioritizationSchema())

			require.Error(t, err)
			assert.Nil(t, raw)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenAIBackend_OversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBytes+10)))
	}))
	defer server.Close()

	backend := NewOpenAIBackend(server.Client(), server.URL, "k", "m")
	_, err := backend.Classify(context.Background(), "p", model.PrioritizationSchema())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestOpenAIBackend_HonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := NewOpenAIBackend(server.Client(), server.URL, "k", "m")
	_, err := backend.Classify(ctx, "p", model.PrioritizationSchema())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
