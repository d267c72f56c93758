package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	vmerrors "vibemaker/internal/errors"
)

func newCompletionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"lines": ["hi"]}`}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	})

	client, err := NewOpenAIClient("test-model", Config{APIKey: "secret", BaseURL: server.URL})
	require.NoError(t, err)

	resp, err := client.Complete(context.Background(), CompletionRequest{
		Messages:    []Message{{Role: "user", Content: "write captions"}},
		Temperature: 0.9,
		MaxTokens:   128,
	})
	require.NoError(t, err)
	require.Equal(t, `{"lines": ["hi"]}`, resp.Content)
	require.Equal(t, 15, resp.Usage.TotalTokens)

	require.Equal(t, "Bearer secret", gotAuth)
	require.Equal(t, "test-model", gotBody["model"])
	require.Equal(t, float64(128), gotBody["max_tokens"])
	require.Equal(t, false, gotBody["stream"])
}

func TestOpenAIClientDefaultsMaxTokens(t *testing.T) {
	var gotBody map[string]any
	server := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	})

	client, err := NewOpenAIClient("test-model", Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)
	require.Equal(t, float64(defaultMaxTokens), gotBody["max_tokens"])
}

func TestOpenAIClientAuthFailureIsPermanent(t *testing.T) {
	server := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
	})

	client, err := NewOpenAIClient("test-model", Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)
	require.True(t, vmerrors.IsPermanent(err))
}

func TestOpenAIClientRateLimitIsTransient(t *testing.T) {
	server := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	client, err := NewOpenAIClient("test-model", Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)
	require.True(t, vmerrors.IsTransient(err))

	var transient *vmerrors.TransientError
	require.ErrorAs(t, err, &transient)
	require.Equal(t, 3, transient.RetryAfter)
}

func TestOpenAIClientServerErrorIsTransient(t *testing.T) {
	server := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusBadGateway)
	})

	client, err := NewOpenAIClient("test-model", Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)
	require.True(t, vmerrors.IsTransient(err))
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := newCompletionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	client, err := NewOpenAIClient("test-model", Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)
	require.True(t, vmerrors.IsPermanent(err))
}

func TestNewOpenAIClientRequiresModel(t *testing.T) {
	_, err := NewOpenAIClient("  ", Config{})
	require.Error(t, err)
}

func TestReadCompletionBodySmall(t *testing.T) {
	data, err := readCompletionBody(strings.NewReader(`{"choices": []}`))
	require.NoError(t, err)
	require.Equal(t, `{"choices": []}`, string(data))
}

func TestReadCompletionBodyRejectsOversized(t *testing.T) {
	_, err := readCompletionBody(strings.NewReader(strings.Repeat("x", maxResponseBodySize+1)))
	require.Error(t, err)
	require.True(t, vmerrors.IsPermanent(err))
	require.Contains(t, err.Error(), "completion response")
}

func TestReadCompletionBodyExactLimit(t *testing.T) {
	data, err := readCompletionBody(strings.NewReader(strings.Repeat("x", maxResponseBodySize)))
	require.NoError(t, err)
	require.Len(t, data, maxResponseBodySize)
}
