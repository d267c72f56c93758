package llm

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	vmerrors "vibemaker/internal/errors"
)

func newBreakerTestClient(failures int) *http.Client {
	return &http.Client{Transport: &breakerTransport{
		next: http.DefaultTransport,
		breaker: vmerrors.NewCircuitBreaker("completion-test", vmerrors.CircuitBreakerConfig{
			FailureThreshold: failures,
			SuccessThreshold: 1,
			Timeout:          time.Minute,
		}),
	}}
}

func TestBreakerTransportOpensAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newBreakerTestClient(2)

	// Failing statuses pass through until the threshold trips the breaker.
	for i := 0; i < 2; i++ {
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		_ = resp.Body.Close()
	}

	_, err := client.Get(server.URL)
	require.Error(t, err)
	require.True(t, vmerrors.IsDegraded(err), "open breaker should surface a degraded error, got %v", err)
}

func TestBreakerTransportPassesSuccesses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newCompletionHTTPClient(time.Second)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	}
}
