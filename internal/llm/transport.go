package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	vmerrors "vibemaker/internal/errors"
)

// breakerTransport fails fast once the completion endpoint looks degraded,
// so a burst of caption requests cannot pile onto a dead upstream. It sits
// below the per-request retry layer, which has its own breaker around whole
// completions.
type breakerTransport struct {
	next    http.RoundTripper
	breaker *vmerrors.CircuitBreaker
}

// newCompletionHTTPClient builds the HTTP client used to reach the
// completion endpoint, with the breaker wrapped around the transport.
func newCompletionHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var next http.RoundTripper = http.DefaultTransport
	if base, ok := http.DefaultTransport.(*http.Transport); ok {
		cloned := base.Clone()
		cloned.MaxIdleConnsPerHost = 4
		next = cloned
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &breakerTransport{
			next:    next,
			breaker: vmerrors.NewCircuitBreaker("openai", vmerrors.DefaultCircuitBreakerConfig()),
		},
	}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.breaker.Allow(); err != nil {
		return nil, err
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		// A caller hanging up is not an upstream failure.
		if !errors.Is(err, context.Canceled) {
			t.breaker.Mark(err)
			return nil, err
		}
		t.breaker.Mark(nil)
		return nil, err
	}

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		t.breaker.Mark(fmt.Errorf("http status %d", resp.StatusCode))
	} else {
		t.breaker.Mark(nil)
	}
	return resp, nil
}
