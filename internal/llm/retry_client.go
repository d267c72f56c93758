package llm

import (
	"context"
	"time"

	vmerrors "vibemaker/internal/errors"
	"vibemaker/internal/logging"
)

// retryClient wraps a completion client with retry logic and a circuit breaker.
type retryClient struct {
	underlying     Client
	retryConfig    vmerrors.RetryConfig
	circuitBreaker *vmerrors.CircuitBreaker
	logger         logging.Logger
}

// NewRetryClient wraps a completion client with retry and circuit breaker logic.
func NewRetryClient(client Client, retryConfig vmerrors.RetryConfig, circuitBreaker *vmerrors.CircuitBreaker) Client {
	return &retryClient{
		underlying:     client,
		retryConfig:    retryConfig,
		circuitBreaker: circuitBreaker,
		logger:         logging.NewComponentLogger("llm-retry"),
	}
}

func (c *retryClient) Model() string {
	return c.underlying.Model()
}

func (c *retryClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	resp, err := vmerrors.RetryWithResult(ctx, c.retryConfig, func(ctx context.Context) (*CompletionResponse, error) {
		return vmerrors.ExecuteFunc(c.circuitBreaker, ctx, func(ctx context.Context) (*CompletionResponse, error) {
			return c.underlying.Complete(ctx, req)
		})
	}, c.logger)

	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("Completion request failed after retries (took %v): %v", duration, err)
		return nil, err
	}
	if duration > 5*time.Second {
		c.logger.Debug("Completion request succeeded after %v", duration)
	}
	return resp, nil
}
