package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	vmerrors "vibemaker/internal/errors"
	"vibemaker/internal/logging"
)

const (
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultMaxTokens    = 512
	maxResponseBodySize = 1 << 20 // 1 MiB
)

// openaiClient speaks the OpenAI-compatible chat completions API.
type openaiClient struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
	headers    map[string]string
}

// NewOpenAIClient constructs a completion client that speaks the
// OpenAI-compatible chat completions API using the provided configuration.
func NewOpenAIClient(model string, config Config) (Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := 60 * time.Second
	if config.Timeout > 0 {
		timeout = time.Duration(config.Timeout) * time.Second
	}

	logger := logging.NewComponentLogger("llm-openai")

	return &openaiClient{
		model:      model,
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		httpClient: newCompletionHTTPClient(timeout),
		logger:     logger,
		headers:    config.Headers,
	}, nil
}

// Model returns the model name used by this client.
func (c *openaiClient) Model() string {
	return c.model
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	prefix := ""
	if req.RequestID != "" {
		prefix = fmt.Sprintf("[req:%s] ", req.RequestID)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
		"max_tokens":  maxTokens,
		"stream":      false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("%sPOST %s/chat/completions model=%s prompt_tokens~%d max_tokens=%d",
		prefix, c.baseURL, c.model, promptTokens(req.Messages), maxTokens)

	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("%sHTTP request failed: %v", prefix, err)
		return nil, wrapRequestError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := readCompletionBody(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("%sStatus: %d, body %d bytes", prefix, resp.StatusCode, len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapHTTPError(resp.StatusCode, respBody, resp.Header)
	}

	var oaiResp struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage Usage `json:"usage"`
		Error *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		c.logger.Debug("%sFailed to decode response: %v", prefix, err)
		return nil, vmerrors.NewPermanentError(err, "malformed completion response", resp.StatusCode)
	}

	if oaiResp.Error != nil && oaiResp.Error.Message != "" {
		errMsg := oaiResp.Error.Message
		if oaiResp.Error.Type != "" {
			errMsg = fmt.Sprintf("%s: %s", oaiResp.Error.Type, oaiResp.Error.Message)
		}
		return nil, mapHTTPError(resp.StatusCode, []byte(errMsg), resp.Header)
	}

	if len(oaiResp.Choices) == 0 {
		return nil, vmerrors.NewPermanentError(
			fmt.Errorf("no choices in response"), "completion response contained no choices", resp.StatusCode)
	}

	model := oaiResp.Model
	if model == "" {
		model = c.model
	}

	return &CompletionResponse{
		Content: oaiResp.Choices[0].Message.Content,
		Model:   model,
		Usage:   oaiResp.Usage,
	}, nil
}

// readCompletionBody drains the response body, refusing anything past
// maxResponseBodySize. A legitimate completion is a few KB; an oversized body
// will not shrink on retry, so the error is permanent.
func readCompletionBody(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxResponseBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) > maxResponseBodySize {
		return nil, vmerrors.NewPermanentError(
			fmt.Errorf("completion response exceeded %d bytes", maxResponseBodySize),
			"completion response too large", 0)
	}
	return data, nil
}

// wrapRequestError classifies transport-level failures for the retry layer.
func wrapRequestError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return vmerrors.NewTransientError(err, fmt.Sprintf("completion request failed: %v", err), 0)
}

// mapHTTPError converts an HTTP error status into the retry taxonomy.
func mapHTTPError(status int, body []byte, header http.Header) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > 300 {
		detail = detail[:300]
	}
	base := fmt.Errorf("completion service returned %d: %s", status, detail)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return vmerrors.NewPermanentError(base, "completion service rejected credentials", status)
	case status == http.StatusTooManyRequests:
		retryAfter := 0
		if raw := header.Get("Retry-After"); raw != "" {
			if secs, err := strconv.Atoi(raw); err == nil {
				retryAfter = secs
			}
		}
		return &vmerrors.TransientError{Err: base, StatusCode: status, RetryAfter: retryAfter,
			Message: "completion service rate limited"}
	case vmerrors.IsTransientHTTPStatus(status):
		return vmerrors.NewTransientError(base, "", status)
	default:
		return vmerrors.NewPermanentError(base, "", status)
	}
}
