// Package llm provides the completion-service client used by the generation
// pipeline: an OpenAI-compatible HTTP client plus retry and caching
// decorators, all behind a small Client interface.
package llm

import (
	"context"
)

// Message is a single chat turn sent to the completion service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one call to the completion service.
type CompletionRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
	RequestID   string

	// NoCache skips the reply cache for this request. Revision-loop calls
	// set it: replaying a cached reply there would return text the caller
	// has already rejected.
	NoCache bool
}

// Usage reports token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the parsed reply from the completion service.
type CompletionResponse struct {
	Content string
	Model   string
	Usage   Usage
}

// Client is the completion-service contract consumed by generation
// strategies and the revision engine.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

// Config configures HTTP-based completion clients.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    int // seconds
	MaxRetries int
	Headers    map[string]string
}
