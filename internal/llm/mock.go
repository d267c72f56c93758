package llm

import (
	"context"
	"sync"
)

// MockClient implements Client for testing. Replies are consumed in order;
// the last reply repeats once the script is exhausted.
type MockClient struct {
	ModelName string
	Replies   []string
	Err       error

	mu       sync.Mutex
	calls    []CompletionRequest
	position int
}

// NewMockClient returns a mock that replays the provided replies.
func NewMockClient(replies ...string) *MockClient {
	return &MockClient{ModelName: "mock-model", Replies: replies}
}

func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Replies) == 0 {
		return &CompletionResponse{Content: "", Model: m.Model()}, nil
	}

	idx := m.position
	if idx >= len(m.Replies) {
		idx = len(m.Replies) - 1
	} else {
		m.position++
	}

	return &CompletionResponse{
		Content: m.Replies[idx],
		Model:   m.Model(),
		Usage:   Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

// Calls returns a copy of every request seen so far.
func (m *MockClient) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many completions have been requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
