package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCachingClientReusesIdenticalRequests(t *testing.T) {
	mock := NewMockClient(`{"lines": ["a"]}`)
	client, err := NewCachingClient(mock, DefaultCacheConfig())
	require.NoError(t, err)

	req := CompletionRequest{
		Messages:    []Message{{Role: "user", Content: "same prompt"}},
		Temperature: 0.8,
		MaxTokens:   256,
	}

	first, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	second, err := client.Complete(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, first.Content, second.Content)
	require.Equal(t, 1, mock.CallCount())
}

func TestCachingClientDistinguishesPrompts(t *testing.T) {
	mock := NewMockClient(`{"lines": ["a"]}`, `{"lines": ["b"]}`)
	client, err := NewCachingClient(mock, DefaultCacheConfig())
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "prompt one"}},
	})
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: "user", Content: "prompt two"}},
	})
	require.NoError(t, err)

	require.Equal(t, 2, mock.CallCount())
}

func TestCachingClientExpiresEntries(t *testing.T) {
	mock := NewMockClient(`{"lines": ["a"]}`)
	raw, err := NewCachingClient(mock, CacheConfig{MaxSize: 8, TTL: time.Minute})
	require.NoError(t, err)
	client := raw.(*cachingClient)

	now := time.Now()
	client.now = func() time.Time { return now }

	req := CompletionRequest{Messages: []Message{{Role: "user", Content: "prompt"}}}
	_, err = client.Complete(context.Background(), req)
	require.NoError(t, err)

	client.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = client.Complete(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, 2, mock.CallCount())
}

func TestCachingClientDoesNotCacheErrors(t *testing.T) {
	mock := NewMockClient()
	mock.Err = context.DeadlineExceeded
	client, err := NewCachingClient(mock, DefaultCacheConfig())
	require.NoError(t, err)

	req := CompletionRequest{Messages: []Message{{Role: "user", Content: "prompt"}}}
	_, err = client.Complete(context.Background(), req)
	require.Error(t, err)
	_, err = client.Complete(context.Background(), req)
	require.Error(t, err)

	require.Equal(t, 2, mock.CallCount())
}

func TestCachingClientNoCacheBypassesCache(t *testing.T) {
	mock := NewMockClient(`{"lines": ["a"]}`, `{"lines": ["b"]}`, `{"lines": ["c"]}`)
	client, err := NewCachingClient(mock, DefaultCacheConfig())
	require.NoError(t, err)

	req := CompletionRequest{
		Messages: []Message{{Role: "user", Content: "give me new lines"}},
		NoCache:  true,
	}

	first, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	second, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	require.NotEqual(t, first.Content, second.Content)
	require.Equal(t, 2, mock.CallCount())

	// Bypassed calls must not have seeded the cache either.
	cached := req
	cached.NoCache = false
	_, err = client.Complete(context.Background(), cached)
	require.NoError(t, err)
	require.Equal(t, 3, mock.CallCount())
}

func TestCacheKeyIgnoresRequestID(t *testing.T) {
	a := CompletionRequest{Messages: []Message{{Role: "user", Content: "p"}}, RequestID: "one"}
	b := CompletionRequest{Messages: []Message{{Role: "user", Content: "p"}}, RequestID: "two"}
	require.Equal(t, cacheKey("m", a), cacheKey("m", b))
}
