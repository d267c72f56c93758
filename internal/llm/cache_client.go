package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"vibemaker/internal/logging"
)

const (
	defaultCacheMaxSize = 256
	defaultCacheTTL     = 5 * time.Minute
)

// CacheConfig configures the completion reply cache.
type CacheConfig struct {
	// MaxSize is the maximum number of entries in the LRU cache.
	MaxSize int
	// TTL is how long a cached reply remains valid.
	TTL time.Duration
}

// DefaultCacheConfig returns sensible defaults for completion caching.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxSize: defaultCacheMaxSize,
		TTL:     defaultCacheTTL,
	}
}

type cacheEntry struct {
	response CompletionResponse
	storedAt time.Time
}

// cachingClient wraps a completion client with a TTL'd LRU cache keyed by the
// full request. Identical prompts within the TTL reuse the prior reply
// instead of paying for another completion.
type cachingClient struct {
	underlying Client
	cache      *lru.Cache[string, cacheEntry]
	ttl        time.Duration
	logger     logging.Logger
	now        func() time.Time
}

// NewCachingClient wraps client with a reply cache.
func NewCachingClient(client Client, config CacheConfig) (Client, error) {
	maxSize := config.MaxSize
	if maxSize <= 0 {
		maxSize = defaultCacheMaxSize
	}
	ttl := config.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	cache, err := lru.New[string, cacheEntry](maxSize)
	if err != nil {
		return nil, fmt.Errorf("create completion cache: %w", err)
	}
	return &cachingClient{
		underlying: client,
		cache:      cache,
		ttl:        ttl,
		logger:     logging.NewComponentLogger("llm-cache"),
		now:        time.Now,
	}, nil
}

func (c *cachingClient) Model() string {
	return c.underlying.Model()
}

func (c *cachingClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.NoCache {
		return c.underlying.Complete(ctx, req)
	}

	key := cacheKey(c.underlying.Model(), req)

	if entry, ok := c.cache.Get(key); ok {
		if c.now().Sub(entry.storedAt) <= c.ttl {
			c.logger.Debug("Cache hit for completion request")
			resp := entry.response
			return &resp, nil
		}
		c.cache.Remove(key)
	}

	resp, err := c.underlying.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, cacheEntry{response: *resp, storedAt: c.now()})
	return resp, nil
}

// cacheKey hashes every request field that influences the reply. The
// RequestID is deliberately excluded so retries of the same prompt hit.
func cacheKey(model string, req CompletionRequest) string {
	var b strings.Builder
	b.WriteString(model)
	fmt.Fprintf(&b, "|t=%.3f|m=%d", req.Temperature, req.MaxTokens)
	for _, msg := range req.Messages {
		b.WriteString("|")
		b.WriteString(msg.Role)
		b.WriteString(":")
		b.WriteString(msg.Content)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
