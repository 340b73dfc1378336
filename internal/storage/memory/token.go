package memory

import (
	"context"
	"sync"
	"time"
)

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// TokenCache is the in-memory twin of the Redis token cache, with the same
// expiry semantics checked at access time.
type TokenCache struct {
	mu     sync.RWMutex
	tokens map[string]cachedToken
}

func NewTokenCache() *TokenCache {
	return &TokenCache{tokens: make(map[string]cachedToken)}
}

func (c *TokenCache) Get(_ context.Context, apiKey string) (string, error) {
	c.mu.RLock()
	entry, ok := c.tokens[apiKey]
	c.mu.RUnlock()

	if !ok {
		return "", nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.tokens, apiKey)
		c.mu.Unlock()
		return "", nil
	}
	return entry.token, nil
}

func (c *TokenCache) Put(_ context.Context, apiKey, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens[apiKey] = cachedToken{
		token:     token,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
