package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const accessTokenKeyPrefix = "kite_access_token:"

// TokenCache stores broker access tokens in Redis with a per-key expiry.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) Get(ctx context.Context, apiKey string) (string, error) {
	token, err := c.client.Get(ctx, accessTokenKeyPrefix+apiKey).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return token, nil
}

func (c *TokenCache) Put(ctx context.Context, apiKey, token string, ttl time.Duration) error {
	return c.client.Set(ctx, accessTokenKeyPrefix+apiKey, token, ttl).Err()
}
