package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/storage"
)

const handshakeKeyPrefix = "kite_handshake:"

// HandshakeStore keeps pending login attempts in Redis. The per-entry TTL
// makes abandoned handshakes expire instead of leaking.
type HandshakeStore struct {
	client *redis.Client
}

func NewHandshakeStore(client *redis.Client) *HandshakeStore {
	return &HandshakeStore{client: client}
}

func (s *HandshakeStore) Create(ctx context.Context, id string, hs models.PendingHandshake, ttl time.Duration) error {
	payload, err := json.Marshal(hs)
	if err != nil {
		return fmt.Errorf("marshal handshake: %w", err)
	}
	return s.client.Set(ctx, handshakeKeyPrefix+id, payload, ttl).Err()
}

func (s *HandshakeStore) Get(ctx context.Context, id string) (*models.PendingHandshake, error) {
	payload, err := s.client.Get(ctx, handshakeKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, storage.ErrHandshakeNotFound
	} else if err != nil {
		return nil, err
	}

	var hs models.PendingHandshake
	if err := json.Unmarshal(payload, &hs); err != nil {
		return nil, fmt.Errorf("unmarshal handshake: %w", err)
	}
	return &hs, nil
}

func (s *HandshakeStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, handshakeKeyPrefix+id).Err()
}
