package memory

import (
	"context"
	"sync"
	"time"

	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/storage"
)

type handshakeEntry struct {
	handshake models.PendingHandshake
	expiresAt time.Time
}

// HandshakeStore is the in-memory twin of the Redis handshake store.
// Expired entries are dropped on access.
type HandshakeStore struct {
	mu      sync.RWMutex
	entries map[string]handshakeEntry
}

func NewHandshakeStore() *HandshakeStore {
	return &HandshakeStore{entries: make(map[string]handshakeEntry)}
}

func (s *HandshakeStore) Create(_ context.Context, id string, hs models.PendingHandshake, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = handshakeEntry{
		handshake: hs,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *HandshakeStore) Get(_ context.Context, id string) (*models.PendingHandshake, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, storage.ErrHandshakeNotFound
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, storage.ErrHandshakeNotFound
	}

	hs := entry.handshake
	return &hs, nil
}

func (s *HandshakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}
