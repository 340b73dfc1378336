package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/storage"
)

// ProfileService proxies broker profile reads, gated on the token cache
// exactly like the order operations.
type ProfileService struct {
	cache     storage.TokenCache
	newBroker BrokerFactory
	log       *zap.SugaredLogger
}

func NewProfileService(cache storage.TokenCache, newBroker BrokerFactory, log *zap.SugaredLogger) *ProfileService {
	return &ProfileService{
		cache:     cache,
		newBroker: newBroker,
		log:       log,
	}
}

func (s *ProfileService) Profile(ctx context.Context, apiKey string) (*models.Profile, error) {
	token, err := s.cache.Get(ctx, apiKey)
	if err != nil {
		s.log.Errorw("token cache lookup failed", "error", err, "apiKey", apiKey)
		return nil, ErrNotAuthenticated
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	broker := s.newBroker(apiKey, token)
	profile, err := broker.Profile(ctx)
	if err != nil {
		s.log.Errorw("profile fetch failed", "error", err)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	s.log.Infow("Profile retrieved", "userID", profile.UserID)
	return profile, nil
}
