package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/kite"
	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/storage"
	"github.com/trademcp/trademcp/internal/util"
)

// These messages surface verbatim in API responses; clients key on the
// "restart the login process" wording to distinguish state errors from
// retryable exchange failures.
//nolint:stylecheck // user-facing messages
var (
	ErrSessionNotFound     = errors.New("Invalid or expired session ID. Please restart the login process.")
	ErrInvalidRequestToken = errors.New("Invalid or expired request token. Please try logging in again.")
	ErrInvalidCredentials  = errors.New("Invalid API key or secret. Please check your credentials.")
	ErrTokenNotFound       = errors.New("Access token not found or expired")
)

// KiteAuthService coordinates the broker login handshake: it issues login
// URLs against pending credential records and later exchanges the broker's
// callback token for a cached access token.
type KiteAuthService struct {
	handshakes storage.HandshakeStore
	cache      storage.TokenCache
	newBroker  BrokerFactory
	cfg        *util.KiteConfig
	log        *zap.SugaredLogger
}

func NewKiteAuthService(
	handshakes storage.HandshakeStore,
	cache storage.TokenCache,
	newBroker BrokerFactory,
	cfg *util.KiteConfig,
	log *zap.SugaredLogger,
) *KiteAuthService {
	return &KiteAuthService{
		handshakes: handshakes,
		cache:      cache,
		newBroker:  newBroker,
		cfg:        cfg,
		log:        log,
	}
}

// GenerateLoginURL starts a handshake: it synthesizes the broker login URL
// for the API key and stores the credentials under a fresh session id.
func (s *KiteAuthService) GenerateLoginURL(ctx context.Context, apiKey, apiSecret string) (*models.KiteLoginResponse, error) {
	broker := s.newBroker(apiKey, "")
	loginURL := broker.LoginURL()

	sessionID := uuid.NewString()
	hs := models.PendingHandshake{
		APIKey:    apiKey,
		APISecret: apiSecret,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.handshakes.Create(ctx, sessionID, hs, s.cfg.HandshakeTTL); err != nil {
		s.log.Errorw("failed to store pending handshake", "error", err)
		return nil, fmt.Errorf("failed to generate login URL: %w", err)
	}

	s.log.Infow("Generated login URL", "apiKey", apiKey, "sessionID", sessionID)

	return &models.KiteLoginResponse{
		LoginURL:  loginURL,
		SessionID: sessionID,
	}, nil
}

// GenerateSession completes a handshake. The pending record is consumed only
// on success; a broker failure leaves it intact so the caller can retry the
// exchange without restarting the whole login.
func (s *KiteAuthService) GenerateSession(ctx context.Context, sessionID, requestToken string) (*models.KiteSession, error) {
	hs, err := s.handshakes.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrHandshakeNotFound) {
			s.log.Errorw("handshake store lookup failed", "error", err, "sessionID", sessionID)
		}
		s.log.Warnw("Session not found", "sessionID", sessionID)
		return nil, ErrSessionNotFound
	}

	broker := s.newBroker(hs.APIKey, "")
	session, err := broker.GenerateSession(ctx, requestToken, hs.APISecret)
	if err != nil {
		s.log.Errorw("broker session exchange failed", "error", err, "apiKey", hs.APIKey)
		return nil, mapBrokerAuthError(err)
	}

	mintedAt := time.Now()
	if err := s.cache.Put(ctx, hs.APIKey, session.AccessToken, s.cfg.AccessTokenTTL); err != nil {
		// Record retained: the exchange can be retried once the cache recovers.
		s.log.Errorw("failed to store access token", "error", err, "apiKey", hs.APIKey)
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}

	if err := s.handshakes.Delete(ctx, sessionID); err != nil {
		s.log.Errorw("failed to delete pending handshake", "error", err, "sessionID", sessionID)
	}

	s.log.Infow("Kite session generated", "apiKey", hs.APIKey, "userID", session.UserID)

	return &models.KiteSession{
		AccessToken:       session.AccessToken,
		PublicToken:       session.PublicToken,
		LoginTime:         session.LoginTime,
		UserID:            session.UserID,
		Email:             session.Email,
		UserName:          session.UserName,
		UserShortName:     session.UserShortName,
		Broker:            session.Broker,
		Exchanges:         session.Exchanges,
		Products:          session.Products,
		OrderTypes:        session.OrderTypes,
		UserType:          session.UserType,
		APIKey:            session.APIKey,
		AccessTokenExpiry: mintedAt.Add(s.cfg.AccessTokenTTL).UTC().Format(time.RFC3339),
	}, nil
}

// StoredAccessToken returns the cached access token for an API key.
func (s *KiteAuthService) StoredAccessToken(ctx context.Context, apiKey string) (string, error) {
	token, err := s.cache.Get(ctx, apiKey)
	if err != nil {
		s.log.Errorw("token cache lookup failed", "error", err, "apiKey", apiKey)
		return "", ErrTokenNotFound
	}
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func mapBrokerAuthError(err error) error {
	var kiteErr *kite.Error
	if errors.As(err, &kiteErr) {
		switch {
		case kiteErr.ErrorType == "TokenException" || strings.Contains(kiteErr.Message, "request_token"):
			return fmt.Errorf("%w: %s", ErrInvalidRequestToken, kiteErr.Message)
		case strings.Contains(kiteErr.Message, "api_key") || strings.Contains(kiteErr.Message, "checksum"):
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, kiteErr.Message)
		}
	}
	return fmt.Errorf("failed to generate access token: %w", err)
}
