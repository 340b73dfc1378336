package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/storage"
	"github.com/trademcp/trademcp/internal/util"
)

//nolint:stylecheck // user-facing messages
var (
	ErrUserExists   = errors.New("User already exists")
	ErrInvalidLogin = errors.New("Invalid credentials")
	ErrTokenInvalid = errors.New("invalid token")
)

const bcryptCost = 10

// AuthService handles app-user registration and login. The tokens it issues
// are app-session JWTs, entirely separate from broker access tokens.
type AuthService struct {
	users storage.UserRepository
	cfg   *util.TokenConfig
	log   *zap.SugaredLogger
}

func NewAuthService(users storage.UserRepository, cfg *util.TokenConfig, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
		log:   log,
	}
}

type appClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*models.AuthResult, error) {
	s.log.Infow("Registering user", "email", email)

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		s.log.Warnw("Registration failed: user exists", "email", email)
		return nil, ErrUserExists
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, fullName, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Infow("User registered", "email", email, "userID", user.ID)

	return &models.AuthResult{User: user.Public(), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	s.log.Infow("Login attempt", "email", email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.log.Warnw("Login failed: user not found", "email", email)
			return nil, ErrInvalidLogin
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warnw("Login failed: invalid password", "email", email)
		return nil, ErrInvalidLogin
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Infow("User logged in", "email", email, "userID", user.ID)

	return &models.AuthResult{User: user.Public(), Token: token}, nil
}

// Me resolves an app-session token to the user it was issued for.
// Both a bad token and a token for a since-deleted user surface as a 401.
func (s *AuthService) Me(ctx context.Context, token string) (*models.PublicUser, error) {
	userID, err := s.VerifyToken(token)
	if err != nil {
		return nil, util.NewResponseError(http.StatusUnauthorized, "Invalid or expired token")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, util.NewResponseError(http.StatusUnauthorized, "Invalid or expired token")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	pub := user.Public()
	return &pub, nil
}

// VerifyToken parses an app-session token and returns the user id it carries.
func (s *AuthService) VerifyToken(token string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&appClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, ErrTokenInvalid
			}
			return s.cfg.JwtSecretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*appClaims)
	if !ok || !parsed.Valid {
		return 0, ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &appClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AppTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.cfg.JwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("signed string: %w", err)
	}
	return signed, nil
}
