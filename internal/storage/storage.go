package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/trademcp/trademcp/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrHandshakeNotFound = errors.New("handshake not found")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, fullName, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// TokenCache stores broker access tokens keyed by broker API key.
// Get returns ("", nil) on a miss; a non-nil error means the backing
// store itself failed, which callers may choose to downgrade to a miss.
type TokenCache interface {
	Get(ctx context.Context, apiKey string) (string, error)
	Put(ctx context.Context, apiKey, token string, ttl time.Duration) error
}

// HandshakeStore keeps pending broker login attempts. Entries carry a TTL
// so abandoned logins expire instead of accumulating.
type HandshakeStore interface {
	Create(ctx context.Context, id string, hs models.PendingHandshake, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.PendingHandshake, error)
	Delete(ctx context.Context, id string) error
}
