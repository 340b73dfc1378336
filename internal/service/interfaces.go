package service

import (
	"context"

	"github.com/trademcp/trademcp/internal/models"
)

// BrokerClient is the slice of the Kite Connect client the services use.
type BrokerClient interface {
	LoginURL() string
	GenerateSession(ctx context.Context, requestToken, apiSecret string) (*models.BrokerSession, error)
	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (string, error)
	Orders(ctx context.Context) ([]models.Order, error)
	Positions(ctx context.Context) (*models.Positions, error)
	Profile(ctx context.Context) (*models.Profile, error)
}

// BrokerFactory builds a broker client for one API key / access token pair.
// Services never construct transport themselves; the factory is injected at
// startup so tests can substitute a stub broker.
type BrokerFactory func(apiKey, accessToken string) BrokerClient
