package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/storage"
)

// ErrNotAuthenticated surfaces verbatim in API responses; the wording is part
// of the contract clients key on.
//nolint:stylecheck // user-facing message
var ErrNotAuthenticated = errors.New("Access token not found. Please authenticate first.")

const (
	defaultExchange  = "NSE"
	defaultProduct   = "CNC"
	defaultOrderType = "MARKET"
)

// OrderService proxies order placement and portfolio reads to the broker.
// Every operation requires a cached access token for the API key; there is
// no implicit re-authentication.
type OrderService struct {
	cache     storage.TokenCache
	newBroker BrokerFactory
	log       *zap.SugaredLogger
}

func NewOrderService(cache storage.TokenCache, newBroker BrokerFactory, log *zap.SugaredLogger) *OrderService {
	return &OrderService{
		cache:     cache,
		newBroker: newBroker,
		log:       log,
	}
}

func (s *OrderService) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.OrderResult, error) {
	if req.Exchange == "" {
		req.Exchange = defaultExchange
	}
	if req.Product == "" {
		req.Product = defaultProduct
	}
	if req.OrderType == "" {
		req.OrderType = defaultOrderType
	}

	s.log.Infow("Placing order",
		"transactionType", req.TransactionType,
		"tradingSymbol", req.TradingSymbol,
		"quantity", req.Quantity,
		"exchange", req.Exchange,
	)

	broker, err := s.authenticatedBroker(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}

	orderID, err := broker.PlaceOrder(ctx, req)
	if err != nil {
		s.log.Errorw("order placement failed", "error", err, "tradingSymbol", req.TradingSymbol)
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.log.Infow("Order placed", "orderID", orderID)

	return &models.OrderResult{
		OrderID: orderID,
		Status:  "success",
		Message: "Order placed successfully",
	}, nil
}

func (s *OrderService) OrderBook(ctx context.Context, apiKey string) (*models.OrderBook, error) {
	broker, err := s.authenticatedBroker(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	orders, err := broker.Orders(ctx)
	if err != nil {
		s.log.Errorw("order book fetch failed", "error", err)
		return nil, fmt.Errorf("failed to get order book: %w", err)
	}

	s.log.Infow("Order book retrieved", "orders", len(orders))
	return &models.OrderBook{Orders: orders}, nil
}

func (s *OrderService) Positions(ctx context.Context, apiKey string) (*models.Positions, error) {
	broker, err := s.authenticatedBroker(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	positions, err := broker.Positions(ctx)
	if err != nil {
		s.log.Errorw("positions fetch failed", "error", err)
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	s.log.Infow("Positions retrieved", "net", len(positions.Net), "day", len(positions.Day))
	return positions, nil
}

// authenticatedBroker resolves the cached access token for the API key and
// builds a broker client with it. A cache miss (or an unavailable cache,
// downgraded after logging) fails before any broker client is constructed.
func (s *OrderService) authenticatedBroker(ctx context.Context, apiKey string) (BrokerClient, error) {
	token, err := s.cache.Get(ctx, apiKey)
	if err != nil {
		s.log.Errorw("token cache lookup failed", "error", err, "apiKey", apiKey)
		return nil, ErrNotAuthenticated
	}
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return s.newBroker(apiKey, token), nil
}
