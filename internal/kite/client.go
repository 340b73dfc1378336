package kite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trademcp/trademcp/internal/models"
)

const (
	kiteVersion    = "3"
	requestTimeout = 30 * time.Second
)

// Error is the broker's error envelope. ErrorType carries the Kite exception
// class (TokenException, InputException, ...) used for domain error mapping.
type Error struct {
	Code      int    `json:"-"`
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("kite: %s (%s)", e.Message, e.ErrorType)
}

// Client is a Kite Connect v3 REST client bound to one API key and,
// once set, one access token.
type Client struct {
	apiKey      string
	accessToken string
	apiBase     string
	loginBase   string
	httpClient  *http.Client
}

type Option func(*Client)

func WithBaseURL(apiBase string) Option {
	return func(c *Client) { c.apiBase = apiBase }
}

func WithLoginBase(loginBase string) Option {
	return func(c *Client) { c.loginBase = loginBase }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		apiBase:    "https://api.kite.trade",
		loginBase:  "https://kite.zerodha.com/connect/login",
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// LoginURL returns the broker login page the end user must be redirected to.
func (c *Client) LoginURL() string {
	return fmt.Sprintf("%s?v=%s&api_key=%s", c.loginBase, kiteVersion, url.QueryEscape(c.apiKey))
}

// GenerateSession exchanges a callback request token for an access token.
// The checksum is SHA-256 over api_key + request_token + api_secret.
func (c *Client) GenerateSession(ctx context.Context, requestToken, apiSecret string) (*models.BrokerSession, error) {
	sum := sha256.Sum256([]byte(c.apiKey + requestToken + apiSecret))

	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("request_token", requestToken)
	form.Set("checksum", hex.EncodeToString(sum[:]))

	var session models.BrokerSession
	if err := c.doForm(ctx, http.MethodPost, "/session/token", form, &session); err != nil {
		return nil, err
	}

	c.SetAccessToken(session.AccessToken)
	return &session, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (string, error) {
	form := url.Values{}
	form.Set("tradingsymbol", req.TradingSymbol)
	form.Set("exchange", req.Exchange)
	form.Set("transaction_type", req.TransactionType)
	form.Set("quantity", strconv.FormatInt(req.Quantity, 10))
	form.Set("product", req.Product)
	form.Set("order_type", req.OrderType)

	var resp struct {
		OrderID string `json:"order_id"`
	}
	if err := c.doForm(ctx, http.MethodPost, "/orders/regular", form, &resp); err != nil {
		return "", err
	}
	return resp.OrderID, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.doForm(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Positions(ctx context.Context) (*models.Positions, error) {
	var positions models.Positions
	if err := c.doForm(ctx, http.MethodGet, "/portfolio/positions", nil, &positions); err != nil {
		return nil, err
	}
	return &positions, nil
}

func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.doForm(ctx, http.MethodGet, "/user/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Kite-Version", kiteVersion)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "token "+c.apiKey+":"+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kite request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read kite response: %w", err)
	}

	var envelope struct {
		Status    string          `json:"status"`
		Data      json.RawMessage `json:"data"`
		Message   string          `json:"message"`
		ErrorType string          `json:"error_type"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("decode kite response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices || envelope.Status == "error" {
		return &Error{
			Code:      resp.StatusCode,
			ErrorType: envelope.ErrorType,
			Message:   envelope.Message,
		}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode kite data: %w", err)
		}
	}
	return nil
}
