package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/cerebras"
	"github.com/trademcp/trademcp/internal/models"
	"github.com/trademcp/trademcp/internal/service"
	"github.com/trademcp/trademcp/internal/storage"
	"github.com/trademcp/trademcp/internal/storage/memory"
	"github.com/trademcp/trademcp/internal/util"
)

type brokerStub struct {
	apiKey  string
	session *models.BrokerSession
}

func (b *brokerStub) LoginURL() string {
	return "https://kite.zerodha.com/connect/login?v=3&api_key=" + b.apiKey
}

func (b *brokerStub) GenerateSession(_ context.Context, _, _ string) (*models.BrokerSession, error) {
	return b.session, nil
}

func (b *brokerStub) PlaceOrder(_ context.Context, _ models.PlaceOrderRequest) (string, error) {
	return "151220000000000", nil
}

func (b *brokerStub) Orders(_ context.Context) ([]models.Order, error) {
	return []models.Order{{OrderID: "1", TradingSymbol: "INFY"}}, nil
}

func (b *brokerStub) Positions(_ context.Context) (*models.Positions, error) {
	return &models.Positions{Net: []models.Position{{TradingSymbol: "INFY", Quantity: 10}}, Day: []models.Position{}}, nil
}

func (b *brokerStub) Profile(_ context.Context) (*models.Profile, error) {
	return &models.Profile{UserID: "AB1234", UserName: "Test User", Broker: "ZERODHA"}, nil
}

type userRepoStub struct {
	users  map[string]*models.User
	nextID int64
}

func (r *userRepoStub) CreateUser(_ context.Context, fullName, email, passwordHash string) (*models.User, error) {
	r.nextID++
	user := &models.User{ID: r.nextID, FullName: fullName, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	r.users[email] = user
	return user, nil
}

func (r *userRepoStub) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepoStub) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

type completerStub struct{ response string }

func (c *completerStub) Complete(_ context.Context, _ cerebras.CompletionRequest) (string, error) {
	return c.response, nil
}

type testEnv struct {
	echo  *echo.Echo
	cache *memory.TokenCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop().Sugar()
	cache := memory.NewTokenCache()
	handshakes := memory.NewHandshakeStore()
	broker := &brokerStub{
		session: &models.BrokerSession{
			UserID:      "AB1234",
			APIKey:      "key1",
			AccessToken: "AT1",
			PublicToken: "PT1",
		},
	}
	factory := func(apiKey, accessToken string) service.BrokerClient {
		broker.apiKey = apiKey
		return broker
	}

	kiteCfg := &util.KiteConfig{
		APIBase:        "https://api.kite.trade",
		LoginBase:      "https://kite.zerodha.com/connect/login",
		AccessTokenTTL: 24 * time.Hour,
		HandshakeTTL:   10 * time.Minute,
	}
	tokenCfg := &util.TokenConfig{JwtSecretKey: []byte("test-secret"), AppTokenTTL: time.Hour}

	authService := service.NewAuthService(&userRepoStub{users: make(map[string]*models.User)}, tokenCfg, log)
	kiteAuth := service.NewKiteAuthService(handshakes, cache, factory, kiteCfg, log)
	orders := service.NewOrderService(cache, factory, log)
	profile := service.NewProfileService(cache, factory, log)
	reports := service.NewReportService(orders, profile, &completerStub{response: "Steady portfolio."}, log)

	e := echo.New()
	RegisterRoutes(e, NewController(log, authService, kiteAuth, orders, profile, reports))

	return &testEnv{echo: e, cache: cache}
}

func (env *testEnv) request(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func errorMessage(t *testing.T, resp Response) string {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("error data is %T, want object", resp.Data)
	}
	msg, _ := data["message"].(string)
	return msg
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec, resp := env.request(t, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if resp.Status != "Success" {
		t.Errorf("envelope status = %q", resp.Status)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	rec, resp := env.request(t, http.MethodPost, "/auth/register", `{"email":"a@b.com"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, resp); got != "All fields are required" {
		t.Errorf("message = %q", got)
	}
}

func TestRegisterAndLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.request(t, http.MethodPost, "/auth/register",
		`{"fullName":"Test User","email":"test@example.com","password":"hunter22"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rec.Code)
	}
	if resp.Status != "Success" {
		t.Errorf("envelope status = %q", resp.Status)
	}

	rec, _ = env.request(t, http.MethodPost, "/auth/login",
		`{"email":"test@example.com","password":"hunter22"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("login status = %d, want 200", rec.Code)
	}

	rec, resp = env.request(t, http.MethodPost, "/auth/login",
		`{"email":"test@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, resp); got != "Invalid credentials" {
		t.Errorf("message = %q", got)
	}
}

func TestMeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	_, resp := env.request(t, http.MethodPost, "/auth/register",
		`{"fullName":"Test User","email":"test@example.com","password":"hunter22"}`)
	data := resp.Data.(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d: %s", rec.Code, rec.Body.String())
	}
	var meResp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &meResp); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	user := meResp.Data.(map[string]interface{})
	if user["email"] != "test@example.com" || user["fullName"] != "Test User" {
		t.Errorf("unexpected user: %v", meResp.Data)
	}

	rec, resp = env.request(t, http.MethodGet, "/auth/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header status = %d, want 401", rec.Code)
	}
	if got := errorMessage(t, resp); got != "Authorization token is required" {
		t.Errorf("message = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	rec = httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", rec.Code)
	}
	var badResp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &badResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if got := errorMessage(t, badResp); got != "Invalid or expired token" {
		t.Errorf("message = %q", got)
	}
}

func TestKiteLoginValidation(t *testing.T) {
	env := newTestEnv(t)
	rec, resp := env.request(t, http.MethodPost, "/kite/login", `{"apiKey":"key1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, resp); got != "API key and secret are required" {
		t.Errorf("message = %q", got)
	}
}

func TestKiteHandshakeOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.request(t, http.MethodPost, "/kite/login",
		`{"apiKey":"key1","apiSecret":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("kite login status = %d", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	sessionID, _ := data["sessionId"].(string)
	loginURL, _ := data["loginUrl"].(string)
	if sessionID == "" {
		t.Fatal("no session id returned")
	}
	if !strings.Contains(loginURL, "key1") {
		t.Errorf("login URL %q does not contain the API key", loginURL)
	}

	rec, resp = env.request(t, http.MethodPost, "/kite/session",
		`{"sessionId":"`+sessionID+`","requestToken":"reqtok","apiKey":"key1","apiSecret":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("kite session status = %d: %v", rec.Code, resp.Data)
	}
	session := resp.Data.(map[string]interface{})
	if session["accessToken"] != "AT1" {
		t.Errorf("access token = %v", session["accessToken"])
	}
	if session["accessTokenExpiry"] == "" {
		t.Error("no access token expiry returned")
	}

	rec, resp = env.request(t, http.MethodGet, "/kite/token/key1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("kite token status = %d", rec.Code)
	}
	token := resp.Data.(map[string]interface{})
	if token["accessToken"] != "AT1" {
		t.Errorf("stored token = %v", token["accessToken"])
	}

	// The session id is single use.
	rec, resp = env.request(t, http.MethodPost, "/kite/session",
		`{"sessionId":"`+sessionID+`","requestToken":"reqtok","apiKey":"key1","apiSecret":"secret1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("replayed session status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, resp); !strings.Contains(got, "restart the login process") {
		t.Errorf("message = %q", got)
	}
}

func TestKiteSessionValidation(t *testing.T) {
	env := newTestEnv(t)
	rec, resp := env.request(t, http.MethodPost, "/kite/session", `{"sessionId":"x"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, resp); got != "Session ID, request token, API key, and secret are required" {
		t.Errorf("message = %q", got)
	}
}

func TestKiteCallback(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.request(t, http.MethodGet, "/kite/callback?status=success&request_token=reqtok&action=login&type=login", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["requestToken"] != "reqtok" {
		t.Errorf("request token = %v", data["requestToken"])
	}

	// The trade alias serves the same handler.
	rec, _ = env.request(t, http.MethodGet, "/trade/callback?status=success&request_token=reqtok", "")
	if rec.Code != http.StatusOK {
		t.Errorf("trade callback status = %d", rec.Code)
	}

	rec, resp = env.request(t, http.MethodGet, "/kite/callback?status=error", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("failed callback status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, resp); got != "Authentication failed or missing request token" {
		t.Errorf("message = %q", got)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.request(t, http.MethodPost, "/kite/order/place", `{"apiKey":"key1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, resp); got != "API key, trading symbol, quantity, and transaction type are required" {
		t.Errorf("message = %q", got)
	}

	_, resp = env.request(t, http.MethodPost, "/kite/order/place",
		`{"apiKey":"key1","tradingSymbol":"TCS","quantity":5,"transactionType":"HOLD"}`)
	if got := errorMessage(t, resp); got != "Transaction type must be BUY or SELL" {
		t.Errorf("message = %q", got)
	}

	_, resp = env.request(t, http.MethodPost, "/kite/order/place",
		`{"apiKey":"key1","tradingSymbol":"TCS","quantity":-5,"transactionType":"BUY"}`)
	if got := errorMessage(t, resp); got != "Quantity must be greater than 0" {
		t.Errorf("message = %q", got)
	}
}

func TestPlaceOrderRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.request(t, http.MethodPost, "/kite/order/place",
		`{"apiKey":"key1","tradingSymbol":"TCS","quantity":5,"transactionType":"BUY"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, resp); got != "Access token not found. Please authenticate first." {
		t.Errorf("message = %q", got)
	}
}

func TestProxyEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.cache.Put(ctx, "key1", "AT1", time.Hour); err != nil {
		t.Fatalf("cache put: %v", err)
	}

	rec, resp := env.request(t, http.MethodPost, "/kite/order/place",
		`{"apiKey":"key1","tradingSymbol":"TCS","quantity":5,"transactionType":"BUY"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("place order status = %d: %v", rec.Code, resp.Data)
	}
	order := resp.Data.(map[string]interface{})
	if order["orderId"] != "151220000000000" || order["status"] != "success" {
		t.Errorf("unexpected order result: %v", order)
	}

	rec, resp = env.request(t, http.MethodGet, "/kite/orders?apiKey=key1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("orders status = %d", rec.Code)
	}
	book := resp.Data.(map[string]interface{})
	if orders, ok := book["orders"].([]interface{}); !ok || len(orders) != 1 {
		t.Errorf("unexpected order book: %v", book)
	}

	rec, _ = env.request(t, http.MethodGet, "/kite/positions?apiKey=key1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("positions status = %d", rec.Code)
	}

	rec, resp = env.request(t, http.MethodGet, "/kite/profile?apiKey=key1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d", rec.Code)
	}
	profile := resp.Data.(map[string]interface{})
	if profile["user_id"] != "AB1234" {
		t.Errorf("profile user = %v", profile["user_id"])
	}

	rec, resp = env.request(t, http.MethodGet, "/kite/report?apiKey=key1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d", rec.Code)
	}
	report := resp.Data.(map[string]interface{})
	if text, _ := report["report"].(string); !strings.Contains(text, "Steady portfolio.") {
		t.Errorf("report = %v", report["report"])
	}
}

func TestProxyEndpointsRequireAPIKey(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/kite/orders", "/kite/positions", "/kite/profile", "/kite/report"} {
		rec, resp := env.request(t, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, rec.Code)
		}
		if got := errorMessage(t, resp); got != "API key is required" {
			t.Errorf("%s message = %q", target, got)
		}
	}
}
