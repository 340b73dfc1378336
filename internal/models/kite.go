package models

import "time"

// PendingHandshake holds the broker credentials of an in-flight login attempt.
// A record lives from login-URL issuance until the session exchange consumes it
// or the handshake TTL expires it.
type PendingHandshake struct {
	APIKey    string    `json:"api_key"`
	APISecret string    `json:"api_secret"`
	CreatedAt time.Time `json:"created_at"`
}

type KiteLoginRequest struct {
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
}

type KiteLoginResponse struct {
	LoginURL  string `json:"loginUrl"`
	SessionID string `json:"sessionId"`
}

type KiteSessionRequest struct {
	SessionID    string `json:"sessionId"`
	RequestToken string `json:"requestToken"`
	APIKey       string `json:"apiKey"`
	APISecret    string `json:"apiSecret"`
}

// KiteSession is the payload returned by a successful session exchange:
// the minted access token plus the broker's account metadata snapshot.
type KiteSession struct {
	AccessToken       string   `json:"accessToken"`
	PublicToken       string   `json:"publicToken"`
	LoginTime         string   `json:"loginTime"`
	UserID            string   `json:"userId"`
	Email             string   `json:"email"`
	UserName          string   `json:"userName"`
	UserShortName     string   `json:"userShortName"`
	Broker            string   `json:"broker"`
	Exchanges         []string `json:"exchanges"`
	Products          []string `json:"products"`
	OrderTypes        []string `json:"orderTypes"`
	UserType          string   `json:"userType"`
	APIKey            string   `json:"apiKey"`
	AccessTokenExpiry string   `json:"accessTokenExpiry"`
}

type KiteCallbackResponse struct {
	Action       string `json:"action"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	RequestToken string `json:"requestToken"`
}

type PlaceOrderRequest struct {
	APIKey          string `json:"apiKey"`
	TradingSymbol   string `json:"tradingSymbol"`
	Quantity        int64  `json:"quantity"`
	TransactionType string `json:"transactionType"`
	Exchange        string `json:"exchange,omitempty"`
	Product         string `json:"product,omitempty"`
	OrderType       string `json:"orderType,omitempty"`
}

type OrderResult struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Order struct {
	OrderID         string  `json:"order_id"`
	Status          string  `json:"status"`
	TradingSymbol   string  `json:"tradingsymbol"`
	Exchange        string  `json:"exchange"`
	TransactionType string  `json:"transaction_type"`
	OrderType       string  `json:"order_type"`
	Product         string  `json:"product"`
	Quantity        int64   `json:"quantity"`
	FilledQuantity  int64   `json:"filled_quantity"`
	Price           float64 `json:"price"`
	AveragePrice    float64 `json:"average_price"`
	StatusMessage   string  `json:"status_message"`
	OrderTimestamp  string  `json:"order_timestamp"`
}

type OrderBook struct {
	Orders []Order `json:"orders"`
}

type Position struct {
	TradingSymbol string  `json:"tradingsymbol"`
	Exchange      string  `json:"exchange"`
	Product       string  `json:"product"`
	Quantity      int64   `json:"quantity"`
	AveragePrice  float64 `json:"average_price"`
	LastPrice     float64 `json:"last_price"`
	PnL           float64 `json:"pnl"`
	Value         float64 `json:"value"`
}

type Positions struct {
	Net []Position `json:"net"`
	Day []Position `json:"day"`
}

type ProfileMeta struct {
	DematConsent string `json:"demat_consent"`
}

type Profile struct {
	UserID        string      `json:"user_id"`
	UserName      string      `json:"user_name"`
	UserShortName string      `json:"user_shortname"`
	Email         string      `json:"email"`
	UserType      string      `json:"user_type"`
	Broker        string      `json:"broker"`
	Exchanges     []string    `json:"exchanges"`
	Products      []string    `json:"products"`
	OrderTypes    []string    `json:"order_types"`
	AvatarURL     *string     `json:"avatar_url"`
	Meta          ProfileMeta `json:"meta"`
}

// BrokerSession is the raw session payload minted by the broker exchange,
// before the coordinator attaches the computed expiry.
type BrokerSession struct {
	UserID        string   `json:"user_id"`
	UserName      string   `json:"user_name"`
	UserShortName string   `json:"user_shortname"`
	Email         string   `json:"email"`
	UserType      string   `json:"user_type"`
	Broker        string   `json:"broker"`
	Exchanges     []string `json:"exchanges"`
	Products      []string `json:"products"`
	OrderTypes    []string `json:"order_types"`
	APIKey        string   `json:"api_key"`
	AccessToken   string   `json:"access_token"`
	PublicToken   string   `json:"public_token"`
	LoginTime     string   `json:"login_time"`
}
