package util

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:3000"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultAppTokenTTL    = 7 * 24 * time.Hour
	defaultAccessTokenTTL = 24 * time.Hour
	defaultHandshakeTTL   = 10 * time.Minute

	defaultKiteAPIBase   = "https://api.kite.trade"
	defaultKiteLoginBase = "https://kite.zerodha.com/connect/login"

	defaultCerebrasBaseURL = "https://api.cerebras.ai"
	defaultCerebrasModel   = "llama3.1-70b"
)

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
	}
}

type TokenConfig struct {
	JwtSecretKey []byte
	AppTokenTTL  time.Duration
}

func NewTokenConfig() *TokenConfig {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	return &TokenConfig{
		JwtSecretKey: []byte(secret),
		AppTokenTTL:  parseDurationOrDefault("APP_TOKEN_TTL", defaultAppTokenTTL),
	}
}

// KiteConfig holds the broker endpoints and handshake/token lifetimes.
// KITE_API_BASE is overridable so tests can point the client at a local stub.
type KiteConfig struct {
	APIBase        string
	LoginBase      string
	AccessTokenTTL time.Duration
	HandshakeTTL   time.Duration
}

func NewKiteConfig() *KiteConfig {
	apiBase := os.Getenv("KITE_API_BASE")
	if apiBase == "" {
		apiBase = defaultKiteAPIBase
	}
	loginBase := os.Getenv("KITE_LOGIN_BASE")
	if loginBase == "" {
		loginBase = defaultKiteLoginBase
	}

	return &KiteConfig{
		APIBase:        apiBase,
		LoginBase:      loginBase,
		AccessTokenTTL: parseDurationOrDefault("KITE_ACCESS_TOKEN_TTL", defaultAccessTokenTTL),
		HandshakeTTL:   parseDurationOrDefault("KITE_HANDSHAKE_TTL", defaultHandshakeTTL),
	}
}

type CerebrasConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

func NewCerebrasConfig() *CerebrasConfig {
	baseURL := os.Getenv("CEREBRAS_BASE_URL")
	if baseURL == "" {
		baseURL = defaultCerebrasBaseURL
	}
	model := os.Getenv("CEREBRAS_MODEL")
	if model == "" {
		model = defaultCerebrasModel
	}

	return &CerebrasConfig{
		APIKey:  os.Getenv("CEREBRAS_API_KEY"),
		BaseURL: baseURL,
		Model:   model,
	}
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration in %s: %s, using default %s", varName, v, def)
	}
	return def
}
