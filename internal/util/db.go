package util

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

const redisPingTimeout = 5 * time.Second

type DBConfig struct {
	DSN string
}

func NewDBConfig() *DBConfig {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	return &DBConfig{
		DSN: dsn,
	}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisConfig() *RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Fatal("REDIS_ADDR is not set")
	}

	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid REDIS_DB %q: %v", v, err)
		}
		db = parsed
	}

	return &RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}

func NewDBConnection(logger *zap.SugaredLogger) (*sql.DB, func(), error) {
	dbConfig := NewDBConfig()
	db, err := sql.Open("postgres", dbConfig.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("Connected to Postgres")

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Errorf("close postgres: %v", err)
		} else {
			logger.Info("Postgres connection closed")
		}
	}

	return db, cleanup, nil
}

// NewRedisClient builds the client for the token cache and handshake store
// and verifies connectivity up front, so a misconfigured cache fails at
// startup instead of on the first login.
func NewRedisClient(ctx context.Context, logger *zap.SugaredLogger, cfg *RedisConfig) (*redis.Client, func(), error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	logger.Infof("Connected to Redis at %s", cfg.Addr)

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			logger.Errorf("close redis: %v", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	return redisClient, cleanup, nil
}
