package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	// Upstream inventory/payment API.
	UpstreamBaseURL string
	UpstreamTimeout time.Duration

	// Session token signing.
	SessionSecret string
	SessionTTL    time.Duration

	// MySQL (wizard session persistence).
	DBDSN string

	// Redis (seat listing cache).
	RedisURL     string
	SeatCacheTTL time.Duration

	// Payment widget wait ceiling.
	PaymentTimeout time.Duration
}

func LoadEnv() Env {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	return Env{
		AppAddr:         appAddr,
		GinMode:         strings.TrimSpace(os.Getenv("GIN_MODE")),
		UpstreamBaseURL: envOrDefault("UPSTREAM_BASE_URL", "http://localhost:9000/api/v1"),
		UpstreamTimeout: envDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		SessionSecret:   envOrDefault("SESSION_SECRET", "change-me-in-production"),
		SessionTTL:      envDuration("SESSION_TTL", 24*time.Hour),
		DBDSN:           envOrDefault("DB_DSN", "root:@tcp(127.0.0.1:3306)/transitbook?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"),
		RedisURL:        envOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		SeatCacheTTL:    envDuration("SEAT_CACHE_TTL", 30*time.Second),
		PaymentTimeout:  envDuration("PAYMENT_TIMEOUT", 5*time.Minute),
	}
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// allow plain seconds
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
