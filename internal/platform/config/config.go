// Package config loads process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr          string
	JWTSigningKey string
	TokenTTL      time.Duration

	// DatabaseURL selects the Postgres-backed stores when set; otherwise the
	// server runs on in-memory stores (development and tests).
	DatabaseURL string

	// RedisURL enables the fund catalog read-through cache when set.
	RedisURL      string
	FundCacheTTL  time.Duration
	KafkaBrokers  []string
	AuditTopic    string
	SMTPAddr      string
	SMTPFrom      string
	SeedFunds     bool
	InitialAmount int64
}

// defaultInitialBalance is the starting balance granted on registration,
// in COP.
const defaultInitialBalance = 500_000

// FromEnv builds a Config from environment variables, with development
// defaults for everything but the JWT key in production setups.
func FromEnv() Config {
	cfg := Config{
		Addr:          envOr("FONDOS_ADDR", ":8080"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      durationOr("TOKEN_TTL", 24*time.Hour),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		FundCacheTTL:  durationOr("FUND_CACHE_TTL", 5*time.Minute),
		AuditTopic:    envOr("AUDIT_TOPIC", "fondos.audit"),
		SMTPAddr:      os.Getenv("SMTP_ADDR"),
		SMTPFrom:      envOr("SMTP_FROM", "BTG Pactual <noreply@btgpactual.com>"),
		SeedFunds:     os.Getenv("SEED_FUNDS") != "false",
		InitialAmount: defaultInitialBalance,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
