package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string

	// MaxTransfer caps a single transfer amount.
	MaxTransfer decimal.Decimal

	// RateLimitPerSec and RateLimitBurst configure the per-client limiter
	// on login and transfer.
	RateLimitPerSec float64
	RateLimitBurst  int
}

// Load reads configuration from the environment and performs minimal
// validation. DATABASE_URL may be empty: the server then runs on the
// in-memory store with seeded demo data.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:   fallback(os.Getenv("JWT_ISSUER"), "api-sec-lab"),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	maxTransfer := fallback(os.Getenv("MAX_TRANSFER"), "10000")
	parsed, err := decimal.NewFromString(maxTransfer)
	if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
		return Config{}, fmt.Errorf("invalid MAX_TRANSFER value %q", maxTransfer)
	}
	cfg.MaxTransfer = parsed

	perSec := fallback(os.Getenv("RATE_LIMIT_PER_SEC"), "5")
	if v, err := strconv.ParseFloat(perSec, 64); err == nil && v > 0 {
		cfg.RateLimitPerSec = v
	} else {
		cfg.RateLimitPerSec = 5
	}
	burst := fallback(os.Getenv("RATE_LIMIT_BURST"), "10")
	if v, err := strconv.Atoi(burst); err == nil && v > 0 {
		cfg.RateLimitBurst = v
	} else {
		cfg.RateLimitBurst = 10
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
