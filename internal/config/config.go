// Package config centralises runtime configuration for the timetrack API.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config carries every process-wide setting. It is built once at startup
// and never mutated afterwards; the signing secret and hash cost in
// particular are read-only for the lifetime of the process.
type Config struct {
	Addr        string
	DatabaseURL string

	AuthSecret string
	TokenTTL   time.Duration
	Issuer     string

	BcryptCost int

	CORSOrigins []string
	RateBurst   int
	RatePerSec  int
	MaxBodyKB   int64
}

var errMissingSecret = errors.New("config: TIMETRACK_AUTH_SECRET is required")

// Load reads environment variables into Config, applying defaults suitable
// for local development. The auth secret has no default: tokens signed with
// a guessable secret are worthless.
func Load() (Config, error) {
	cfg := Config{
		Addr:        getEnv("TIMETRACK_ADDR", ":8080"),
		DatabaseURL: getEnv("TIMETRACK_PG_DSN", ""),
		AuthSecret:  strings.TrimSpace(os.Getenv("TIMETRACK_AUTH_SECRET")),
		TokenTTL:    getDurationEnv("TIMETRACK_TOKEN_TTL", 7*24*time.Hour),
		Issuer:      getEnv("TIMETRACK_ISSUER", "timetrack"),
		BcryptCost:  getIntEnv("TIMETRACK_BCRYPT_COST", bcrypt.DefaultCost),
		RateBurst:   getIntEnv("TIMETRACK_RATE_BURST", 20),
		RatePerSec:  getIntEnv("TIMETRACK_RATE_PER_SEC", 10),
		MaxBodyKB:   int64(getIntEnv("TIMETRACK_MAX_BODY_KB", 64)),
	}
	cfg.CORSOrigins = splitAndTrim(getEnv("TIMETRACK_CORS_ORIGINS", ""))

	if cfg.AuthSecret == "" {
		return Config{}, errMissingSecret
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
