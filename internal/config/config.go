// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs access tokens. Required; there is no fallback value.
	JWTSecret string

	// TokenTTL is the lifetime of an access token. Defaults to 2h.
	TokenTTL time.Duration

	// SweepInterval is the period of the reservation status sweep. Defaults to 1h.
	SweepInterval time.Duration

	// RedisURL points at the token revocation store. Empty keeps revocations
	// in process memory.
	RedisURL string

	// AuditLogPath, when set, receives a rotated JSON audit log in addition
	// to the audit_log table.
	AuditLogPath string

	// LoginRate and LoginBurst shape the per-IP token bucket on /auth.
	LoginRate  float64
	LoginBurst int

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, joined
// with any values that failed to parse.
func Load() (Config, error) {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RedisURL:     os.Getenv("REDIS_URL"),
		AuditLogPath: os.Getenv("AUDIT_LOG_PATH"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}

	p := parser{}
	cfg.TokenTTL = p.duration("TOKEN_TTL", 2*time.Hour)
	cfg.SweepInterval = p.duration("SWEEP_INTERVAL", time.Hour)
	cfg.LoginRate = p.float("LOGIN_RATE_PER_SEC", 2)
	cfg.LoginBurst = int(p.integer("LOGIN_BURST", 4))
	cfg.MaxBodyBytes = p.integer("MAX_BODY_BYTES", 1<<20)
	errs = append(errs, p.errs...)

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parser collects parse failures so they are all reported at once.
// Every parsed value must be positive.
type parser struct {
	errs []error
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a positive duration", key, v))
		return 0
	}
	return d
}

func (p *parser) integer(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a positive integer", key, v))
		return 0
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: %q is not a positive number", key, v))
		return 0
	}
	return f
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
