// Package config reads runtime settings from the environment, optionally
// primed from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// devJWTSecret is only acceptable while tokens are decoded, not verified.
const devJWTSecret = "forumvotes-development-secret-do-not-use"

type Config struct {
	Port         string
	DatabasePath string
	// DatabaseURL selects the Postgres store when set.
	DatabaseURL string

	JWTSecret        string
	AuthVerifyTokens bool
	BcryptCost       int

	SeedOnStart    bool
	AdminEndpoints bool

	RateLimitPerSecond float64
	RateLimitBurst     int

	LogLevel   slog.Level
	CORSOrigin string
}

// Load reads .env from the working directory if present, then the process
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         envOrDefault("PORT", "8080"),
		DatabasePath: envOrDefault("DATABASE_PATH", "forum.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    envOrDefault("JWT_SECRET", devJWTSecret),
		CORSOrigin:   envOrDefault("CORS_ORIGIN", "*"),
	}

	var err error
	if cfg.AuthVerifyTokens, err = envBool("AUTH_VERIFY_TOKENS", false); err != nil {
		return nil, err
	}
	if cfg.SeedOnStart, err = envBool("SEED_ON_START", true); err != nil {
		return nil, err
	}
	if cfg.AdminEndpoints, err = envBool("ADMIN_ENDPOINTS", true); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = envInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = envInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if v := os.Getenv("RATE_LIMIT_PER_SECOND"); v != "" {
		if cfg.RateLimitPerSecond, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_SECOND: %w", err)
		}
	} else {
		cfg.RateLimitPerSecond = 5
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.AuthVerifyTokens {
		if c.JWTSecret == devJWTSecret {
			return errors.New("JWT_SECRET is required when AUTH_VERIFY_TOKENS is enabled")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
		}
	}
	if c.RateLimitBurst < 0 || c.RateLimitPerSecond < 0 {
		return errors.New("rate limit settings must not be negative")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	return nil
}

// RateLimitEnabled reports whether requests should be throttled at all.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitBurst > 0
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envInt(key string, defaultVal int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
