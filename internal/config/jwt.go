package config

import (
	"fmt"
	"os"
	"time"
)

// JWTConfig holds signing settings for API bearer tokens.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// JWTFromEnv builds a JWTConfig from JWT_SECRET and JWT_TTL. JWT_TTL
// accepts Go duration syntax and defaults to 24h.
func JWTFromEnv() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	ttl := 24 * time.Hour
	if raw := os.Getenv("JWT_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL %q: %w", raw, err)
		}
		ttl = parsed
	}

	cfg := &JWTConfig{Secret: secret, TTL: ttl}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) check() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT secret cannot be empty")
	}
	if c.TTL < time.Minute {
		return fmt.Errorf("JWT TTL must be at least one minute, got %s", c.TTL)
	}
	return nil
}
