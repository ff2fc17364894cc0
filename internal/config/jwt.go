package config

import (
	"fmt"
	"strconv"
	"time"
)

// Token defaults
const (
	DefaultJWTIssuer     = "career-diagnosis"
	DefaultJWTExpiration = 24 * time.Hour
	minJWTSecretLen      = 16
)

// JWTConfig holds the settings for validating bearer tokens and issuing
// development tokens.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// JWT resolves the token settings. Only commands that handle tokens need a
// secret, so Validate leaves it unchecked and the error surfaces here.
func (c *Config) JWT() (*JWTConfig, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if len(c.JWTSecret) < minJWTSecretLen {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLen)
	}

	expiration := DefaultJWTExpiration
	if c.JWTExpiration != "" {
		d, err := ParseTokenLifetime(c.JWTExpiration)
		if err != nil {
			return nil, err
		}
		expiration = d
	}

	issuer := c.JWTIssuer
	if issuer == "" {
		issuer = DefaultJWTIssuer
	}

	return &JWTConfig{Secret: c.JWTSecret, Expiration: expiration, Issuer: issuer}, nil
}

// ParseTokenLifetime accepts whole hours ("24") or a duration ("90m", "36h").
// Lifetimes under an hour are rejected.
func ParseTokenLifetime(s string) (time.Duration, error) {
	var d time.Duration
	if n, err := strconv.Atoi(s); err == nil {
		d = time.Duration(n) * time.Hour
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid token lifetime %q: want hours or a duration such as 36h", s)
		}
		d = parsed
	}

	if d < time.Hour {
		return 0, fmt.Errorf("token lifetime must be at least 1 hour, got %s", d)
	}
	return d, nil
}
