package ratelimit

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig limits one route. Pattern uses the ServeMux form
// "METHOD /path/{wildcard}"; every request matching it shares a bucket.
type EndpointConfig struct {
	Pattern string
	Limit   int           // Maximum requests per window; 0 exempts the route
	Window  time.Duration // Time window
	Burst   int           // Burst capacity (defaults to Limit if 0)
}

// ClientList holds client addresses and CIDR ranges
type ClientList struct {
	addrs    map[netip.Addr]bool
	prefixes []netip.Prefix
}

// ParseClientList parses a comma-separated list such as "127.0.0.1, 10.0.0.0/8"
func ParseClientList(list string) (ClientList, error) {
	cl := ClientList{addrs: make(map[netip.Addr]bool)}
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return ClientList{}, fmt.Errorf("invalid CIDR %q: %w", item, err)
			}
			cl.prefixes = append(cl.prefixes, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(item)
		if err != nil {
			return ClientList{}, fmt.Errorf("invalid address %q: %w", item, err)
		}
		cl.addrs[a.Unmap()] = true
	}
	return cl, nil
}

// Contains reports whether clientID is listed. Client ids that are not IP
// addresses never match.
func (c ClientList) Contains(clientID string) bool {
	a, err := netip.ParseAddr(clientID)
	if err != nil {
		return false
	}
	a = a.Unmap()
	if c.addrs[a] {
		return true
	}
	for _, p := range c.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// Len returns the number of listed addresses and ranges
func (c ClientList) Len() int {
	return len(c.addrs) + len(c.prefixes)
}

// DefaultConfig returns the built-in limits
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route limits. Submitting a diagnosis
// calls the model and is limited hardest.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Pattern: "GET /health"},
		{Pattern: "GET /questions"},
		{Pattern: "POST /diagnoses", Limit: 20, Window: time.Hour, Burst: 3},
		{Pattern: "PUT /diagnoses/{id}", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "DELETE /diagnoses/{id}", Limit: 100, Window: time.Minute, Burst: 10},
		{Pattern: "PUT /profile", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

// FromEnv overlays RATE_LIMIT_* variables on DefaultConfig. Unlike unset
// variables, malformed ones are errors; all of them are reported together.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()
	var errs []error

	if v := getenv("RATE_LIMIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_ENABLED: %w", err))
		}
		cfg.Enabled = b
	}
	if v := getenv("RATE_LIMIT_DEFAULT_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_DEFAULT_LIMIT: want a non-negative integer, got %q", v))
		}
		cfg.DefaultLimit = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"RATE_LIMIT_DEFAULT_WINDOW", &cfg.DefaultWindow},
		{"RATE_LIMIT_CLEANUP_INTERVAL", &cfg.CleanupInterval},
		{"RATE_LIMIT_IDLE_TTL", &cfg.IdleTTL},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			errs = append(errs, fmt.Errorf("%s: want a positive duration, got %q", d.key, v))
			continue
		}
		*d.dst = parsed
	}

	var err error
	if cfg.Whitelist, err = ParseClientList(getenv("RATE_LIMIT_WHITELIST")); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WHITELIST: %w", err))
	}
	if cfg.Blacklist, err = ParseClientList(getenv("RATE_LIMIT_BLACKLIST")); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BLACKLIST: %w", err))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid rate limit configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}
