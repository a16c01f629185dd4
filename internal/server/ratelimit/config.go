package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig caps one route. A path ending in "/" matches as a
// prefix; Burst defaults to Limit when zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads limiter settings from RATE_LIMIT_* environment
// variables.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       splitIPs(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       splitIPs(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs tiers routes by cost. Live fill passes hold a
// browser for minutes, generation-backed endpoints burn API quota, and
// profile writes are cheap but still capped.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/fill", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		{Path: "/extract-profile", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/summarize", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		{Path: "/profiles", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/profiles/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/profiles/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Reads fall through to the default limit; /health is exempt in
		// the matcher.
	}
}

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// splitIPs parses a comma-separated IP list into a membership set.
func splitIPs(list string) map[string]bool {
	ips := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			ips[ip] = true
		}
	}
	return ips
}
