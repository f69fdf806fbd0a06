package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Tier is a rate limit applied to a path prefix. A Limit of zero or less
// means unlimited.
type Tier struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds limiter configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Trusted         map[string]bool
	Tiers           []Tier
}

// LoadConfig loads limiter configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Trusted:         parseIPList(os.Getenv("RATE_LIMIT_TRUSTED")),
		Tiers:           DefaultTiers(),
	}
}

// DefaultTiers returns the per-endpoint limits. Search runs a provider query
// plus an LLM call per listing, so it gets the tightest budget.
func DefaultTiers() []Tier {
	return []Tier{
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/search-jobs", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/chat/init", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/parse-resume", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
