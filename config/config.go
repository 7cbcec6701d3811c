package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the shared Chrome instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string

	// NavTimeouts are the per-rung navigation timeouts, strictest wait
	// condition first. default: [15s, 20s, 25s]
	NavTimeouts []time.Duration
}

// ScraperConfig controls batch extraction behavior.
type ScraperConfig struct {
	// MaxConcurrent bounds how many extraction sessions run at once.
	MaxConcurrent int // default: 5

	// BatchTimeout is the deadline for one whole ScrapeAll call.
	BatchTimeout time.Duration // default: 5m
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// CacheConfig controls the scrape result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 1000

	// MaxTTL caps the age of any served cache entry, regardless of the
	// max_age the caller asks for.
	MaxTTL time.Duration // default: 1h
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultNavTimeouts returns the navigation ladder's default per-rung
// timeouts: dom-stable, full-load, no-wait.
func DefaultNavTimeouts() []time.Duration {
	return []time.Duration{15 * time.Second, 20 * time.Second, 25 * time.Second}
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SHELFWATCH_HOST", "0.0.0.0"),
			Port: envIntOr("SHELFWATCH_PORT", 8080),
			Mode: envOr("SHELFWATCH_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:    envBoolOr("SHELFWATCH_HEADLESS", true),
			NoSandbox:   envBoolOr("SHELFWATCH_NO_SANDBOX", false),
			Bin:         os.Getenv("SHELFWATCH_BROWSER_BIN"),
			NavTimeouts: envDurationSliceOr("SHELFWATCH_NAV_TIMEOUTS", DefaultNavTimeouts()),
		},
		Scraper: ScraperConfig{
			MaxConcurrent: envIntOr("SHELFWATCH_MAX_CONCURRENT", 5),
			BatchTimeout:  envDurationOr("SHELFWATCH_BATCH_TIMEOUT", 5*time.Minute),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SHELFWATCH_AUTH_ENABLED", true),
			APIKeys: envSliceOr("SHELFWATCH_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SHELFWATCH_RATE_RPS", 2.0),
			Burst:             envIntOr("SHELFWATCH_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SHELFWATCH_CACHE_MAX_ENTRIES", 1000),
			MaxTTL:     envDurationOr("SHELFWATCH_CACHE_MAX_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("SHELFWATCH_LOG_LEVEL", "info"),
			Format: envOr("SHELFWATCH_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
