/*
Package config assembles the service configuration from the environment.
A .env file in the working directory is loaded first when present.
*/
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"FitPlan_V0.1/internal/geminiservice"
	_ "github.com/joho/godotenv/autoload"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Port     int
	AppEnv   string
	LogLevel string

	Gemini geminiservice.Config

	SessionSecret   string
	SessionTTL      time.Duration
	SessionCapacity int

	CORSOrigins []string

	// GenerateLimit caps plan generations per client IP within GenerateWindow.
	GenerateLimit  int
	GenerateWindow time.Duration

	// TrustedProxies lists CIDRs whose X-Forwarded-For is believed. Empty means
	// the peer address is the client.
	TrustedProxies []string
}

// DefaultConfig returns the configuration used when no variable is set.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		AppEnv:          "development",
		LogLevel:        "info",
		Gemini:          geminiservice.DefaultConfig(),
		SessionTTL:      2 * time.Hour,
		SessionCapacity: 1024,
		CORSOrigins:     []string{"https://*", "http://*"},
		GenerateLimit:   10,
		GenerateWindow:  15 * time.Minute,
	}
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Load reads configuration from environment variables, falling back to
// defaults for unset or unparseable values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.AppEnv = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		cfg.Gemini.BaseURL = v
	}
	applyDuration(&cfg.Gemini.Timeout, "GEMINI_TIMEOUT")

	cfg.Gemini.ImageProviderURL = os.Getenv("IMAGE_PROVIDER_URL")
	cfg.Gemini.ImageProviderKey = os.Getenv("IMAGE_PROVIDER_KEY")
	if v := os.Getenv("GEMINI_IMAGE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Gemini.ImageEnabled = b
		}
	}
	if v := os.Getenv("IMAGE_BASE_URL"); v != "" {
		cfg.Gemini.ImageBaseURL = v
	}
	applyDuration(&cfg.Gemini.ImageTimeout, "IMAGE_TIMEOUT")

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	applyDuration(&cfg.SessionTTL, "SESSION_TTL")
	if v := os.Getenv("SESSION_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionCapacity = n
		}
	}

	if origins := splitList(os.Getenv("CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))

	if v := os.Getenv("GENERATE_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.GenerateLimit = n
		}
	}
	applyDuration(&cfg.GenerateWindow, "GENERATE_RATE_WINDOW")

	return cfg
}

// splitList splits a comma-separated variable, dropping blank entries.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// applyDuration accepts Go durations ("45s") or a bare number of seconds.
func applyDuration(dst *time.Duration, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*dst = time.Duration(n) * time.Second
	}
}
