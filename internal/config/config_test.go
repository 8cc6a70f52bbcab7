package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "APP_ENV", "LOG_LEVEL", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"GEMINI_TIMEOUT", "IMAGE_PROVIDER_URL", "IMAGE_PROVIDER_KEY", "GEMINI_IMAGE_ENABLED",
		"IMAGE_BASE_URL", "IMAGE_TIMEOUT", "SESSION_SECRET", "SESSION_TTL", "SESSION_CAPACITY",
		"CORS_ORIGINS", "GENERATE_RATE_LIMIT", "GENERATE_RATE_WINDOW", "TRUSTED_PROXIES",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.Gemini.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.True(t, cfg.Gemini.ImageEnabled)
	assert.Equal(t, 20*time.Second, cfg.Gemini.ImageTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 1024, cfg.SessionCapacity)
	assert.Equal(t, []string{"https://*", "http://*"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.GenerateLimit)
	assert.Equal(t, 15*time.Minute, cfg.GenerateWindow)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GEMINI_API_KEY", "abc")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-pro")
	t.Setenv("GEMINI_TIMEOUT", "45s")
	t.Setenv("IMAGE_PROVIDER_URL", "https://nano.example/gen")
	t.Setenv("IMAGE_PROVIDER_KEY", "nk")
	t.Setenv("GEMINI_IMAGE_ENABLED", "false")
	t.Setenv("IMAGE_TIMEOUT", "5")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SESSION_CAPACITY", "16")
	t.Setenv("CORS_ORIGINS", "https://app.example, ,http://localhost:3000")
	t.Setenv("GENERATE_RATE_LIMIT", "0")
	t.Setenv("GENERATE_RATE_WINDOW", "1h")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "abc", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-pro", cfg.Gemini.Model)
	assert.Equal(t, 45*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "https://nano.example/gen", cfg.Gemini.ImageProviderURL)
	assert.Equal(t, "nk", cfg.Gemini.ImageProviderKey)
	assert.False(t, cfg.Gemini.ImageEnabled)
	assert.Equal(t, 5*time.Second, cfg.Gemini.ImageTimeout)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 16, cfg.SessionCapacity)
	assert.Equal(t, []string{"https://app.example", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Zero(t, cfg.GenerateLimit)
	assert.Equal(t, time.Hour, cfg.GenerateWindow)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.TrustedProxies)
}

func TestLoad_InvalidValuesKeepDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")
	t.Setenv("GEMINI_TIMEOUT", "-3s")
	t.Setenv("GEMINI_IMAGE_ENABLED", "maybe")
	t.Setenv("SESSION_CAPACITY", "0")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.True(t, cfg.Gemini.ImageEnabled)
	assert.Equal(t, 1024, cfg.SessionCapacity)
}
