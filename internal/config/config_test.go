package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "API_BASE_URL", "ALLOWED_ORIGINS", "REQUEST_TIMEOUT",
		"SESSION_STORE", "SESSION_SECRET", "SESSION_TTL", "DATABASE_URL", "DEMO_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StoreFile, cfg.SessionStore)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.DemoMode)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadParsesOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://cases.example.org/")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.org , ,https://b.example.org")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://cases.example.org", cfg.APIBaseURL)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.AllowedOrigins)
	assert.Equal(t, StoreRedis, cfg.SessionStore)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadRejectsUnsafeProduction(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("DEMO_MODE", "1")
	_, err = Load()
	assert.ErrorContains(t, err, "DEMO_MODE")

	t.Setenv("DEMO_MODE", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
}

func TestLoadPostgresNeedsDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_STORE", "postgres")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("SESSION_STORE", "carrier-pigeon")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown SESSION_STORE")
}
