package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSessionPassword(t *testing.T) {
	t.Setenv("SESSION_PASSWORD", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSessionPassword)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_PASSWORD", "test-session-password-at-least-32-chars")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultAppURL, cfg.AppURL)
	assert.Equal(t, int64(DefaultMaxBodySize), cfg.MaxBodySize)
	assert.Equal(t, DefaultAuthLimit, cfg.RateLimits.Auth)
	assert.Equal(t, DefaultWriteLimit, cfg.RateLimits.Write)
	assert.Equal(t, DefaultGeneralLimit, cfg.RateLimits.General)
	assert.Equal(t, DefaultNonceTTL, cfg.NonceTTL)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	assert.False(t, cfg.Production)
	assert.False(t, cfg.TrustedHeaderAuth)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_PASSWORD", "test-session-password-at-least-32-chars")
	t.Setenv("API_MAX_BODY_SIZE", "2048")
	t.Setenv("RATE_LIMIT_AUTH", "5")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TRUSTED_HEADER_AUTH", "true")
	t.Setenv("APP_URL", "https://app.remitwise.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(2048), cfg.MaxBodySize)
	assert.Equal(t, 5, cfg.RateLimits.Auth)
	assert.True(t, cfg.Production)
	assert.True(t, cfg.TrustedHeaderAuth)
	assert.Equal(t, "https://app.remitwise.example", cfg.AppURL)
}

func TestLoadLegacyOriginVariable(t *testing.T) {
	t.Setenv("SESSION_PASSWORD", "test-session-password-at-least-32-chars")
	t.Setenv("APP_URL", "")
	t.Setenv("NEXT_PUBLIC_APP_URL", "https://web.remitwise.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://web.remitwise.example", cfg.AppURL)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SESSION_PASSWORD", "test-session-password-at-least-32-chars")
	t.Setenv("API_MAX_BODY_SIZE", "not-a-number")
	t.Setenv("RATE_LIMIT_WRITE", "-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultMaxBodySize), cfg.MaxBodySize)
	assert.Equal(t, DefaultWriteLimit, cfg.RateLimits.Write)
}
