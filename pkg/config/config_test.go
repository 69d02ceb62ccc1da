package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 168, cfg.JWT.ExpirationHours)
	assert.Equal(t, int64(3), cfg.Quota.FreeNoteLimit)
	assert.True(t, cfg.UsingDefaultSigningKey())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SIGNING_KEY", "a-real-secret")
	t.Setenv("JWT_EXPIRATION_HOURS", "24")
	t.Setenv("QUOTA_FREE_NOTE_LIMIT", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.UsingDefaultSigningKey())
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, int64(5), cfg.Quota.FreeNoteLimit)
}
