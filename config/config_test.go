package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModeUpstream, cfg.Auth.Mode)
	assert.Equal(t, "/dashboard", cfg.Auth.LandingPath)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionCookieTTL)
	assert.True(t, cfg.Auth.AuditEnabled)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "clubdesk", cfg.Postgres.Name)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addrs)
	assert.NotEmpty(t, cfg.Auth.Static.Users)
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "static")
	t.Setenv("AUTH_LANDING_PATH", "accueil")
	t.Setenv("DB_PORT", "55432")
	t.Setenv("REDIS_ADDRS", "redis-1:6379,redis-2:6379")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeStatic, cfg.Auth.Mode)
	assert.Equal(t, "/accueil", cfg.Auth.LandingPath, "landing path gets a leading slash")
	assert.Equal(t, 55432, cfg.Postgres.Port)
	assert.Equal(t, []string{"redis-1:6379", "redis-2:6379"}, cfg.Redis.Addrs)
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var mode AuthMode
	require.NoError(t, mode.UnmarshalText([]byte("STATIC")))
	assert.Equal(t, AuthModeStatic, mode)

	assert.Error(t, mode.UnmarshalText([]byte("oauth")))
}

func TestAppConfig_NodeEnvDevFallback(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}
