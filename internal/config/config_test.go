package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("STORE_BACKEND", "")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8431", cfg.HTTPAddr)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Token.TTL)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORE_BACKEND", " Postgres ")
	t.Setenv("LATENCY_LOGIN_MS", "10")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, 10*time.Millisecond, cfg.Latency.Login)
}

func TestConfigFromEnv_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	_, err := ConfigFromEnv()
	require.Error(t, err)
}
