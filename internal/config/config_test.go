package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/scheduler")
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ADMIN_PASSWORD", "Admin123!")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("NOTIFY_BACKEND", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "local", cfg.NotifyBackend)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ADMIN_PASSWORD", "x")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_AMQPNeedsURL(t *testing.T) {
	setRequired(t)
	t.Setenv("NOTIFY_BACKEND", "AMQP")
	t.Setenv("AMQP_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AMQP_URL")
}

func TestLoad_ParsesListsAndNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("NOTIFY_BACKEND", "redis")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.RedisDB)

	t.Setenv("REDIS_DB", "three")
	_, err = Load()
	assert.Error(t, err)
}
