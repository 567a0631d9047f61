package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all tasklist-related environment variables.
func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT",
		"DATABASE_URL", "DATABASE_DRIVER", "SQLITE_PATH", "DATABASE_MAX_CONNS",
		"STORE_BREAKER_ENABLED", "STORE_BREAKER_FAILURES", "STORE_BREAKER_TIMEOUT",
		"EVENT_BACKEND", "RABBITMQ_URL", "REDIS_URL", "REDIS_CHANNEL_PREFIX",
		"MCP_ADDR", "MCP_AUTH_TOKEN",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "auto", cfg.DatabaseDriver)
	assert.Equal(t, DefaultSQLitePath(), cfg.SQLitePath)
	assert.Equal(t, 10, cfg.DatabaseMaxConns)

	assert.True(t, cfg.StoreBreakerEnabled)
	assert.Equal(t, 5, cfg.StoreBreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.StoreBreakerTimeout)

	assert.Equal(t, EventBackendNone, cfg.EventBackend)
	assert.Equal(t, "tasklist", cfg.RedisChannelPrefix)

	assert.Equal(t, "0.0.0.0:8082", cfg.MCPAddr)
	assert.Equal(t, "", cfg.MCPAuthToken)

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://tasks:secret@db:5432/tasks")
	t.Setenv("DATABASE_MAX_CONNS", "4")
	t.Setenv("STORE_BREAKER_ENABLED", "false")
	t.Setenv("STORE_BREAKER_TIMEOUT", "5s")
	t.Setenv("EVENT_BACKEND", "redis")
	t.Setenv("REDIS_CHANNEL_PREFIX", "todo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://tasks:secret@db:5432/tasks", cfg.DatabaseURL)
	assert.Equal(t, 4, cfg.DatabaseMaxConns)
	assert.False(t, cfg.StoreBreakerEnabled)
	assert.Equal(t, 5*time.Second, cfg.StoreBreakerTimeout)
	assert.Equal(t, EventBackendRedis, cfg.EventBackend)
	assert.Equal(t, "todo", cfg.RedisChannelPrefix)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	t.Setenv("DATABASE_MAX_CONNS", "many")
	t.Setenv("STORE_BREAKER_ENABLED", "perhaps")
	t.Setenv("STORE_BREAKER_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.DatabaseMaxConns)
	assert.True(t, cfg.StoreBreakerEnabled)
	assert.Equal(t, 30*time.Second, cfg.StoreBreakerTimeout)
}

func TestLoad_ExplicitEnvFile(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	path := filepath.Join(t.TempDir(), "tasklist.env")
	require.NoError(t, os.WriteFile(path, []byte("EVENT_BACKEND=redis\nREDIS_CHANNEL_PREFIX=todo\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, EventBackendRedis, cfg.EventBackend)
	assert.Equal(t, "todo", cfg.RedisChannelPrefix)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "failed to load env file")
}
