package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklist/pkg/config"
)

func TestLoadConfig_UsesConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasklist.env")
	require.NoError(t, os.WriteFile(path, []byte("EVENT_BACKEND=redis\n"), 0o600))
	t.Setenv("EVENT_BACKEND", "")
	require.NoError(t, os.Unsetenv("EVENT_BACKEND"))

	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.EventBackendRedis, cfg.EventBackend)
}

func TestLoadConfig_MissingConfigFile(t *testing.T) {
	cfgFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { cfgFile = "" })

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&config.Config{AppEnv: "production", LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"service":"tasklist"`)
}
