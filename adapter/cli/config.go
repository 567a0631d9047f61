package cli

import (
	"io"
	"log/slog"

	"github.com/felixgeelhaar/tasklist/pkg/config"
	"github.com/felixgeelhaar/tasklist/pkg/observability"
)

// LoadConfig loads configuration, reading the --config env file when given.
func LoadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.Load()
}

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	level := observability.LogLevel(cfg.LogLevel)
	if cfg.IsDevelopment() && cfg.LogLevel == "" {
		level = observability.LogLevelDebug
	}
	return observability.NewLogger(observability.LogConfig{
		Level:          level,
		Format:         observability.LogFormat(cfg.LogFormat),
		Output:         out,
		ServiceName:    "tasklist",
		ServiceVersion: Version,
	})
}
