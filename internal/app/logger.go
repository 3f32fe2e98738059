package app

import (
	"io"
	"log/slog"

	"github.com/felixgeelhaar/lifecycles/pkg/config"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// NewLogger builds the process logger from configuration. Development
// defaults to debug level.
func NewLogger(cfg *config.Config, out io.Writer, version string) *slog.Logger {
	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Output = out
	logCfg.ServiceVersion = version
	if cfg.LogLevel != "" {
		logCfg.Level = observability.ParseLevel(cfg.LogLevel)
	}
	if cfg.IsDevelopment() {
		logCfg.Level = slog.LevelDebug
	}
	if cfg.LogFormat != "" {
		logCfg.Format = observability.LogFormat(cfg.LogFormat)
	}
	return observability.NewLogger(logCfg)
}
