package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lifecycles/pkg/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantDebug bool
	}{
		{name: "development logs debug", cfg: &config.Config{AppEnv: "development", LogLevel: "info", LogFormat: "json"}, wantDebug: true},
		{name: "production honours level", cfg: &config.Config{AppEnv: "production", LogLevel: "warn", LogFormat: "json"}, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.cfg, &buf, "1.2.3")

			assert.Equal(t, tt.wantDebug, logger.Enabled(context.Background(), slog.LevelDebug))

			logger.Error("boom")
			var entry map[string]any
			require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
			assert.Equal(t, "lifecycles", entry["service"])
			assert.Equal(t, "1.2.3", entry["version"])
		})
	}
}
