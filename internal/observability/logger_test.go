package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/rain-risk-service/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level, format string
		enabled       slog.Level
		disabled      slog.Level
	}{
		{"debug", "json", slog.LevelDebug, slog.LevelDebug - 1},
		{"warn", "text", slog.LevelWarn, slog.LevelInfo},
		{"error", "Text", slog.LevelError, slog.LevelWarn},
		{"verbose", "json", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			prev := slog.Default()
			t.Cleanup(func() { slog.SetDefault(prev) })

			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: tt.format})

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.enabled))
			assert.False(t, logger.Enabled(ctx, tt.disabled))
			assert.Same(t, logger, slog.Default())
		})
	}
}
