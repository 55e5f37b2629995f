package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestProductionConfig(t *testing.T) {
	cfg := ProductionConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"default config", DefaultConfig()},
		{"production config", ProductionConfig()},
		{
			"debug json",
			&Config{Level: "debug", Format: "json", Output: "stderr", TimeFormat: "2006-01-02T15:04:05Z07:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestContext(t *testing.T) {
	t.Run("round trips the logger", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("missing logger falls back to nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request id round trip", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")
		assert.Equal(t, "req-123", GetRequestID(ctx))
		assert.NotNil(t, enriched)
	})

	t.Run("missing request id is empty", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})
}
