package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		environment string
		wantLevel   zapcore.Level
	}{
		{"defaults to info", "", "production", zapcore.InfoLevel},
		{"explicit warn", "warn", "production", zapcore.WarnLevel},
		{"case insensitive", "ERROR", "production", zapcore.ErrorLevel},
		{"development forces debug", "info", "development", zapcore.DebugLevel},
		{"explicit debug", "debug", "production", zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.environment)
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "production")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
