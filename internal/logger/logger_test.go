package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/russross/examtt/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.Config
		level zapcore.Level
	}{
		{"development console", config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "debug", Format: "console"}}, zapcore.DebugLevel},
		{"production json", config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "warn", Format: "json"}}, zapcore.WarnLevel},
		{"bad level falls back to info", config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "loud"}}, zapcore.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, err := New(&tc.cfg)
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tc.level))
			assert.False(t, log.Core().Enabled(tc.level-1))
		})
	}
}
