package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/redhat-appstudio/statuspage-watcher/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.level))
		})
	}
}

func TestFromConfig(t *testing.T) {
	prod := FromConfig(&config.Config{Environment: config.ValidEnvironmentProduction, LogLevel: "debug"})
	assert.Equal(t, FormatJSON, prod.Format)
	assert.Equal(t, LogLevelDebug, prod.Level)

	dev := FromConfig(&config.Config{Environment: config.ValidEnvironmentDevelopment})
	assert.Equal(t, FormatConsole, dev.Format)
	assert.Equal(t, LogLevelInfo, dev.Level)
}

func TestInit_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watcher.log")
	require.NoError(t, Init(&Config{Level: LogLevelDebug, Format: FormatJSON, OutputPath: path}))
	t.Cleanup(UseNop)

	assert.NotNil(t, Logger)
	assert.NotNil(t, Sugar)
	assert.NotPanics(t, func() {
		Infof("poll cycle %d", 1)
		NewRedisLogger().Printf(context.Background(), "pool: %s", "reconnecting")
		Sync()
	})
}

func TestInit_InvalidPath(t *testing.T) {
	err := Init(&Config{OutputPath: filepath.Join(t.TempDir(), "missing", "dir", "out.log")})
	assert.Error(t, err)
}

func TestFallbackLogger_WritesToStderr(t *testing.T) {
	dir := t.TempDir()
	stdout, err := os.Create(filepath.Join(dir, "stdout"))
	require.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	require.NoError(t, err)

	prevOut, prevErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdout, stderr
	t.Cleanup(func() { os.Stdout, os.Stderr = prevOut, prevErr })

	fallbackLogger().Sugar().Errorf("startup failed: %s", "bad config")
	require.NoError(t, stdout.Close())
	require.NoError(t, stderr.Close())

	out, err := os.ReadFile(stdout.Name())
	require.NoError(t, err)
	assert.Empty(t, out, "stdout is reserved for event blocks")

	errOut, err := os.ReadFile(stderr.Name())
	require.NoError(t, err)
	assert.Contains(t, string(errOut), "startup failed: bad config")
}
