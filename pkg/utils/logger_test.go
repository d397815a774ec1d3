package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("file sink with json format", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "server.log")

		logger, err := NewLogger(LoggerConfig{Level: "debug", OutputPath: path, Format: "json", Service: "invoice-studio"})
		require.NoError(t, err)
		logger.Info("hello")
		require.NoError(t, logger.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
		assert.Contains(t, string(data), `"service":"invoice-studio"`)
		assert.Contains(t, string(data), `"timestamp"`)
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logger, err := NewLogger(LoggerConfig{Level: "loud", OutputPath: "stderr"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("cli logger is quiet unless verbose", func(t *testing.T) {
		quiet, err := NewCLILogger(false)
		require.NoError(t, err)
		assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))

		verbose, err := NewCLILogger(true)
		require.NoError(t, err)
		assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
	})
}
