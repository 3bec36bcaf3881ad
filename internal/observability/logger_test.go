package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/sitesearch/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("should write json lines with the service name", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWriter(config.LoggerConfig{ServiceName: "sitesearch", Level: "info", Format: "json"}, &buf)

		logger.Info("scenario finished")
		require.NoError(t, logger.Sync())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "sitesearch", entry["logger"])
		assert.Equal(t, "scenario finished", entry["msg"])
	})

	t.Run("should drop entries below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWriter(config.LoggerConfig{Level: "warn", Format: "json"}, &buf)

		logger.Info("hidden")
		logger.Warn("shown")
		require.NoError(t, logger.Sync())

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("should fall back to info on an unknown level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWriter(config.LoggerConfig{Level: "chatty", Format: "json"}, &buf)

		logger.Debug("hidden")
		logger.Info("shown")
		require.NoError(t, logger.Sync())

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("should use the console encoder", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWriter(config.LoggerConfig{Level: "info", Format: "console"}, &buf)

		logger.Info("hello")
		require.NoError(t, logger.Sync())

		assert.False(t, strings.HasPrefix(buf.String(), "{"))
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("should also write to the log file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "suite.log")
		logger := NewWriter(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, &buf)

		logger.Info("to file")
		require.NoError(t, logger.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"to file"`)
	})
}
