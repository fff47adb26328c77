package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lumenplan/dayplanner/internal/config"
)

// syncBuffer adapts a bytes.Buffer to zapcore.WriteSyncer so Initialize can
// log into memory.
type syncBuffer struct {
	bytes.Buffer
}

func (b *syncBuffer) Sync() error { return nil }

func TestInitialize(t *testing.T) {
	t.Run("json format produces valid json", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer

		Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "testsvc"}, &buf)
		GetLogger().Warn("something happened", zap.String("key", "value"))

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output should be valid JSON")
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "testsvc", entry["logger"])
		assert.Equal(t, "something happened", entry["msg"])
		assert.Equal(t, "value", entry["key"])
	})

	t.Run("level filter applies", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer

		Initialize(config.LoggerConfig{Level: "warn", Format: "json"}, &buf)
		GetLogger().Info("too quiet to pass")
		GetLogger().Warn("loud enough")

		out := buf.String()
		assert.NotContains(t, out, "too quiet to pass")
		assert.Contains(t, out, "loud enough")
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer

		Initialize(config.LoggerConfig{Level: "shouty", Format: "json"}, &buf)
		GetLogger().Info("still logged")
		assert.Contains(t, buf.String(), "still logged")
	})

	t.Run("second initialization is ignored", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer

		Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "first"}, &buf)
		first := GetLogger()
		Initialize(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "second"}, &buf)

		assert.Equal(t, first, GetLogger())
		GetLogger().Info("hello")
		assert.Contains(t, buf.String(), "first")
		assert.NotContains(t, buf.String(), "second")
	})

	t.Run("log file receives entries", func(t *testing.T) {
		ResetForTest()
		var buf syncBuffer
		logPath := filepath.Join(t.TempDir(), "dayplanner.log")

		Initialize(config.LoggerConfig{
			Level: "debug", Format: "json", LogFile: logPath, MaxSize: 1,
		}, &buf)
		GetLogger().Error("this should reach the file")
		Sync()

		content, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "this should reach the file")
	})
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	logger := GetLogger()
	require.NotNil(t, logger, "requesting the logger before init returns a usable fallback")
}

var _ zapcore.WriteSyncer = (*syncBuffer)(nil)
