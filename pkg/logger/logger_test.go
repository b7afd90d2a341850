package logger

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestNewLogger_UnavailableSink(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "missing", "catalog.log")
	out := captureStdout(t, func() {
		log := NewLogger(Log{LogLevel: zapcore.InfoLevel, Sink: sink}, "test")
		log.Info("after fallback")
		_ = log.Sync()
	})
	require.Contains(t, out, "log sink unavailable")
	require.Contains(t, out, sink)
	require.Contains(t, out, "after fallback")
}

func TestNewLogger_FileSink(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "catalog.log")
	out := captureStdout(t, func() {
		log := NewLogger(Log{LogLevel: zapcore.InfoLevel, Sink: sink}, "test")
		log.Info("to file")
		log.Debug("filtered")
		_ = log.Sync()
	})
	require.Empty(t, out)

	b, err := os.ReadFile(sink)
	require.NoError(t, err)
	require.Contains(t, string(b), "to file")
	require.NotContains(t, string(b), "filtered")
}
