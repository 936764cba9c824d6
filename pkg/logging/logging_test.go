package logging

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("Backup failed", "dir", "/tmp/yedek")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Backup failed")
	assert.Contains(t, out, "dir=/tmp/yedek")
	assert.False(t, strings.Contains(out, "\x1b["), "no color codes when not writing to a terminal")
}

func TestNewHandler_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "veresiye-*.log")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f))

	slog.New(NewHandler(f, slog.LevelInfo)).Info("Snapshot written", "path", "auto_backup_01-01-2024_1000.csv")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Snapshot written")
	assert.NotContains(t, string(data), "\x1b[")
}
