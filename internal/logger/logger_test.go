package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mcp.log")
	require.NoError(t, Init(path))
	t.Cleanup(func() { _ = Close() })

	Infof("cache ready with %d entries", 3)
	Warnf("slow upstream")
	WithFields(logrus.Fields{"tool": "get-schedule"}).Info("tool call")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "cache ready with 3 entries")
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "tool=get-schedule")
}

func TestSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.log")
	require.NoError(t, Init(path))
	t.Cleanup(func() {
		_ = Close()
		_ = SetLevel("info")
	})

	require.NoError(t, SetLevel("warn"))
	Infof("hidden")
	Warnf("shown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")

	assert.Error(t, SetLevel("loud"))
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv(envLogPath, "/tmp/custom.log")
	assert.Equal(t, "/tmp/custom.log", DefaultPath())
}
