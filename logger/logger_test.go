package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_StdoutOnly(t *testing.T) {
	loggers, err := NewLogger("", false)
	require.NoError(t, err)
	defer loggers.Close()

	assert.Equal(t, logrus.InfoLevel, loggers.App.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, loggers.App.Formatter)
	assert.Equal(t, os.Stdout, loggers.Request.Output)
}

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	loggers, err := NewLogger(dir, true)
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, loggers.App.GetLevel())

	loggers.App.WithField("video_id", "abc123").Info("hello")
	require.NoError(t, loggers.Close())

	content, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "video_id=abc123")
}
