package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/htmx-minesweeper/internal/config"
)

func TestNewLevels(t *testing.T) {
	cfg := config.Default()
	log, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	cfg.Mode = "production"
	log, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	cfg.Log.Level = "warn"
	log, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	cfg.Log.Level = "loud"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestNewWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "minesweeper.log")

	log, err := New(cfg)
	require.NoError(t, err)
	log.WithField("game", "started").Info("hello")

	b, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.Contains(t, string(b), `"game":"started"`)
}
