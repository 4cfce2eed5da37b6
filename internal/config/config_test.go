package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Nominatim.BaseURL)
	assert.Equal(t, "dublin-geo/1.0", cfg.Nominatim.UserAgent)
	assert.InDelta(t, 1.0, cfg.Nominatim.RatePerSec, 0.001)
	assert.Equal(t, 15, cfg.Nominatim.TimeoutSecs)
	assert.Equal(t, "geocode_cache.db", cfg.Cache.Path)
	assert.Equal(t, 2, cfg.Scrape.Concurrency)
	assert.InDelta(t, 0.5, cfg.Scrape.RatePerSec, 0.001)
	assert.Equal(t, 30, cfg.Scrape.TimeoutSecs)
	assert.Equal(t, 900, cfg.Render.Width)
	assert.Equal(t, 900, cfg.Render.Height)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	yaml := `
nominatim:
  rate_per_sec: 0.5
  email: research@example.ie
cache:
  path: /tmp/cache.db
render:
  width: 1200
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.Nominatim.RatePerSec, 0.001)
	assert.Equal(t, "research@example.ie", cfg.Nominatim.Email)
	assert.Equal(t, "/tmp/cache.db", cfg.Cache.Path)
	assert.Equal(t, 1200, cfg.Render.Width)
	// Untouched keys keep their defaults.
	assert.Equal(t, 900, cfg.Render.Height)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}
