package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bizcard "github.com/porticus-lab/go-bizcard"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Chrome.Timeout)
	assert.Equal(t, CaptureChrome, cfg.Capture.Mode)
	assert.Equal(t, bizcard.DefaultPixelRatio, cfg.Capture.PixelRatio)
	assert.Equal(t, bizcard.DefaultThemeColor, cfg.Theme.Color)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Log.Dir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BIZCARD_API_BASE_URL", "https://crm.example.com/api")
	t.Setenv("BIZCARD_API_TIMEOUT", "3s")
	t.Setenv("BIZCARD_CHROME_NO_SANDBOX", "true")
	t.Setenv("BIZCARD_CAPTURE_MODE", "raster")
	t.Setenv("BIZCARD_CAPTURE_PIXEL_RATIO", "2")
	t.Setenv("BIZCARD_THEME_COLOR", "#2d4263")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://crm.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Chrome.NoSandbox)
	assert.Equal(t, CaptureRaster, cfg.Capture.Mode)
	assert.Equal(t, bizcard.CaptureOptions{PixelRatio: 2, BackgroundColor: "#ffffff"}, cfg.Capture.Options())
	assert.Equal(t, "#2d4263", cfg.Theme.Color)
}

func TestLoadDotEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BIZCARD_API_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BIZCARD_API_TOKEN") })

	file := filepath.Join(dir, "cardgen.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  addr: 127.0.0.1:9000\nlog:\n  level: debug\n"), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.API.Token)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BIZCARD_THEME_COLOR", "navy")
	t.Setenv("BIZCARD_CAPTURE_MODE", "gpu")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, bizcard.ErrInvalidColorFormat)
	assert.ErrorContains(t, err, "capture.mode")
}

func TestLoadMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}
