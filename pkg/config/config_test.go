package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
window:
  width: 640
renderer:
  max_sprites: 2
scene:
  name: stress
  sprites: 5
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, 2, cfg.Renderer.MaxSprites)
	assert.Equal(t, 16, cfg.Renderer.TextureUnits)
	assert.Equal(t, SceneStress, cfg.Scene.Name)
	assert.Equal(t, 5, cfg.Scene.Sprites)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0644))

	cfg, err := LoadConfig(path)
	require.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Camera.Mode = CameraPerspective
	cfg.Camera.Near = 0.1
	cfg.Camera.Far = 100

	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative framerate", func(c *Config) { c.Window.FrameRate = -1 }},
		{"zero sprites", func(c *Config) { c.Renderer.MaxSprites = 0 }},
		{"zero texture units", func(c *Config) { c.Renderer.TextureUnits = 0 }},
		{"unknown camera", func(c *Config) { c.Camera.Mode = "fisheye" }},
		{"bad perspective", func(c *Config) { c.Camera.Mode = CameraPerspective }},
		{"unknown scene", func(c *Config) { c.Scene.Name = "breakout" }},
		{"empty grid", func(c *Config) { c.Scene.Rows = 0 }},
		{"missing texture", func(c *Config) { c.Scene.Textures = []string{"/does/not/exist.png"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
