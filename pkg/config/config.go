package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"quadbatch/internal/util"
)

// Config represents the main configuration
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Camera   CameraConfig   `yaml:"camera"`
	Scene    SceneConfig    `yaml:"scene"`
	Log      LogConfig      `yaml:"log"`
}

// WindowConfig contains window and frame pacing settings
type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FrameRate  int    `yaml:"framerate"` // 0 disables the cap
}

// RendererConfig contains sprite batch settings
type RendererConfig struct {
	MaxSprites   int        `yaml:"max_sprites"`
	TextureUnits int        `yaml:"texture_units"`
	ClearColor   [4]float32 `yaml:"clear_color"`
}

// CameraConfig contains camera settings
type CameraConfig struct {
	Mode  string  `yaml:"mode"` // ortho, perspective
	FOV   float32 `yaml:"fov"`  // degrees, perspective only
	Near  float32 `yaml:"near"`
	Far   float32 `yaml:"far"`
	Speed float32 `yaml:"speed"` // world units per second
}

// SceneConfig selects and parameterizes the demo scene
type SceneConfig struct {
	Name     string   `yaml:"name"` // grid, stress
	Columns  int      `yaml:"columns"`
	Rows     int      `yaml:"rows"`
	Sprites  int      `yaml:"sprites"` // stress scene only
	Textures []string `yaml:"textures,omitempty"`
	Seed     uint64   `yaml:"seed"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to stdout only
}

// Camera modes
const (
	CameraOrtho       = "ortho"
	CameraPerspective = "perspective"
)

// Scene names
const (
	SceneGrid   = "grid"
	SceneStress = "stress"
)

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "quadbatch demo",
			VSync:     true,
			FrameRate: 60,
		},
		Renderer: RendererConfig{
			MaxSprites:   10000,
			TextureUnits: 16,
			ClearColor:   [4]float32{0.1, 0.1, 0.12, 1},
		},
		Camera: CameraConfig{
			Mode:  CameraOrtho,
			FOV:   45,
			Near:  -1,
			Far:   1,
			Speed: 2,
		},
		Scene: SceneConfig{
			Name:    SceneGrid,
			Columns: 20,
			Rows:    20,
			Sprites: 25000,
			Seed:    1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values the renderer cannot work with
func (c *Config) Validate() error {
	var problems []string

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, fmt.Sprintf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.FrameRate < 0 {
		problems = append(problems, "window.framerate must not be negative")
	}
	if c.Renderer.MaxSprites <= 0 {
		problems = append(problems, "renderer.max_sprites must be positive")
	}
	if c.Renderer.TextureUnits <= 0 {
		problems = append(problems, "renderer.texture_units must be positive")
	}
	switch c.Camera.Mode {
	case CameraOrtho:
	case CameraPerspective:
		if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
			problems = append(problems, "camera.fov must be in (0, 180)")
		}
		if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
			problems = append(problems, "camera near/far must satisfy 0 < near < far")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown camera.mode %q", c.Camera.Mode))
	}
	switch c.Scene.Name {
	case SceneGrid:
		if c.Scene.Columns <= 0 || c.Scene.Rows <= 0 {
			problems = append(problems, "scene columns/rows must be positive")
		}
	case SceneStress:
		if c.Scene.Sprites <= 0 {
			problems = append(problems, "scene.sprites must be positive")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown scene.name %q", c.Scene.Name))
	}
	for _, tex := range c.Scene.Textures {
		if !util.FileExists(tex) && !util.DirExists(tex) {
			problems = append(problems, fmt.Sprintf("texture %q not found", tex))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadConfig loads the configuration from a file. The defaults are returned
// alongside any error so callers can continue with them.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("error parsing config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := util.CreateDirIfNotExist(filepath.Dir(filePath)); err != nil {
		return err
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
