// Package scene provides the demo sprite scenes drawn by the engine.
package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"quadbatch/internal/logger"
	"quadbatch/internal/util"
	"quadbatch/pkg/batch"
	"quadbatch/pkg/config"
	"quadbatch/pkg/gfx"
)

// Submitter accepts sprites, normally a mapped *batch.Renderer
type Submitter interface {
	Submit(s batch.Sprite)
}

// Scene is a set of sprites updated and drawn once per frame
type Scene interface {
	Name() string
	Update(dt float64)
	Draw(s Submitter)
}

// Bounds is the world rectangle a scene lays its sprites out in
type Bounds struct {
	Left, Right, Bottom, Top float32
}

func (b Bounds) width() float32  { return b.Right - b.Left }
func (b Bounds) height() float32 { return b.Top - b.Bottom }

// New builds the scene named in cfg inside bounds. textures may be empty.
func New(cfg config.SceneConfig, bounds Bounds, textures []*gfx.Texture) (Scene, error) {
	switch cfg.Name {
	case config.SceneGrid:
		return NewGrid(cfg.Columns, cfg.Rows, cfg.Seed, bounds, textures), nil
	case config.SceneStress:
		return NewStress(cfg.Sprites, cfg.Seed, bounds, textures), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", cfg.Name)
	}
}

var textureExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// expandTexturePaths replaces every directory in paths with the image files
// it contains
func expandTexturePaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if !util.DirExists(p) {
			out = append(out, p)
			continue
		}
		for _, ext := range textureExts {
			files, err := util.ListFilesWithExt(p, ext)
			if err != nil {
				return nil, fmt.Errorf("list textures in %s: %w", p, err)
			}
			out = append(out, files...)
		}
	}
	return out, nil
}

// LoadTextures loads every image named in paths; directories contribute all
// images inside them. Textures that fail to load are logged and skipped.
func LoadTextures(dev gfx.TextureDevice, paths []string, log *logger.Logger) ([]*gfx.Texture, error) {
	files, err := expandTexturePaths(paths)
	if err != nil {
		return nil, err
	}

	var textures []*gfx.Texture
	for _, f := range files {
		filter := gfx.FilterLinear
		if strings.Contains(strings.ToLower(filepath.Base(f)), "pixel") {
			filter = gfx.FilterNearest
		}
		tex, err := gfx.LoadTexture(dev, f, filter)
		if err != nil {
			log.Warnf("Skipping texture %s: %v", f, err)
			continue
		}
		log.Debugf("Loaded texture %s (%dx%d)", f, tex.Width(), tex.Height())
		textures = append(textures, tex)
	}
	return textures, nil
}

// ReleaseTextures frees textures loaded by LoadTextures
func ReleaseTextures(textures []*gfx.Texture) {
	for _, t := range textures {
		t.Release()
	}
}
