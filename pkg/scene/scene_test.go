package scene

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadbatch/internal/logger"
	"quadbatch/pkg/batch"
	"quadbatch/pkg/config"
	"quadbatch/pkg/gfx"
	"quadbatch/pkg/gfx/gfxtest"
)

var testBounds = Bounds{Left: -2, Right: 2, Bottom: -1, Top: 1}

type recorder struct {
	sprites []batch.Sprite
}

func (r *recorder) Submit(s batch.Sprite) { r.sprites = append(r.sprites, s) }

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestNewSelectsScene(t *testing.T) {
	cfg := config.DefaultConfig().Scene

	s, err := New(cfg, testBounds, nil)
	require.NoError(t, err)
	assert.Equal(t, "grid", s.Name())

	cfg.Name = config.SceneStress
	s, err = New(cfg, testBounds, nil)
	require.NoError(t, err)
	assert.Equal(t, "stress", s.Name())

	cfg.Name = "tunnel"
	_, err = New(cfg, testBounds, nil)
	assert.ErrorContains(t, err, `unknown scene "tunnel"`)
}

func TestGridLayout(t *testing.T) {
	g := NewGrid(4, 2, 1, testBounds, nil)
	rec := &recorder{}
	g.Draw(rec)

	require.Len(t, rec.sprites, 8)
	for _, s := range rec.sprites {
		assert.Nil(t, s.Texture)
		assert.GreaterOrEqual(t, s.Position.X(), testBounds.Left)
		assert.LessOrEqual(t, s.Position.X()+s.Size.X(), testBounds.Right+1e-5)
		assert.GreaterOrEqual(t, s.Position.Y(), testBounds.Bottom)
		assert.LessOrEqual(t, s.Position.Y()+s.Size.Y(), testBounds.Top+1e-5)
		assert.Equal(t, float32(1), s.Color.W())
	}
	assert.InDelta(t, 0.9, rec.sprites[0].Size.X(), 1e-5)
}

func TestGridTexturesEveryOtherCell(t *testing.T) {
	dev := gfxtest.NewDevice()
	tex, err := gfx.NewTexture(dev, image.NewRGBA(image.Rect(0, 0, 1, 1)), gfx.FilterNearest)
	require.NoError(t, err)

	g := NewGrid(3, 3, 1, testBounds, []*gfx.Texture{tex})
	rec := &recorder{}
	g.Draw(rec)

	textured := 0
	for _, s := range rec.sprites {
		if s.Texture != nil {
			textured++
		}
	}
	assert.Equal(t, 4, textured)
}

func TestGridAnimates(t *testing.T) {
	g := NewGrid(6, 6, 9, testBounds, nil)
	before := &recorder{}
	g.Draw(before)
	g.Update(0.5)
	after := &recorder{}
	g.Draw(after)

	require.Len(t, after.sprites, 36)
	assert.NotEqual(t, before.sprites[7].Color, after.sprites[7].Color)
	assert.Equal(t, before.sprites[7].Position, after.sprites[7].Position)
	for _, s := range after.sprites {
		for _, c := range s.Color {
			assert.GreaterOrEqual(t, c, float32(0))
			assert.LessOrEqual(t, c, float32(1))
		}
	}
}

func TestGridDegenerateSizes(t *testing.T) {
	g := NewGrid(0, -1, 1, testBounds, nil)
	assert.Equal(t, 1, g.Len())
}

func TestStressIsDeterministic(t *testing.T) {
	a := NewStress(50, 7, testBounds, nil)
	b := NewStress(50, 7, testBounds, nil)
	assert.Equal(t, a.particles, b.particles)

	c := NewStress(50, 8, testBounds, nil)
	assert.NotEqual(t, a.particles, c.particles)
}

func TestStressStaysInBounds(t *testing.T) {
	st := NewStress(200, 3, testBounds, nil)
	for i := 0; i < 600; i++ {
		st.Update(1.0 / 30)
	}
	for _, p := range st.particles {
		assert.GreaterOrEqual(t, p.pos.X(), testBounds.Left)
		assert.LessOrEqual(t, p.pos.X(), testBounds.Right-p.size+1e-5)
		assert.GreaterOrEqual(t, p.pos.Y(), testBounds.Bottom)
		assert.LessOrEqual(t, p.pos.Y(), testBounds.Top-p.size+1e-5)
	}
}

func TestStressDrawFlushesThroughRenderer(t *testing.T) {
	dev := gfxtest.NewDevice()
	r := batch.New(dev, batch.Options{Capacity: 10})
	require.NoError(t, r.Init())

	st := NewStress(25, 1, testBounds, nil)
	require.NoError(t, r.Begin())
	st.Draw(r)
	require.NoError(t, r.End())
	r.Present()

	assert.Equal(t, []int{60, 60, 30}, dev.DrawCounts())
	assert.Equal(t, 25, r.Stats().Sprites)
}

func TestLoadTextures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 2)
	writePNG(t, filepath.Join(dir, "pixel_b.png"), 1, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	single := filepath.Join(t.TempDir(), "c.png")
	writePNG(t, single, 2, 2)

	dev := gfxtest.NewDevice()
	textures, err := LoadTextures(dev, []string{dir, single, filepath.Join(dir, "missing.png")}, logger.Discard())
	require.NoError(t, err)
	require.Len(t, textures, 3)
	assert.Len(t, dev.Textures, 3)

	filters := map[gfx.TextureFilter]int{}
	for _, tex := range textures {
		filters[dev.Textures[tex.Handle().ID].Filter]++
	}
	assert.Equal(t, map[gfx.TextureFilter]int{gfx.FilterLinear: 2, gfx.FilterNearest: 1}, filters)

	ReleaseTextures(textures)
	assert.Empty(t, dev.Textures)
}
