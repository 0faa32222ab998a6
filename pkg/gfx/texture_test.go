package gfx_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadbatch/pkg/gfx"
	"quadbatch/pkg/gfx/gfxtest"
)

// twoRowImage is 1x2: red on top, blue at the bottom.
func twoRowImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestNewTextureFlipsRows(t *testing.T) {
	dev := gfxtest.NewDevice()
	tex, err := gfx.NewTexture(dev, twoRowImage(), gfx.FilterNearest)
	require.NoError(t, err)

	assert.Equal(t, 1, tex.Width())
	assert.Equal(t, 2, tex.Height())

	rec := dev.Textures[tex.Handle().ID]
	require.NotNil(t, rec)
	assert.Equal(t, gfx.FilterNearest, rec.Filter)
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, rec.Pixels, "bottom row uploaded first")
}

func TestNewTextureHandlesOffsetBounds(t *testing.T) {
	dev := gfxtest.NewDevice()
	img := image.NewRGBA(image.Rect(5, 5, 8, 7))
	tex, err := gfx.NewTexture(dev, img, gfx.FilterLinear)
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width())
	assert.Equal(t, 2, tex.Height())
}

func TestNewTextureEmptyImage(t *testing.T) {
	dev := gfxtest.NewDevice()
	_, err := gfx.NewTexture(dev, image.NewRGBA(image.Rect(0, 0, 0, 0)), gfx.FilterLinear)
	var de *gfx.DecodeError
	assert.ErrorAs(t, err, &de)
}

func TestDecodeTexturePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, twoRowImage()))

	dev := gfxtest.NewDevice()
	tex, err := gfx.DecodeTexture(dev, &buf, "mem.png", gfx.FilterLinear)
	require.NoError(t, err)
	assert.Equal(t, 2, tex.Height())
}

func TestDecodeTextureMalformed(t *testing.T) {
	dev := gfxtest.NewDevice()
	_, err := gfx.DecodeTexture(dev, strings.NewReader("definitely not an image"), "junk.png", gfx.FilterLinear)

	var de *gfx.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "junk.png", de.Source)
	assert.ErrorIs(t, err, image.ErrFormat)
	assert.Empty(t, dev.Textures)
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, twoRowImage()))
	require.NoError(t, f.Close())

	dev := gfxtest.NewDevice()
	tex, err := gfx.LoadTexture(dev, path, gfx.FilterLinear)
	require.NoError(t, err)

	tex.BindUnit(3)
	tex.Bind()
	assert.Equal(t, []gfxtest.TextureBind{{Unit: 3, ID: tex.Handle().ID}, {Unit: 0, ID: tex.Handle().ID}}, dev.TextureBinds)

	tex.Release()
	tex.Release()
	assert.Empty(t, dev.Textures)

	_, err = gfx.LoadTexture(dev, filepath.Join(t.TempDir(), "missing.png"), gfx.FilterLinear)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
