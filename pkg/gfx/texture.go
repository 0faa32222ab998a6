package gfx

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Texture owns a 2D RGBA image on the GPU.
type Texture struct {
	dev      TextureDevice
	id       uint32
	width    int
	height   int
	released bool
}

// NewTexture uploads img. Rows are flipped so that UV (0,0) is the
// bottom-left corner of the image.
func NewTexture(dev TextureDevice, img image.Image, filter TextureFilter) (*Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, &DecodeError{Err: errors.New("image has no pixels")}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	flipRows(rgba)

	id, err := dev.CreateTexture(b.Dx(), b.Dy(), rgba.Pix, filter)
	if err != nil {
		return nil, fmt.Errorf("create texture %dx%d: %w", b.Dx(), b.Dy(), err)
	}
	return &Texture{dev: dev, id: id, width: b.Dx(), height: b.Dy()}, nil
}

// DecodeTexture decodes a PNG, JPEG, GIF, BMP or WebP stream and uploads
// it. name only labels errors.
func DecodeTexture(dev TextureDevice, r io.Reader, name string, filter TextureFilter) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &DecodeError{Source: name, Err: err}
	}
	tex, err := NewTexture(dev, img, filter)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Source = name
		}
		return nil, err
	}
	return tex, nil
}

// LoadTexture reads and decodes the image file at path
func LoadTexture(dev TextureDevice, path string, filter TextureFilter) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	return DecodeTexture(dev, bufio.NewReader(f), path, filter)
}

func flipRows(img *image.RGBA) {
	h := img.Rect.Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

// Handle returns the non-owning handle of the texture
func (t *Texture) Handle() Handle { return Handle{Kind: KindTexture, ID: t.id} }

// Width returns the width in pixels
func (t *Texture) Width() int { return t.width }

// Height returns the height in pixels
func (t *Texture) Height() int { return t.height }

// Bind attaches the texture to unit 0
func (t *Texture) Bind() { t.BindUnit(0) }

// BindUnit attaches the texture to the numbered texture unit
func (t *Texture) BindUnit(unit int) {
	t.dev.BindTextureUnit(unit, t.id)
}

// Release frees the GPU image
func (t *Texture) Release() {
	if t.released {
		return
	}
	t.dev.DeleteTexture(t.id)
	t.released = true
}
