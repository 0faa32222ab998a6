package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"quadbatch/internal/noise"
	"quadbatch/internal/util"
	"quadbatch/pkg/batch"
	"quadbatch/pkg/gfx"
)

const (
	gridGap       = 0.1 // fraction of a cell left empty
	gridHueSpeed  = 30  // degrees per second
	gridHueSpread = 360
	gridNoiseFreq = 0.35 // noise cells per grid cell
	gridShimmer   = 0.3  // brightness swing driven by noise
)

// Grid tiles bounds with columns x rows sprites. Untextured cells cycle
// through hues with a noise shimmer; when textures are given every other
// cell is textured.
type Grid struct {
	columns, rows int
	bounds        Bounds
	textures      []*gfx.Texture
	field         noise.Field
	hue           float64
	elapsed       float64
}

func NewGrid(columns, rows int, seed uint64, bounds Bounds, textures []*gfx.Texture) *Grid {
	return &Grid{
		columns:  max(columns, 1),
		rows:     max(rows, 1),
		bounds:   bounds,
		textures: textures,
		field:    noise.NewField(seed),
	}
}

func (g *Grid) Name() string { return "grid" }

// Len returns the number of sprites drawn per frame
func (g *Grid) Len() int { return g.columns * g.rows }

func (g *Grid) Update(dt float64) {
	g.elapsed += dt
	g.hue += gridHueSpeed * dt
	if g.hue >= 360 {
		g.hue -= 360
	}
}

func (g *Grid) Draw(s Submitter) {
	cellW := g.bounds.width() / float32(g.columns)
	cellH := g.bounds.height() / float32(g.rows)
	size := mgl32.Vec2{cellW * (1 - gridGap), cellH * (1 - gridGap)}

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.columns; col++ {
			i := row*g.columns + col
			t := float64(i) / float64(g.Len())
			n := g.field.FBM2D(float64(col)*gridNoiseFreq+g.elapsed, float64(row)*gridNoiseFreq, 3)
			value := util.Clamp(0.75+gridShimmer*n, 0, 1)
			r, gr, b := util.HSVToRGB(g.hue+t*gridHueSpread, 0.7, value)

			sprite := batch.Sprite{
				Position: mgl32.Vec3{
					g.bounds.Left + float32(col)*cellW + cellW*gridGap/2,
					g.bounds.Bottom + float32(row)*cellH + cellH*gridGap/2,
					0,
				},
				Size:  size,
				Color: mgl32.Vec4{float32(r), float32(gr), float32(b), 1},
			}
			if len(g.textures) > 0 && (row+col)%2 == 1 {
				sprite.Texture = g.textures[(i/2)%len(g.textures)]
				sprite.Color = mgl32.Vec4{1, 1, 1, 1}
			}
			s.Submit(sprite)
		}
	}
}
