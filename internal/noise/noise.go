// Package noise provides seeded gradient noise for animating sprite colors.
package noise

import (
	"math"

	"quadbatch/internal/util"
)

// Field is a deterministic 2D gradient noise field. The zero value uses
// seed 0.
type Field struct {
	seed int
}

func NewField(seed uint64) Field {
	return Field{seed: int(seed & math.MaxInt32)}
}

// Perlin2D returns gradient noise at (x, y), roughly in [-1, 1].
// It is 0 at every integer lattice point.
func (f Field) Perlin2D(x, y float64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	d00 := f.corner(ix, iy, fx, fy)
	d10 := f.corner(ix+1, iy, fx-1, fy)
	d01 := f.corner(ix, iy+1, fx, fy-1)
	d11 := f.corner(ix+1, iy+1, fx-1, fy-1)

	sx, sy := fade(fx), fade(fy)
	return util.Lerp(util.Lerp(d00, d10, sx), util.Lerp(d01, d11, sx), sy)
}

// FBM2D sums octaves of Perlin2D, each at twice the frequency and half the
// amplitude of the previous one, normalized back to [-1, 1].
func (f Field) FBM2D(x, y float64, octaves int) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum, norm := 0.0, 0.0
	amplitude, frequency := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		octave := Field{seed: f.seed + i}
		sum += octave.Perlin2D(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return sum / norm
}

// corner dots the lattice gradient at (ix, iy) with the offset (dx, dy)
func (f Field) corner(ix, iy int, dx, dy float64) float64 {
	g := gradients[hash(ix, iy, f.seed)&7]
	return g[0]*dx + g[1]*dy
}

var gradients = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

func hash(x, y, seed int) int {
	h := seed + x*374761393 + y*668265263
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// fade is the quintic 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}
