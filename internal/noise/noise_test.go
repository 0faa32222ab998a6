package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerlinZeroOnLattice(t *testing.T) {
	f := NewField(42)
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			assert.Equal(t, 0.0, f.Perlin2D(float64(x), float64(y)))
		}
	}
}

func TestPerlinRangeAndDeterminism(t *testing.T) {
	a, b := NewField(7), NewField(7)
	other := NewField(8)
	differs := false
	for i := 0; i < 500; i++ {
		x, y := float64(i)*0.37, float64(i)*0.21+0.5
		v := a.Perlin2D(x, y)
		assert.Equal(t, v, b.Perlin2D(x, y))
		assert.LessOrEqual(t, v, 1.5)
		assert.GreaterOrEqual(t, v, -1.5)
		if v != other.Perlin2D(x, y) {
			differs = true
		}
	}
	assert.True(t, differs, "seed changes the field")
}

func TestFBMNormalized(t *testing.T) {
	f := NewField(3)
	for i := 0; i < 200; i++ {
		v := f.FBM2D(float64(i)*0.13, float64(i)*0.07, 4)
		assert.LessOrEqual(t, v, 1.5)
		assert.GreaterOrEqual(t, v, -1.5)
	}
	assert.Equal(t, f.Perlin2D(0.3, 0.6), f.FBM2D(0.3, 0.6, 0))
}
