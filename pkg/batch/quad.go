package batch

import (
	"github.com/go-gl/mathgl/mgl32"

	"quadbatch/pkg/gfx"
)

const (
	verticesPerQuad = 4
	indicesPerQuad  = 6

	// VertexSize is the byte size of one Vertex in the mapped buffer
	VertexSize = (3 + 4 + 2 + 1) * 4

	// UntexturedSlot marks a vertex that uses its flat color
	UntexturedSlot float32 = -1
)

// quadPattern is the index block of one quad: two triangles sharing the
// bottom-left/top-right diagonal.
var quadPattern = [indicesPerQuad]uint32{0, 1, 2, 2, 3, 0}

// DefaultUV covers the whole texture, in corner order bottom-left,
// top-left, top-right, bottom-right.
var DefaultUV = [verticesPerQuad]mgl32.Vec2{
	{0, 0},
	{0, 1},
	{1, 1},
	{1, 0},
}

// Sprite is one quad submission. Position is the bottom-left corner.
type Sprite struct {
	Position mgl32.Vec3
	Size     mgl32.Vec2
	Color    mgl32.Vec4
	Texture  *gfx.Texture
	// UV overrides DefaultUV, one coordinate per corner in the same order
	UV *[verticesPerQuad]mgl32.Vec2
}

// Vertex is the per-vertex record written to the GPU
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	UV       mgl32.Vec2
	Slot     float32
}

// SpriteLayout describes Vertex to the GPU
func SpriteLayout() *gfx.InputLayout {
	return (&gfx.InputLayout{}).
		Push(gfx.Float3, "a_Position").
		Push(gfx.Float4, "a_Color").
		Push(gfx.Float2, "a_TexCoord").
		Push(gfx.Float, "a_TexIndex")
}

// QuadIndices builds the index array for n quads: the pattern
// {0,1,2,2,3,0} repeated, offset by 4*i for quad i.
func QuadIndices(n int) []uint32 {
	if n <= 0 {
		return nil
	}
	indices := make([]uint32, n*indicesPerQuad)
	for i := 0; i < n; i++ {
		base := uint32(i * verticesPerQuad)
		for j, p := range quadPattern {
			indices[i*indicesPerQuad+j] = base + p
		}
	}
	return indices
}

// SubUV returns the corner coordinates of the pixel rectangle (x, y, w, h)
// inside a sheet of sheetW x sheetH pixels. y counts from the bottom row,
// matching the flipped upload done by gfx.NewTexture.
func SubUV(x, y, w, h, sheetW, sheetH int) *[verticesPerQuad]mgl32.Vec2 {
	u0 := float32(x) / float32(sheetW)
	v0 := float32(y) / float32(sheetH)
	u1 := float32(x+w) / float32(sheetW)
	v1 := float32(y+h) / float32(sheetH)
	return &[verticesPerQuad]mgl32.Vec2{
		{u0, v0},
		{u0, v1},
		{u1, v1},
		{u1, v0},
	}
}

// corners returns the four positions of s in write order
func (s *Sprite) corners() [verticesPerQuad]mgl32.Vec3 {
	x, y, z := s.Position.X(), s.Position.Y(), s.Position.Z()
	w, h := s.Size.X(), s.Size.Y()
	return [verticesPerQuad]mgl32.Vec3{
		{x, y, z},
		{x, y + h, z},
		{x + w, y + h, z},
		{x + w, y, z},
	}
}
