package gfx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadbatch/pkg/gfx"
	"quadbatch/pkg/gfx/gfxtest"
)

func TestGeometryBufferRejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		indices  []uint32
	}{
		{"zero capacity", 0, []uint32{0, 1, 2}},
		{"negative capacity", -4, []uint32{0, 1, 2}},
		{"empty indices", 64, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gfxtest.NewDevice()
			g, err := gfx.NewGeometryBuffer(dev, &gfx.InputLayout{}, tt.capacity, tt.indices)
			assert.Nil(t, g)
			var ce *gfx.ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Empty(t, dev.Buffers, "no allocation on configuration error")
			assert.Empty(t, dev.VertexArrays)
		})
	}
}

func TestGeometryBufferAppliesLayoutOnce(t *testing.T) {
	dev := gfxtest.NewDevice()
	layout := (&gfx.InputLayout{}).
		Push(gfx.Float3, "a_Position").
		Push(gfx.Mat3, "a_Transform").
		Push(gfx.Int, "a_ID")

	g, err := gfx.NewGeometryBuffer(dev, layout, 1024, []uint32{0, 1, 2, 2, 3, 0})
	require.NoError(t, err)

	stride := layout.Stride()
	assert.Equal(t, []gfxtest.Attrib{
		{VertexArray: g.Handle().ID, Location: 0, Components: 3, Scalar: gfx.ScalarFloat, Stride: stride, Offset: 0},
		{VertexArray: g.Handle().ID, Location: 1, Components: 3, Scalar: gfx.ScalarFloat, Stride: stride, Offset: 12},
		{VertexArray: g.Handle().ID, Location: 2, Components: 3, Scalar: gfx.ScalarFloat, Stride: stride, Offset: 24},
		{VertexArray: g.Handle().ID, Location: 3, Components: 3, Scalar: gfx.ScalarFloat, Stride: stride, Offset: 36},
		{VertexArray: g.Handle().ID, Location: 4, Components: 1, Scalar: gfx.ScalarInt, Stride: stride, Offset: 48},
	}, dev.Attribs)

	g.Bind()
	g.Bind()
	_, err = g.Map()
	require.NoError(t, err)
	require.NoError(t, g.Unmap())
	assert.Len(t, dev.Attribs, 5, "binding and mapping never re-apply the layout")
}

func TestGeometryBufferIndexContentIsFixed(t *testing.T) {
	dev := gfxtest.NewDevice()
	indices := []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}
	g, err := gfx.NewGeometryBuffer(dev, nil, 256, indices)
	require.NoError(t, err)

	indices[0] = 99
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}, dev.Uint32s(g.Indices().Handle().ID))
	assert.Equal(t, 12, g.IndexCount())
	assert.Equal(t, gfx.StaticDraw, dev.Buffers[g.Indices().Handle().ID].Usage)
	assert.Equal(t, gfx.DynamicDraw, dev.Buffers[g.Vertices().Handle().ID].Usage)
}

func TestGeometryBufferBindIsIdempotent(t *testing.T) {
	dev := gfxtest.NewDevice()
	g, err := gfx.NewGeometryBuffer(dev, nil, 64, []uint32{0})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		g.Bind()
		assert.Equal(t, g.Handle().ID, dev.BoundVertexArray)
		assert.Equal(t, g.Vertices().Handle().ID, dev.Bound[gfx.ArrayBuffer])
		assert.Equal(t, g.Indices().Handle().ID, dev.Bound[gfx.ElementArrayBuffer])
	}
}

func TestVertexBufferMapUnmap(t *testing.T) {
	dev := gfxtest.NewDevice()
	g, err := gfx.NewGeometryBuffer(dev, nil, 32, []uint32{0})
	require.NoError(t, err)
	vb := g.Vertices()

	assert.ErrorIs(t, vb.Unmap(), gfx.ErrNotMapped)

	mem, err := g.Map()
	require.NoError(t, err)
	assert.Len(t, mem, 32)
	assert.True(t, vb.Mapped())

	again, err := vb.Map()
	require.NoError(t, err)
	assert.Equal(t, len(mem), len(again))
	assert.Equal(t, 1, dev.Buffers[vb.Handle().ID].Maps)

	mem[0] = 7
	require.NoError(t, g.Unmap())
	assert.False(t, vb.Mapped())
	assert.Equal(t, byte(7), dev.Buffers[vb.Handle().ID].Data[0])
}

func TestVertexBufferGrow(t *testing.T) {
	dev := gfxtest.NewDevice()
	g, err := gfx.NewGeometryBuffer(dev, nil, 32, []uint32{0})
	require.NoError(t, err)
	vb := g.Vertices()
	id := vb.Handle().ID

	require.NoError(t, vb.Grow(16))
	assert.Equal(t, 32, vb.Size())

	require.NoError(t, vb.Grow(128))
	assert.Equal(t, 128, vb.Size())
	assert.Equal(t, id, vb.Handle().ID, "growing keeps the buffer name")
	assert.Len(t, dev.Buffers[id].Data, 128)

	_, err = vb.Map()
	require.NoError(t, err)
	assert.Error(t, vb.Grow(256))
}

func TestGeometryBufferReleaseFreesEverything(t *testing.T) {
	dev := gfxtest.NewDevice()
	g, err := gfx.NewGeometryBuffer(dev, nil, 32, []uint32{0})
	require.NoError(t, err)
	_, err = g.Map()
	require.NoError(t, err)

	g.Release()
	g.Release()
	assert.Empty(t, dev.Buffers)
	assert.Empty(t, dev.VertexArrays)

	_, err = g.Map()
	assert.ErrorIs(t, err, gfx.ErrReleased)
}

func TestGeometryBufferAllocationFailureLeavesNothing(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.FailCreateBuffer = errors.New("out of memory")

	g, err := gfx.NewGeometryBuffer(dev, nil, 32, []uint32{0})
	assert.Nil(t, g)
	assert.ErrorContains(t, err, "out of memory")
	assert.Empty(t, dev.VertexArrays)
	assert.Empty(t, dev.Buffers)
}

func TestHandle(t *testing.T) {
	assert.False(t, gfx.Handle{}.Valid())
	h := gfx.Handle{Kind: gfx.KindTexture, ID: 3}
	assert.True(t, h.Valid())
	assert.Equal(t, "texture#3", h.String())
}
