package gfx

import (
	"encoding/binary"
	"fmt"
)

// VertexBuffer is a growable array buffer that can be mapped for CPU writes.
type VertexBuffer struct {
	dev      BufferDevice
	id       uint32
	size     int
	mapped   []byte
	released bool
}

func newVertexBuffer(dev BufferDevice, size int) (*VertexBuffer, error) {
	id, err := dev.CreateBuffer(ArrayBuffer, size, nil, DynamicDraw)
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer (%d bytes): %w", size, err)
	}
	return &VertexBuffer{dev: dev, id: id, size: size}, nil
}

// Handle returns the non-owning handle of the buffer
func (b *VertexBuffer) Handle() Handle { return Handle{Kind: KindBuffer, ID: b.id} }

// Size returns the allocated capacity in bytes
func (b *VertexBuffer) Size() int { return b.size }

// Mapped reports whether a CPU mapping is active
func (b *VertexBuffer) Mapped() bool { return b.mapped != nil }

// Bind makes the buffer the current array buffer
func (b *VertexBuffer) Bind() {
	b.dev.BindBuffer(ArrayBuffer, b.id)
}

// Map returns CPU-visible memory over the whole capacity. Mapping twice
// returns the existing mapping.
func (b *VertexBuffer) Map() ([]byte, error) {
	if b.released {
		return nil, ErrReleased
	}
	if b.mapped != nil {
		return b.mapped, nil
	}
	mem, err := b.dev.MapBuffer(ArrayBuffer, b.id, b.size)
	if err != nil {
		return nil, fmt.Errorf("map vertex buffer: %w", err)
	}
	if len(mem) < b.size {
		b.dev.UnmapBuffer(ArrayBuffer, b.id)
		return nil, fmt.Errorf("map vertex buffer: got %d bytes, want %d", len(mem), b.size)
	}
	b.mapped = mem[:b.size]
	return b.mapped, nil
}

// Unmap releases the CPU mapping and hands the contents to the GPU
func (b *VertexBuffer) Unmap() error {
	if b.mapped == nil {
		return ErrNotMapped
	}
	b.mapped = nil
	if err := b.dev.UnmapBuffer(ArrayBuffer, b.id); err != nil {
		return fmt.Errorf("unmap vertex buffer: %w", err)
	}
	return nil
}

// Grow reallocates the buffer to at least size bytes. Contents are lost.
func (b *VertexBuffer) Grow(size int) error {
	if b.released {
		return ErrReleased
	}
	if b.mapped != nil {
		return fmt.Errorf("grow vertex buffer: buffer is mapped")
	}
	if size <= b.size {
		return nil
	}
	if err := b.dev.ResizeBuffer(ArrayBuffer, b.id, size, DynamicDraw); err != nil {
		return fmt.Errorf("grow vertex buffer to %d bytes: %w", size, err)
	}
	b.size = size
	return nil
}

// Release frees the GPU buffer
func (b *VertexBuffer) Release() {
	if b.released {
		return
	}
	if b.mapped != nil {
		b.Unmap()
	}
	b.dev.DeleteBuffer(b.id)
	b.released = true
}

// IndexBuffer is an element buffer whose content is fixed at creation.
type IndexBuffer struct {
	dev      BufferDevice
	id       uint32
	count    int
	released bool
}

func newIndexBuffer(dev BufferDevice, indices []uint32) (*IndexBuffer, error) {
	data := make([]byte, 0, len(indices)*4)
	for _, idx := range indices {
		data = binary.NativeEndian.AppendUint32(data, idx)
	}
	id, err := dev.CreateBuffer(ElementArrayBuffer, len(data), data, StaticDraw)
	if err != nil {
		return nil, fmt.Errorf("create index buffer (%d indices): %w", len(indices), err)
	}
	return &IndexBuffer{dev: dev, id: id, count: len(indices)}, nil
}

// Handle returns the non-owning handle of the buffer
func (b *IndexBuffer) Handle() Handle { return Handle{Kind: KindBuffer, ID: b.id} }

// Count returns the number of indices stored
func (b *IndexBuffer) Count() int { return b.count }

// Bind makes the buffer the current element buffer
func (b *IndexBuffer) Bind() {
	b.dev.BindBuffer(ElementArrayBuffer, b.id)
}

// Release frees the GPU buffer
func (b *IndexBuffer) Release() {
	if b.released {
		return
	}
	b.dev.DeleteBuffer(b.id)
	b.released = true
}

// GeometryBuffer pairs a growable vertex buffer with an immutable index
// buffer behind one vertex array object.
type GeometryBuffer struct {
	dev      BufferDevice
	vao      uint32
	vertices *VertexBuffer
	indices  *IndexBuffer
	layout   *InputLayout
	released bool
}

// NewGeometryBuffer allocates both buffers and applies layout to the vertex
// buffer. capacity is the vertex buffer size in bytes.
func NewGeometryBuffer(dev BufferDevice, layout *InputLayout, capacity int, indices []uint32) (*GeometryBuffer, error) {
	if capacity <= 0 {
		return nil, &ConfigurationError{Component: "geometry buffer", Reason: fmt.Sprintf("vertex capacity must be positive, got %d bytes", capacity)}
	}
	if len(indices) == 0 {
		return nil, &ConfigurationError{Component: "geometry buffer", Reason: "index data is empty"}
	}
	if layout == nil {
		layout = &InputLayout{}
	}

	vao, err := dev.CreateVertexArray()
	if err != nil {
		return nil, fmt.Errorf("create vertex array: %w", err)
	}
	dev.BindVertexArray(vao)

	vb, err := newVertexBuffer(dev, capacity)
	if err != nil {
		dev.BindVertexArray(0)
		dev.DeleteVertexArray(vao)
		return nil, err
	}
	vb.Bind()
	layout.apply(dev)

	ib, err := newIndexBuffer(dev, indices)
	if err != nil {
		dev.BindVertexArray(0)
		vb.Release()
		dev.DeleteVertexArray(vao)
		return nil, err
	}
	ib.Bind()
	dev.BindVertexArray(0)

	return &GeometryBuffer{
		dev:      dev,
		vao:      vao,
		vertices: vb,
		indices:  ib,
		layout:   layout,
	}, nil
}

// Handle returns the vertex array handle
func (g *GeometryBuffer) Handle() Handle { return Handle{Kind: KindVertexArray, ID: g.vao} }

// Vertices returns the vertex buffer
func (g *GeometryBuffer) Vertices() *VertexBuffer { return g.vertices }

// Indices returns the index buffer
func (g *GeometryBuffer) Indices() *IndexBuffer { return g.indices }

// Layout returns the layout applied at construction
func (g *GeometryBuffer) Layout() *InputLayout { return g.layout }

// IndexCount returns the number of indices in the index buffer
func (g *GeometryBuffer) IndexCount() int { return g.indices.count }

// Bind makes both buffers active for subsequent draws
func (g *GeometryBuffer) Bind() {
	g.dev.BindVertexArray(g.vao)
	g.vertices.Bind()
	g.indices.Bind()
}

// Map maps the vertex buffer for writing
func (g *GeometryBuffer) Map() ([]byte, error) {
	if g.released {
		return nil, ErrReleased
	}
	g.Bind()
	return g.vertices.Map()
}

// Unmap releases the vertex buffer mapping
func (g *GeometryBuffer) Unmap() error {
	g.vertices.Bind()
	return g.vertices.Unmap()
}

// Release frees the vertex array and both buffers
func (g *GeometryBuffer) Release() {
	if g.released {
		return
	}
	g.dev.BindVertexArray(0)
	g.vertices.Release()
	g.indices.Release()
	g.dev.DeleteVertexArray(g.vao)
	g.released = true
}
