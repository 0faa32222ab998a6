// Package gfxtest provides an in-memory gfx.Device that records what it is
// asked to do. It needs no GPU and no GL context.
package gfxtest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"quadbatch/pkg/gfx"
)

// Buffer is the recorded state of one buffer object.
type Buffer struct {
	Target gfx.BufferTarget
	Usage  gfx.BufferUsage
	Data   []byte
	Mapped bool
	Maps   int
}

// Attrib is one recorded VertexAttrib call.
type Attrib struct {
	VertexArray uint32
	Location    uint32
	Components  int
	Scalar      gfx.ScalarType
	Stride      int
	Offset      int
}

// TextureBind is one recorded BindTextureUnit call.
type TextureBind struct {
	Unit int
	ID   uint32
}

// Texture is the recorded state of one texture object.
type Texture struct {
	Width, Height int
	Pixels        []byte
	Filter        gfx.TextureFilter
}

// Draw is one recorded DrawIndexed call.
type Draw struct {
	Count       int
	VertexArray uint32
	Program     uint32
}

// Device records calls made through gfx.Device. Failure injection fields
// make the next matching call fail.
type Device struct {
	nextID  uint32
	nextLoc int32

	Buffers      map[uint32]*Buffer
	VertexArrays map[uint32]bool
	Textures     map[uint32]*Texture
	Shaders      map[uint32]gfx.ShaderStage
	Programs     map[uint32][]uint32
	Uniforms     map[int32]any
	UniformNames map[string]int32
	Lookups      int

	Attribs      []Attrib
	TextureBinds []TextureBind
	Draws        []Draw
	Clears       int

	BoundVertexArray uint32
	BoundProgram     uint32
	Bound            map[gfx.BufferTarget]uint32

	TextureUnits int

	FailCreateBuffer error
	FailMap          error
	FailCompile      map[gfx.ShaderStage]string
	FailLink         string
}

// NewDevice returns an empty recording device with 16 texture units
func NewDevice() *Device {
	return &Device{
		Buffers:      make(map[uint32]*Buffer),
		VertexArrays: make(map[uint32]bool),
		Textures:     make(map[uint32]*Texture),
		Shaders:      make(map[uint32]gfx.ShaderStage),
		Programs:     make(map[uint32][]uint32),
		Uniforms:     make(map[int32]any),
		UniformNames: make(map[string]int32),
		Bound:        make(map[gfx.BufferTarget]uint32),
		TextureUnits: 16,
		FailCompile:  make(map[gfx.ShaderStage]string),
	}
}

var _ gfx.Device = (*Device)(nil)

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) CreateBuffer(target gfx.BufferTarget, size int, data []byte, usage gfx.BufferUsage) (uint32, error) {
	if err := d.FailCreateBuffer; err != nil {
		d.FailCreateBuffer = nil
		return 0, err
	}
	b := &Buffer{Target: target, Usage: usage, Data: make([]byte, size)}
	copy(b.Data, data)
	id := d.id()
	d.Buffers[id] = b
	d.Bound[target] = id
	return id, nil
}

func (d *Device) ResizeBuffer(target gfx.BufferTarget, id uint32, size int, usage gfx.BufferUsage) error {
	b, ok := d.Buffers[id]
	if !ok {
		return fmt.Errorf("gfxtest: no buffer %d", id)
	}
	if b.Mapped {
		return errors.New("gfxtest: resize of mapped buffer")
	}
	b.Data = make([]byte, size)
	b.Usage = usage
	return nil
}

func (d *Device) DeleteBuffer(id uint32) {
	delete(d.Buffers, id)
}

func (d *Device) BindBuffer(target gfx.BufferTarget, id uint32) {
	d.Bound[target] = id
}

func (d *Device) MapBuffer(target gfx.BufferTarget, id uint32, size int) ([]byte, error) {
	if err := d.FailMap; err != nil {
		d.FailMap = nil
		return nil, err
	}
	b, ok := d.Buffers[id]
	if !ok {
		return nil, fmt.Errorf("gfxtest: no buffer %d", id)
	}
	if b.Mapped {
		return nil, fmt.Errorf("gfxtest: buffer %d already mapped", id)
	}
	if size > len(b.Data) {
		return nil, fmt.Errorf("gfxtest: map of %d bytes exceeds buffer size %d", size, len(b.Data))
	}
	b.Mapped = true
	b.Maps++
	return b.Data[:size:size], nil
}

func (d *Device) UnmapBuffer(target gfx.BufferTarget, id uint32) error {
	b, ok := d.Buffers[id]
	if !ok {
		return fmt.Errorf("gfxtest: no buffer %d", id)
	}
	if !b.Mapped {
		return fmt.Errorf("gfxtest: buffer %d not mapped", id)
	}
	b.Mapped = false
	return nil
}

func (d *Device) CreateVertexArray() (uint32, error) {
	id := d.id()
	d.VertexArrays[id] = true
	return id, nil
}

func (d *Device) BindVertexArray(id uint32) {
	d.BoundVertexArray = id
}

func (d *Device) DeleteVertexArray(id uint32) {
	delete(d.VertexArrays, id)
}

func (d *Device) VertexAttrib(location uint32, components int, scalar gfx.ScalarType, stride, offset int) {
	d.Attribs = append(d.Attribs, Attrib{
		VertexArray: d.BoundVertexArray,
		Location:    location,
		Components:  components,
		Scalar:      scalar,
		Stride:      stride,
		Offset:      offset,
	})
}

func (d *Device) CreateTexture(width, height int, rgba []byte, filter gfx.TextureFilter) (uint32, error) {
	if len(rgba) != width*height*4 {
		return 0, fmt.Errorf("gfxtest: %d bytes for %dx%d texture", len(rgba), width, height)
	}
	id := d.id()
	d.Textures[id] = &Texture{Width: width, Height: height, Pixels: append([]byte(nil), rgba...), Filter: filter}
	return id, nil
}

func (d *Device) BindTextureUnit(unit int, id uint32) {
	d.TextureBinds = append(d.TextureBinds, TextureBind{Unit: unit, ID: id})
}

func (d *Device) DeleteTexture(id uint32) {
	delete(d.Textures, id)
}

func (d *Device) MaxTextureUnits() int { return d.TextureUnits }

func (d *Device) CompileShader(stage gfx.ShaderStage, source string) (uint32, error) {
	if msg, ok := d.FailCompile[stage]; ok {
		return 0, errors.New(msg)
	}
	id := d.id()
	d.Shaders[id] = stage
	return id, nil
}

func (d *Device) DeleteShader(id uint32) {
	delete(d.Shaders, id)
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, error) {
	if d.FailLink != "" {
		return 0, errors.New(d.FailLink)
	}
	for _, s := range shaders {
		if _, ok := d.Shaders[s]; !ok {
			return 0, fmt.Errorf("gfxtest: shader %d does not exist", s)
		}
	}
	id := d.id()
	d.Programs[id] = append([]uint32(nil), shaders...)
	return id, nil
}

func (d *Device) UseProgram(id uint32) {
	d.BoundProgram = id
}

func (d *Device) DeleteProgram(id uint32) {
	delete(d.Programs, id)
}

// UniformLocation hands out locations from UniformNames, allocating a new
// one for any name not registered as missing (-1).
func (d *Device) UniformLocation(program uint32, name string) int32 {
	d.Lookups++
	if loc, ok := d.UniformNames[name]; ok {
		return loc
	}
	loc := d.nextLoc
	d.nextLoc++
	d.UniformNames[name] = loc
	return loc
}

func (d *Device) UniformInt(location int32, v int32) { d.Uniforms[location] = v }
func (d *Device) UniformInts(location int32, v []int32) { d.Uniforms[location] = append([]int32(nil), v...) }
func (d *Device) UniformFloat(location int32, v float32) { d.Uniforms[location] = v }
func (d *Device) UniformVec2(location int32, v mgl32.Vec2) { d.Uniforms[location] = v }
func (d *Device) UniformVec3(location int32, v mgl32.Vec3) { d.Uniforms[location] = v }
func (d *Device) UniformVec4(location int32, v mgl32.Vec4) { d.Uniforms[location] = v }
func (d *Device) UniformMat3(location int32, v mgl32.Mat3) { d.Uniforms[location] = v }
func (d *Device) UniformMat4(location int32, v mgl32.Mat4) { d.Uniforms[location] = v }

func (d *Device) DrawIndexed(count int) {
	d.Draws = append(d.Draws, Draw{Count: count, VertexArray: d.BoundVertexArray, Program: d.BoundProgram})
}

func (d *Device) Clear(r, g, b, a float32) { d.Clears++ }

func (d *Device) Viewport(x, y, width, height int) {}

// Uniform returns the last value uploaded to the named uniform
func (d *Device) Uniform(name string) (any, bool) {
	loc, ok := d.UniformNames[name]
	if !ok {
		return nil, false
	}
	v, ok := d.Uniforms[loc]
	return v, ok
}

// DrawCounts returns the index count of every draw call in order
func (d *Device) DrawCounts() []int {
	out := make([]int, len(d.Draws))
	for i, dr := range d.Draws {
		out[i] = dr.Count
	}
	return out
}

// Floats decodes the contents of buffer id as native-endian float32 values
func (d *Device) Floats(id uint32) []float32 {
	b, ok := d.Buffers[id]
	if !ok {
		return nil
	}
	out := make([]float32, len(b.Data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(b.Data[i*4:]))
	}
	return out
}

// Uint32s decodes the contents of buffer id as native-endian uint32 values
func (d *Device) Uint32s(id uint32) []uint32 {
	b, ok := d.Buffers[id]
	if !ok {
		return nil
	}
	out := make([]uint32, len(b.Data)/4)
	for i := range out {
		out[i] = binary.NativeEndian.Uint32(b.Data[i*4:])
	}
	return out
}
