// Package glbackend implements gfx.Device on OpenGL 4.1 core through go-gl.
// A Device must only be used on the thread that owns the current context.
package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"quadbatch/internal/logger"
	"quadbatch/pkg/gfx"
)

// Device issues gfx.Device calls against the current OpenGL context
type Device struct {
	log          *logger.Logger
	textureUnits int
}

var _ gfx.Device = (*Device)(nil)

// New loads the OpenGL function pointers for the current context and sets
// the blend state sprites are drawn with.
func New(log *logger.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %v", err)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var units int32
	gl.GetIntegerv(gl.MAX_TEXTURE_IMAGE_UNITS, &units)

	if log == nil {
		log = logger.Discard()
	}
	log.Infof("OpenGL %s (%s), %d texture units",
		gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)), units)

	return &Device{log: log, textureUnits: int(units)}, nil
}

func bufferTarget(t gfx.BufferTarget) uint32 {
	if t == gfx.ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func bufferUsage(u gfx.BufferUsage) uint32 {
	switch u {
	case gfx.StaticDraw:
		return gl.STATIC_DRAW
	case gfx.StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.DYNAMIC_DRAW
	}
}

// glError drains the error queue and reports the first error, if any
func glError(op string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("%s: GL error 0x%04X", op, code)
}

func (d *Device) CreateBuffer(target gfx.BufferTarget, size int, data []byte, usage gfx.BufferUsage) (uint32, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(bufferTarget(target), id)

	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(bufferTarget(target), size, ptr, bufferUsage(usage))
	if err := glError("create buffer"); err != nil {
		gl.DeleteBuffers(1, &id)
		return 0, err
	}
	return id, nil
}

func (d *Device) ResizeBuffer(target gfx.BufferTarget, id uint32, size int, usage gfx.BufferUsage) error {
	gl.BindBuffer(bufferTarget(target), id)
	gl.BufferData(bufferTarget(target), size, nil, bufferUsage(usage))
	return glError("resize buffer")
}

func (d *Device) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (d *Device) BindBuffer(target gfx.BufferTarget, id uint32) {
	gl.BindBuffer(bufferTarget(target), id)
}

// MapBuffer maps without invalidation so vertices written under an earlier
// mapping are still there when writing resumes.
func (d *Device) MapBuffer(target gfx.BufferTarget, id uint32, size int) ([]byte, error) {
	gl.BindBuffer(bufferTarget(target), id)
	ptr := gl.MapBufferRange(bufferTarget(target), 0, size, gl.MAP_WRITE_BIT)
	if ptr == nil {
		if err := glError("map buffer"); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("map buffer %d: driver returned no memory", id)
	}
	return unsafe.Slice((*byte)(ptr), size), nil
}

func (d *Device) UnmapBuffer(target gfx.BufferTarget, id uint32) error {
	gl.BindBuffer(bufferTarget(target), id)
	if !gl.UnmapBuffer(bufferTarget(target)) {
		d.log.Warnf("Buffer %d contents lost while mapped", id)
		return fmt.Errorf("unmap buffer %d: data store corrupted", id)
	}
	return nil
}

func (d *Device) CreateVertexArray() (uint32, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	gl.BindVertexArray(id)
	if err := glError("create vertex array"); err != nil {
		gl.DeleteVertexArrays(1, &id)
		return 0, err
	}
	return id, nil
}

func (d *Device) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (d *Device) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) VertexAttrib(location uint32, components int, scalar gfx.ScalarType, stride, offset int) {
	switch scalar {
	case gfx.ScalarInt:
		gl.VertexAttribIPointer(location, int32(components), gl.INT, int32(stride), gl.PtrOffset(offset))
	case gfx.ScalarBool:
		gl.VertexAttribIPointer(location, int32(components), gl.UNSIGNED_BYTE, int32(stride), gl.PtrOffset(offset))
	default:
		gl.VertexAttribPointer(location, int32(components), gl.FLOAT, false, int32(stride), gl.PtrOffset(offset))
	}
	gl.EnableVertexAttribArray(location)
}

func (d *Device) CreateTexture(width, height int, rgba []byte, filter gfx.TextureFilter) (uint32, error) {
	if len(rgba) != width*height*4 {
		return 0, fmt.Errorf("create texture: %d bytes for %dx%d RGBA", len(rgba), width, height)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	mode := int32(gl.LINEAR)
	if filter == gfx.FilterNearest {
		mode = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, mode)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	if err := glError("create texture"); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, err
	}
	return id, nil
}

func (d *Device) BindTextureUnit(unit int, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (d *Device) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (d *Device) MaxTextureUnits() int { return d.textureUnits }

func shaderType(stage gfx.ShaderStage) uint32 {
	if stage == gfx.FragmentStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func (d *Device) CompileShader(stage gfx.ShaderStage, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType(stage))

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("%s", strings.TrimRight(string(log), "\x00\n"))
	}
	return shader, nil
}

func (d *Device) DeleteShader(id uint32) {
	gl.DeleteShader(id)
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%s", strings.TrimRight(string(log), "\x00\n"))
	}

	for _, s := range shaders {
		gl.DetachShader(program, s)
	}
	return program, nil
}

func (d *Device) UseProgram(id uint32) {
	gl.UseProgram(id)
}

func (d *Device) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) UniformInt(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *Device) UniformInts(location int32, v []int32) {
	if len(v) == 0 {
		return
	}
	gl.Uniform1iv(location, int32(len(v)), &v[0])
}

func (d *Device) UniformFloat(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Device) UniformVec2(location int32, v mgl32.Vec2) {
	gl.Uniform2f(location, v[0], v[1])
}

func (d *Device) UniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (d *Device) UniformVec4(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (d *Device) UniformMat3(location int32, v mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &v[0])
}

func (d *Device) UniformMat4(location int32, v mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &v[0])
}

func (d *Device) DrawIndexed(count int) {
	if count == 0 {
		return
	}
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}
