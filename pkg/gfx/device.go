package gfx

import "github.com/go-gl/mathgl/mgl32"

// BufferTarget selects the binding point of a buffer object.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

func (t BufferTarget) String() string {
	switch t {
	case ArrayBuffer:
		return "array"
	case ElementArrayBuffer:
		return "element"
	default:
		return "unknown"
	}
}

// BufferUsage is a hint for how often buffer contents change.
type BufferUsage int

const (
	StaticDraw BufferUsage = iota
	DynamicDraw
	StreamDraw
)

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// TextureFilter selects texture sampling.
type TextureFilter int

const (
	FilterLinear TextureFilter = iota
	FilterNearest
)

// ScalarType is the component type a vertex attribute is read as.
type ScalarType int

const (
	ScalarFloat ScalarType = iota
	ScalarInt
	ScalarBool
)

// BufferDevice allocates, maps and describes buffer objects.
type BufferDevice interface {
	CreateBuffer(target BufferTarget, size int, data []byte, usage BufferUsage) (uint32, error)
	// ResizeBuffer reallocates the storage of an existing buffer, keeping
	// its name so vertex array bindings stay valid. Contents are undefined.
	ResizeBuffer(target BufferTarget, id uint32, size int, usage BufferUsage) error
	DeleteBuffer(id uint32)
	BindBuffer(target BufferTarget, id uint32)
	// MapBuffer returns CPU-visible memory covering size bytes of the
	// buffer. The slice is valid until UnmapBuffer.
	MapBuffer(target BufferTarget, id uint32, size int) ([]byte, error)
	UnmapBuffer(target BufferTarget, id uint32) error

	CreateVertexArray() (uint32, error)
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)
	// VertexAttrib wires one attribute location of the bound vertex array
	// to the bound array buffer.
	VertexAttrib(location uint32, components int, scalar ScalarType, stride, offset int)
}

// TextureDevice owns 2D RGBA textures and texture units.
type TextureDevice interface {
	CreateTexture(width, height int, rgba []byte, filter TextureFilter) (uint32, error)
	BindTextureUnit(unit int, id uint32)
	DeleteTexture(id uint32)
	MaxTextureUnits() int
}

// ShaderDevice compiles shaders and uploads uniforms.
type ShaderDevice interface {
	// CompileShader returns the compiler info log as the error on failure.
	CompileShader(stage ShaderStage, source string) (uint32, error)
	DeleteShader(id uint32)
	// LinkProgram returns the linker info log as the error on failure.
	LinkProgram(shaders ...uint32) (uint32, error)
	UseProgram(id uint32)
	DeleteProgram(id uint32)

	// UniformLocation returns -1 when the program has no such active uniform.
	UniformLocation(program uint32, name string) int32
	UniformInt(location int32, v int32)
	UniformInts(location int32, v []int32)
	UniformFloat(location int32, v float32)
	UniformVec2(location int32, v mgl32.Vec2)
	UniformVec3(location int32, v mgl32.Vec3)
	UniformVec4(location int32, v mgl32.Vec4)
	UniformMat3(location int32, v mgl32.Mat3)
	UniformMat4(location int32, v mgl32.Mat4)
}

// DrawDevice issues draw calls against the bound state.
type DrawDevice interface {
	// DrawIndexed draws count uint32 indices of triangles from the bound
	// element buffer.
	DrawIndexed(count int)
	Clear(r, g, b, a float32)
	Viewport(x, y, width, height int)
}

// Device is the graphics context the wrappers in this package call into.
// Implementations are bound to a single thread.
type Device interface {
	BufferDevice
	TextureDevice
	ShaderDevice
	DrawDevice
}
