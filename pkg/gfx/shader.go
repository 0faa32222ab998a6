package gfx

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader is one compiled pipeline stage.
type Shader struct {
	dev      ShaderDevice
	id       uint32
	stage    ShaderStage
	released bool
}

// NewShader compiles source for stage
func NewShader(dev ShaderDevice, stage ShaderStage, source string) (*Shader, error) {
	id, err := dev.CompileShader(stage, source)
	if err != nil {
		return nil, &CompileError{Stage: stage, Log: err.Error()}
	}
	return &Shader{dev: dev, id: id, stage: stage}, nil
}

// Handle returns the non-owning handle of the shader
func (s *Shader) Handle() Handle { return Handle{Kind: KindShader, ID: s.id} }

// Stage returns the pipeline stage
func (s *Shader) Stage() ShaderStage { return s.stage }

// Release deletes the shader object. Programs already linked with it keep
// working.
func (s *Shader) Release() {
	if s.released {
		return
	}
	s.dev.DeleteShader(s.id)
	s.released = true
}

// Program is a linked shader program with a uniform location cache.
type Program struct {
	dev       ShaderDevice
	id        uint32
	locations map[string]int32
	released  bool
}

// NewProgram links the given shaders. On failure no program is returned.
func NewProgram(dev ShaderDevice, shaders ...*Shader) (*Program, error) {
	if len(shaders) == 0 {
		return nil, &LinkError{Log: "no shaders attached"}
	}
	ids := make([]uint32, len(shaders))
	for i, s := range shaders {
		if s == nil || s.released {
			return nil, &LinkError{Log: fmt.Sprintf("shader %d is not usable", i)}
		}
		ids[i] = s.id
	}
	id, err := dev.LinkProgram(ids...)
	if err != nil {
		return nil, &LinkError{Log: err.Error()}
	}
	return &Program{dev: dev, id: id, locations: make(map[string]int32)}, nil
}

// NewProgramFromSource compiles a vertex/fragment pair and links them. The
// intermediate shader objects are always released.
func NewProgramFromSource(dev ShaderDevice, vertexSource, fragmentSource string) (*Program, error) {
	vs, err := NewShader(dev, VertexStage, vertexSource)
	if err != nil {
		return nil, err
	}
	defer vs.Release()

	fs, err := NewShader(dev, FragmentStage, fragmentSource)
	if err != nil {
		return nil, err
	}
	defer fs.Release()

	return NewProgram(dev, vs, fs)
}

// Handle returns the non-owning handle of the program
func (p *Program) Handle() Handle { return Handle{Kind: KindProgram, ID: p.id} }

// Bind makes the program current
func (p *Program) Bind() {
	p.dev.UseProgram(p.id)
}

// Location resolves a uniform name once and caches the answer, including
// misses (-1).
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// SetInt uploads an int uniform. Unknown names are ignored.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformInt(loc, v)
	}
}

// SetInts uploads an int array uniform, e.g. a sampler array
func (p *Program) SetInts(name string, v []int32) {
	if loc := p.Location(name); loc >= 0 && len(v) > 0 {
		p.dev.UniformInts(loc, v)
	}
}

// SetFloat uploads a float uniform
func (p *Program) SetFloat(name string, v float32) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformFloat(loc, v)
	}
}

// SetVec2 uploads a vec2 uniform
func (p *Program) SetVec2(name string, v mgl32.Vec2) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformVec2(loc, v)
	}
}

// SetVec3 uploads a vec3 uniform
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformVec3(loc, v)
	}
}

// SetVec4 uploads a vec4 uniform
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformVec4(loc, v)
	}
}

// SetMat3 uploads a mat3 uniform
func (p *Program) SetMat3(name string, v mgl32.Mat3) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformMat3(loc, v)
	}
}

// SetMat4 uploads a mat4 uniform
func (p *Program) SetMat4(name string, v mgl32.Mat4) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformMat4(loc, v)
	}
}

// Release deletes the program
func (p *Program) Release() {
	if p.released {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.released = true
}

// IsLinkError reports whether err came from a failed program link
func IsLinkError(err error) bool {
	var le *LinkError
	return errors.As(err, &le)
}
