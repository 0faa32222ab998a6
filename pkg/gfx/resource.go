package gfx

import "fmt"

// Resource is the capability shared by every GPU object wrapper.
type Resource interface {
	Bind()
	Release()
}

// ResourceKind tags what a Handle refers to.
type ResourceKind int

const (
	KindBuffer ResourceKind = iota
	KindVertexArray
	KindTexture
	KindShader
	KindProgram
)

func (k ResourceKind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindVertexArray:
		return "vertex array"
	case KindTexture:
		return "texture"
	case KindShader:
		return "shader"
	case KindProgram:
		return "program"
	default:
		return "unknown"
	}
}

// Handle is a non-owning reference to a GPU object. ID 0 is never a live
// object.
type Handle struct {
	Kind ResourceKind
	ID   uint32
}

// Valid reports whether the handle refers to an allocated object
func (h Handle) Valid() bool { return h.ID != 0 }

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d", h.Kind, h.ID)
}

var (
	_ Resource = (*VertexBuffer)(nil)
	_ Resource = (*IndexBuffer)(nil)
	_ Resource = (*GeometryBuffer)(nil)
	_ Resource = (*Texture)(nil)
	_ Resource = (*Program)(nil)
)
