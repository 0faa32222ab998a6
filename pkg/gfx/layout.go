package gfx

// ElementKind is the type of one vertex attribute.
type ElementKind int

const (
	Float ElementKind = iota
	Float2
	Float3
	Float4
	Int
	Int2
	Int3
	Int4
	Mat3
	Mat4
	Bool
)

// Components returns how many scalars the kind holds
func (k ElementKind) Components() int {
	switch k {
	case Float, Int, Bool:
		return 1
	case Float2, Int2:
		return 2
	case Float3, Int3:
		return 3
	case Float4, Int4:
		return 4
	case Mat3:
		return 3 * 3
	case Mat4:
		return 4 * 4
	default:
		return 0
	}
}

// Size returns the byte size of one element of the kind
func (k ElementKind) Size() int {
	if k == Bool {
		return 1
	}
	return k.Components() * 4
}

// Scalar returns how the GPU reads the components
func (k ElementKind) Scalar() ScalarType {
	switch k {
	case Int, Int2, Int3, Int4:
		return ScalarInt
	case Bool:
		return ScalarBool
	default:
		return ScalarFloat
	}
}

// locations is the number of attribute locations the kind occupies.
// Matrices take one location per column.
func (k ElementKind) locations() int {
	switch k {
	case Mat3:
		return 3
	case Mat4:
		return 4
	default:
		return 1
	}
}

func (k ElementKind) String() string {
	switch k {
	case Float:
		return "float"
	case Float2:
		return "vec2"
	case Float3:
		return "vec3"
	case Float4:
		return "vec4"
	case Int:
		return "int"
	case Int2:
		return "ivec2"
	case Int3:
		return "ivec3"
	case Int4:
		return "ivec4"
	case Mat3:
		return "mat3"
	case Mat4:
		return "mat4"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Attribute describes one entry of an InputLayout.
type Attribute struct {
	Name   string
	Kind   ElementKind
	Offset int
}

// InputLayout is the ordered attribute list of a vertex buffer. The zero
// value is an empty layout with stride 0.
type InputLayout struct {
	attributes []Attribute
	stride     int
}

// NewInputLayout builds a layout from (kind, name) pairs pushed in order
func NewInputLayout(attrs ...Attribute) *InputLayout {
	l := &InputLayout{}
	for _, a := range attrs {
		l.Push(a.Kind, a.Name)
	}
	return l
}

// Push appends an attribute placed right after the previous ones
func (l *InputLayout) Push(kind ElementKind, name string) *InputLayout {
	l.attributes = append(l.attributes, Attribute{
		Name:   name,
		Kind:   kind,
		Offset: l.stride,
	})
	l.stride += kind.Size()
	return l
}

// Attributes returns a copy of the attribute list
func (l *InputLayout) Attributes() []Attribute {
	out := make([]Attribute, len(l.attributes))
	copy(out, l.attributes)
	return out
}

// Stride returns the byte size of one vertex
func (l *InputLayout) Stride() int { return l.stride }

// Len returns the number of attributes
func (l *InputLayout) Len() int { return len(l.attributes) }

// apply wires every attribute to consecutive locations starting at 0 on the
// currently bound vertex array and array buffer.
func (l *InputLayout) apply(dev BufferDevice) {
	var location uint32
	for _, a := range l.attributes {
		cols := a.Kind.locations()
		comps := a.Kind.Components() / cols
		colSize := a.Kind.Size() / cols
		for c := 0; c < cols; c++ {
			dev.VertexAttrib(location, comps, a.Kind.Scalar(), l.stride, a.Offset+c*colSize)
			location++
		}
	}
}
