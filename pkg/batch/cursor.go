package batch

import (
	"encoding/binary"
	"fmt"
	"math"
)

// vertexCursor writes Vertex records into mapped buffer memory. The offset
// survives unmapping so a later mapping resumes where writing stopped.
type vertexCursor struct {
	mem []byte
	off int
}

func (c *vertexCursor) attach(mem []byte) {
	c.mem = mem
}

func (c *vertexCursor) detach() {
	c.mem = nil
}

func (c *vertexCursor) rewind() {
	c.off = 0
}

// vertices returns how many vertices were written since the last rewind
func (c *vertexCursor) vertices() int {
	return c.off / VertexSize
}

func (c *vertexCursor) put(v *Vertex) {
	if c.off+VertexSize > len(c.mem) {
		panic(fmt.Sprintf("batch: vertex write at byte %d overruns %d-byte mapping", c.off, len(c.mem)))
	}
	b := c.mem[c.off : c.off+VertexSize]
	putFloats(b[0:], v.Position[:]...)
	putFloats(b[12:], v.Color[:]...)
	putFloats(b[28:], v.UV[:]...)
	putFloats(b[36:], v.Slot)
	c.off += VertexSize
}

func putFloats(b []byte, fs ...float32) {
	for i, f := range fs {
		binary.NativeEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
}
