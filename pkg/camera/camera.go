package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction is one of the four cardinal directions the camera can move in
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Projection kind
type Projection int

const (
	Orthographic Projection = iota
	Perspective
)

// Camera owns view, projection and the derived view-projection matrix.
// Every setter recomputes the derived matrices immediately.
type Camera struct {
	kind     Projection
	position mgl32.Vec3
	rotation float32 // radians around Z

	// orthographic bounds
	left, right, bottom, top float32
	// perspective parameters
	fovy, aspect float32
	near, far    float32

	projection     mgl32.Mat4
	view           mgl32.Mat4
	viewProjection mgl32.Mat4
}

// NewOrthographic creates a 2D camera covering the given bounds with
// depth range [-1, 1]
func NewOrthographic(left, right, bottom, top float32) *Camera {
	c := &Camera{
		kind:   Orthographic,
		left:   left,
		right:  right,
		bottom: bottom,
		top:    top,
		near:   -1,
		far:    1,
	}
	c.recalculateProjection()
	return c
}

// NewPerspective creates a camera with a vertical field of view in degrees
func NewPerspective(fovyDeg, aspect, near, far float32) *Camera {
	c := &Camera{
		kind:   Perspective,
		fovy:   mgl32.DegToRad(fovyDeg),
		aspect: aspect,
		near:   near,
		far:    far,
	}
	c.recalculateProjection()
	return c
}

func (c *Camera) recalculateProjection() {
	switch c.kind {
	case Perspective:
		c.projection = mgl32.Perspective(c.fovy, c.aspect, c.near, c.far)
	default:
		c.projection = mgl32.Ortho(c.left, c.right, c.bottom, c.top, c.near, c.far)
	}
	c.recalculateView()
}

func (c *Camera) recalculateView() {
	transform := mgl32.Translate3D(c.position.X(), c.position.Y(), c.position.Z()).
		Mul4(mgl32.HomogRotate3DZ(c.rotation))
	c.view = transform.Inv()
	c.viewProjection = c.projection.Mul4(c.view)
}

// Kind returns the projection kind
func (c *Camera) Kind() Projection { return c.kind }

// Position returns the camera position in world space
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Rotation returns the rotation around Z in radians
func (c *Camera) Rotation() float32 { return c.rotation }

// View returns the view matrix
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Projection returns the projection matrix
func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

// ViewProjection returns projection * view
func (c *Camera) ViewProjection() mgl32.Mat4 { return c.viewProjection }

// SetPosition moves the camera to p
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.recalculateView()
}

// SetRotation sets the rotation around Z in radians
func (c *Camera) SetRotation(radians float32) {
	c.rotation = radians
	c.recalculateView()
}

// Move translates the camera by amount world units in dir
func (c *Camera) Move(dir Direction, amount float32) {
	switch dir {
	case Up:
		c.position[1] += amount
	case Down:
		c.position[1] -= amount
	case Left:
		c.position[0] -= amount
	case Right:
		c.position[0] += amount
	default:
		return
	}
	c.recalculateView()
}

// Resize adapts the projection to a new width/height ratio. Orthographic
// cameras keep their vertical extent and center.
func (c *Camera) Resize(aspect float32) {
	if aspect <= 0 {
		return
	}
	switch c.kind {
	case Perspective:
		c.aspect = aspect
	default:
		height := c.top - c.bottom
		cx := (c.left + c.right) / 2
		halfWidth := height * aspect / 2
		c.left, c.right = cx-halfWidth, cx+halfWidth
	}
	c.recalculateProjection()
}

// Bounds returns the orthographic bounds (left, right, bottom, top)
func (c *Camera) Bounds() (left, right, bottom, top float32) {
	return c.left, c.right, c.bottom, c.top
}
