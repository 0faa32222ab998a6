package batch

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"quadbatch/internal/logger"
	"quadbatch/pkg/gfx"
)

const (
	// DefaultCapacity is the sprite count used when Options.Capacity is 0
	DefaultCapacity = 10000

	// MaxTextureUnits is the size of the sampler array in the sprite shader
	MaxTextureUnits = 16
)

type state int

const (
	stateUninitialized state = iota
	stateIdle
	stateMapped
	stateReleased
)

func (s state) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateIdle:
		return "idle"
	case stateMapped:
		return "mapped"
	case stateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Options configures a Renderer
type Options struct {
	// Capacity is the number of sprites one mapping can hold
	Capacity int
	// TextureUnits caps how many distinct textures one batch may use. It is
	// further limited by the device and by MaxTextureUnits.
	TextureUnits int
	Logger       *logger.Logger
}

// Stats counts renderer activity since creation or the last ResetStats
type Stats struct {
	DrawCalls      int
	Flushes        int
	Sprites        int
	LastIndexCount int
}

// ViewProjector supplies the matrix uploaded by UseProgram
type ViewProjector interface {
	ViewProjection() mgl32.Mat4
}

// Renderer batches sprites into one mapped vertex buffer and draws them with
// a prebuilt quad index buffer. A Renderer is owned by the thread that owns
// the graphics context.
//
// Per frame: Begin, any number of Submit, End, Present. When a batch reaches
// capacity, Submit flushes on its own (End, Present, Begin) and continues.
// Calls out of sequence panic with *gfx.ProtocolViolation.
type Renderer struct {
	dev          gfx.Device
	log          *logger.Logger
	capacity     int
	textureUnits int

	geometry *gfx.GeometryBuffer
	cursor   vertexCursor
	state    state

	// pendingIndices is what the next Present draws.
	pendingIndices int
	// spritesSinceFlush is compared against capacity before every write.
	spritesSinceFlush int

	units []*gfx.Texture
	stats Stats
}

// New creates a renderer. No GPU memory is touched until Init.
func New(dev gfx.Device, opts Options) *Renderer {
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	units := opts.TextureUnits
	if units <= 0 || units > MaxTextureUnits {
		units = MaxTextureUnits
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Renderer{
		dev:          dev,
		log:          log,
		capacity:     capacity,
		textureUnits: units,
	}
}

func (r *Renderer) violation(op string) {
	panic(&gfx.ProtocolViolation{Op: op, State: r.state.String()})
}

// Init allocates the geometry buffer pair sized for Capacity sprites and
// uploads the full index array. It must be called exactly once.
func (r *Renderer) Init() error {
	if r.state != stateUninitialized {
		r.violation("Init")
	}

	if limit := r.dev.MaxTextureUnits(); limit > 0 && limit < r.textureUnits {
		r.textureUnits = limit
	}

	geometry, err := gfx.NewGeometryBuffer(r.dev, SpriteLayout(), r.capacity*verticesPerQuad*VertexSize, QuadIndices(r.capacity))
	if err != nil {
		return fmt.Errorf("init sprite renderer (capacity %d): %w", r.capacity, err)
	}

	r.geometry = geometry
	r.units = make([]*gfx.Texture, 0, r.textureUnits)
	r.state = stateIdle
	r.log.Infof("Sprite renderer initialized: %d sprites, %d KiB vertex buffer, %d texture units",
		r.capacity, geometry.Vertices().Size()/1024, r.textureUnits)
	return nil
}

// Deinit releases the geometry buffers. Textures are never released here.
func (r *Renderer) Deinit() {
	if r.geometry == nil {
		r.state = stateReleased
		return
	}
	if r.state == stateMapped {
		r.cursor.detach()
	}
	r.geometry.Release()
	r.geometry = nil
	r.units = nil
	r.state = stateReleased
	r.log.Info("Sprite renderer released")
}

// Begin maps the vertex buffer for writing
func (r *Renderer) Begin() error {
	if r.state != stateIdle {
		r.violation("Begin")
	}
	mem, err := r.geometry.Map()
	if err != nil {
		return fmt.Errorf("begin sprite batch: %w", err)
	}
	r.cursor.attach(mem)
	r.state = stateMapped
	return nil
}

// Submit writes one sprite. It never fails for lack of room: a full batch
// is flushed first.
func (r *Renderer) Submit(s Sprite) {
	if r.state != stateMapped {
		r.violation("Submit")
	}

	if r.spritesSinceFlush == r.capacity {
		r.flush("capacity")
	}

	slot := r.textureSlot(s.Texture)
	uv := &DefaultUV
	if s.UV != nil {
		uv = s.UV
	}

	corners := s.corners()
	for i := range corners {
		r.cursor.put(&Vertex{
			Position: corners[i],
			Color:    s.Color,
			UV:       uv[i],
			Slot:     slot,
		})
	}

	r.pendingIndices += indicesPerQuad
	r.spritesSinceFlush++
	r.stats.Sprites++
}

// textureSlot binds tex to a unit for the current batch and returns the unit
// as the vertex slot value.
func (r *Renderer) textureSlot(tex *gfx.Texture) float32 {
	if tex == nil {
		return UntexturedSlot
	}
	for unit, bound := range r.units {
		if bound == tex {
			return float32(unit)
		}
	}
	if len(r.units) == r.textureUnits {
		r.flush("texture units")
	}
	unit := len(r.units)
	r.units = append(r.units, tex)
	tex.BindUnit(unit)
	return float32(unit)
}

// flush draws everything written so far and reopens the buffer
func (r *Renderer) flush(reason string) {
	r.log.Debugf("Sprite batch flush (%s): %d sprites, %d indices", reason, r.spritesSinceFlush, r.pendingIndices)
	if err := r.End(); err != nil {
		panic(fmt.Errorf("sprite batch flush: %w", err))
	}
	r.Present()
	if err := r.Begin(); err != nil {
		panic(fmt.Errorf("sprite batch flush: %w", err))
	}
	r.spritesSinceFlush = 0
	r.stats.Flushes++
}

// End unmaps the vertex buffer so the GPU can read what was written
func (r *Renderer) End() error {
	if r.state != stateMapped {
		r.violation("End")
	}
	r.cursor.detach()
	r.state = stateIdle
	if err := r.geometry.Unmap(); err != nil {
		return fmt.Errorf("end sprite batch: %w", err)
	}
	return nil
}

// Present issues one indexed draw for everything written since the last
// Present, then starts the next batch at the beginning of the buffer.
// With nothing pending it draws zero indices.
func (r *Renderer) Present() {
	if r.state != stateIdle {
		r.violation("Present")
	}
	r.geometry.Bind()
	r.dev.DrawIndexed(r.pendingIndices)

	r.stats.DrawCalls++
	r.stats.LastIndexCount = r.pendingIndices
	r.pendingIndices = 0
	r.spritesSinceFlush = 0
	r.cursor.rewind()
	r.units = r.units[:0]
}

// UseProgram binds p and uploads the view-projection matrix and the
// sampler array the sprite shader expects.
func (r *Renderer) UseProgram(p *gfx.Program, cam ViewProjector) {
	p.Bind()
	p.SetMat4("u_ViewProjection", cam.ViewProjection())
	samplers := make([]int32, MaxTextureUnits)
	for i := range samplers {
		samplers[i] = int32(i)
	}
	p.SetInts("u_Textures", samplers)
}

// Capacity returns the number of sprites per mapping
func (r *Renderer) Capacity() int { return r.capacity }

// TextureUnits returns how many textures one batch may bind
func (r *Renderer) TextureUnits() int { return r.textureUnits }

// Mapped reports whether the renderer is between Begin and End
func (r *Renderer) Mapped() bool { return r.state == stateMapped }

// PendingIndices returns the index count the next Present will draw
func (r *Renderer) PendingIndices() int { return r.pendingIndices }

// SpritesSinceFlush returns the sprites written since the last flush or
// Present
func (r *Renderer) SpritesSinceFlush() int { return r.spritesSinceFlush }

// VerticesWritten returns the vertices written since the last Present
func (r *Renderer) VerticesWritten() int { return r.cursor.vertices() }

// Geometry returns the geometry buffer pair, nil before Init
func (r *Renderer) Geometry() *gfx.GeometryBuffer { return r.geometry }

// Stats returns the activity counters
func (r *Renderer) Stats() Stats { return r.stats }

// ResetStats zeroes the activity counters
func (r *Renderer) ResetStats() { r.stats = Stats{} }
