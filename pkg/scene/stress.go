package scene

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"

	"quadbatch/internal/util"
	"quadbatch/pkg/batch"
	"quadbatch/pkg/gfx"
)

const (
	stressMinSize  = 0.02
	stressMaxSize  = 0.08
	stressMaxSpeed = 0.6
)

type particle struct {
	pos     mgl32.Vec2
	vel     mgl32.Vec2
	size    float32
	color   mgl32.Vec4
	texture *gfx.Texture
}

// Stress bounces many small sprites inside bounds. It is meant to push the
// renderer past its capacity so batches flush mid-frame.
type Stress struct {
	bounds    Bounds
	particles []particle
}

// NewStress seeds count sprites deterministically from seed
func NewStress(count int, seed uint64, bounds Bounds, textures []*gfx.Texture) *Stress {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	st := &Stress{bounds: bounds, particles: make([]particle, max(count, 0))}

	for i := range st.particles {
		p := &st.particles[i]
		p.size = util.RandomFloat32(rng, stressMinSize, stressMaxSize)
		p.pos = mgl32.Vec2{
			util.RandomFloat32(rng, bounds.Left, bounds.Right-p.size),
			util.RandomFloat32(rng, bounds.Bottom, bounds.Top-p.size),
		}
		p.vel = mgl32.Vec2{
			util.RandomFloat32(rng, -stressMaxSpeed, stressMaxSpeed),
			util.RandomFloat32(rng, -stressMaxSpeed, stressMaxSpeed),
		}
		r, g, b := util.HSVToRGB(rng.Float64()*360, 0.6, 1)
		p.color = mgl32.Vec4{float32(r), float32(g), float32(b), util.RandomFloat32(rng, 0.6, 1)}
		if len(textures) > 0 {
			p.texture = textures[rng.IntN(len(textures))]
		}
	}
	return st
}

func (st *Stress) Name() string { return "stress" }

// Len returns the number of sprites drawn per frame
func (st *Stress) Len() int { return len(st.particles) }

func (st *Stress) Update(dt float64) {
	step := float32(dt)
	for i := range st.particles {
		p := &st.particles[i]
		p.pos = p.pos.Add(p.vel.Mul(step))

		maxX := st.bounds.Right - p.size
		maxY := st.bounds.Top - p.size
		if p.pos[0] < st.bounds.Left || p.pos[0] > maxX {
			p.vel[0] = -p.vel[0]
			p.pos[0] = util.Clamp32(p.pos[0], st.bounds.Left, maxX)
		}
		if p.pos[1] < st.bounds.Bottom || p.pos[1] > maxY {
			p.vel[1] = -p.vel[1]
			p.pos[1] = util.Clamp32(p.pos[1], st.bounds.Bottom, maxY)
		}
	}
}

func (st *Stress) Draw(s Submitter) {
	for i := range st.particles {
		p := &st.particles[i]
		s.Submit(batch.Sprite{
			Position: mgl32.Vec3{p.pos[0], p.pos[1], 0},
			Size:     mgl32.Vec2{p.size, p.size},
			Color:    p.color,
			Texture:  p.texture,
		})
	}
}
