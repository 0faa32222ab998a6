package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"quadbatch/internal/logger"
	"quadbatch/pkg/batch"
	"quadbatch/pkg/camera"
	"quadbatch/pkg/config"
	"quadbatch/pkg/gfx"
	"quadbatch/pkg/scene"
)

const (
	perspectiveDistance = 2.5
	defaultNear         = 0.1
	defaultFar          = 100
)

// Stage owns everything drawn each frame: the sprite renderer, its shader
// program, the camera and the active scene. It only talks to gfx.Device, so
// it runs the same against OpenGL and the recording test device.
type Stage struct {
	dev        gfx.Device
	logger     *logger.Logger
	renderer   *batch.Renderer
	program    *gfx.Program
	camera     *camera.Camera
	scene      scene.Scene
	clearColor [4]float32
	speed      float32
}

// NewStage builds the renderer, sprite program, camera and scene for a
// framebuffer of width x height pixels.
func NewStage(dev gfx.Device, cfg *config.Config, textures []*gfx.Texture, width, height int, log *logger.Logger) (*Stage, error) {
	renderer := batch.New(dev, batch.Options{
		Capacity:     cfg.Renderer.MaxSprites,
		TextureUnits: cfg.Renderer.TextureUnits,
		Logger:       log,
	})
	if err := renderer.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize sprite renderer: %w", err)
	}

	program, err := gfx.NewProgramFromSource(dev, batch.SpriteVertexSource, batch.SpriteFragmentSource)
	if err != nil {
		renderer.Deinit()
		return nil, fmt.Errorf("failed to build sprite shader: %w", err)
	}

	cam, bounds := newCamera(cfg.Camera, aspectOf(width, height))
	sc, err := scene.New(cfg.Scene, bounds, textures)
	if err != nil {
		program.Release()
		renderer.Deinit()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	log.Infof("Scene %q ready, %s camera", sc.Name(), cfg.Camera.Mode)

	s := &Stage{
		dev:        dev,
		logger:     log,
		renderer:   renderer,
		program:    program,
		camera:     cam,
		scene:      sc,
		clearColor: cfg.Renderer.ClearColor,
		speed:      cfg.Camera.Speed,
	}
	s.Resize(width, height)
	return s, nil
}

func aspectOf(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// newCamera returns the configured camera and the world rectangle it sees
// at z = 0
func newCamera(cfg config.CameraConfig, aspect float32) (*camera.Camera, scene.Bounds) {
	if cfg.Mode == config.CameraPerspective {
		near, far := cfg.Near, cfg.Far
		if near <= 0 {
			near = defaultNear
		}
		if far <= near {
			far = defaultFar
		}
		cam := camera.NewPerspective(cfg.FOV, aspect, near, far)
		cam.SetPosition(mgl32.Vec3{0, 0, perspectiveDistance})

		halfH := float32(math.Tan(float64(mgl32.DegToRad(cfg.FOV))/2)) * perspectiveDistance
		halfW := halfH * aspect
		return cam, scene.Bounds{Left: -halfW, Right: halfW, Bottom: -halfH, Top: halfH}
	}

	cam := camera.NewOrthographic(-aspect, aspect, -1, 1)
	return cam, scene.Bounds{Left: -aspect, Right: aspect, Bottom: -1, Top: 1}
}

// Resize updates the viewport and camera aspect. A zero-sized framebuffer
// (minimized window) is ignored.
func (s *Stage) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.dev.Viewport(0, 0, width, height)
	s.camera.Resize(aspectOf(width, height))
}

// MoveCamera moves the camera for dt seconds at the configured speed
func (s *Stage) MoveCamera(dir camera.Direction, dt float64) {
	s.camera.Move(dir, s.speed*float32(dt))
}

// ResetCamera returns the camera to its starting position
func (s *Stage) ResetCamera() {
	pos := mgl32.Vec3{}
	if s.camera.Kind() == camera.Perspective {
		pos[2] = perspectiveDistance
	}
	s.camera.SetPosition(pos)
}

func (s *Stage) Update(dt float64) {
	s.scene.Update(dt)
}

// Render clears the framebuffer and draws the scene as one batch, flushing
// as often as the renderer's capacity requires.
func (s *Stage) Render() error {
	c := s.clearColor
	s.dev.Clear(c[0], c[1], c[2], c[3])

	s.renderer.UseProgram(s.program, s.camera)
	if err := s.renderer.Begin(); err != nil {
		return err
	}
	s.scene.Draw(s.renderer)
	if err := s.renderer.End(); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

func (s *Stage) Camera() *camera.Camera { return s.camera }

func (s *Stage) Scene() scene.Scene { return s.scene }

func (s *Stage) Renderer() *batch.Renderer { return s.renderer }

// Release frees the program and renderer buffers. Scene textures belong to
// whoever loaded them.
func (s *Stage) Release() {
	s.program.Release()
	s.renderer.Deinit()
}
