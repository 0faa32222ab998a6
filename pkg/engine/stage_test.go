package engine

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quadbatch/internal/logger"
	"quadbatch/pkg/camera"
	"quadbatch/pkg/config"
	"quadbatch/pkg/gfx"
	"quadbatch/pkg/gfx/gfxtest"
)

func newTestStage(t *testing.T, mutate func(cfg *config.Config)) (*Stage, *gfxtest.Device) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	dev := gfxtest.NewDevice()
	s, err := NewStage(dev, cfg, nil, 800, 400, logger.Discard())
	require.NoError(t, err)
	return s, dev
}

func TestStageRendersOneDrawPerFrame(t *testing.T) {
	s, dev := newTestStage(t, func(cfg *config.Config) {
		cfg.Scene.Columns, cfg.Scene.Rows = 5, 4
	})

	require.NoError(t, s.Render())
	assert.Equal(t, []int{6 * 20}, dev.DrawCounts())
	assert.Equal(t, 1, dev.Clears)
	assert.Equal(t, s.program.Handle().ID, dev.Draws[0].Program)

	vp, ok := dev.Uniform("u_ViewProjection")
	require.True(t, ok)
	assert.Equal(t, s.Camera().ViewProjection(), vp)
}

func TestStageStressSceneFlushes(t *testing.T) {
	s, dev := newTestStage(t, func(cfg *config.Config) {
		cfg.Scene.Name = config.SceneStress
		cfg.Scene.Sprites = 250
		cfg.Renderer.MaxSprites = 100
	})

	require.NoError(t, s.Render())
	assert.Equal(t, []int{600, 600, 300}, dev.DrawCounts())
	assert.Equal(t, 2, s.Renderer().Stats().Flushes)
}

func TestStageBuildErrors(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.FailLink = "undefined u_Textures"
	_, err := NewStage(dev, config.DefaultConfig(), nil, 800, 600, logger.Discard())
	assert.True(t, gfx.IsLinkError(err))
	assert.Empty(t, dev.Buffers, "renderer buffers released on failure")

	cfg := config.DefaultConfig()
	cfg.Scene.Name = "void"
	dev = gfxtest.NewDevice()
	_, err = NewStage(dev, cfg, nil, 800, 600, logger.Discard())
	assert.ErrorContains(t, err, "unknown scene")
	assert.Empty(t, dev.Programs)
}

func TestStageOrthographicBounds(t *testing.T) {
	s, _ := newTestStage(t, nil)
	left, right, bottom, top := s.Camera().Bounds()
	assert.Equal(t, []float32{-2, 2, -1, 1}, []float32{left, right, bottom, top})

	s.Resize(400, 400)
	left, right, _, _ = s.Camera().Bounds()
	assert.Equal(t, []float32{-1, 1}, []float32{left, right})

	s.Resize(0, 0)
	left, right, _, _ = s.Camera().Bounds()
	assert.Equal(t, []float32{-1, 1}, []float32{left, right}, "minimized window keeps projection")
}

func TestStageCameraMovement(t *testing.T) {
	s, _ := newTestStage(t, nil)

	s.MoveCamera(camera.Right, 0.5)
	s.MoveCamera(camera.Up, 0.25)
	assert.InDelta(t, 1.0, s.Camera().Position().X(), 1e-6)
	assert.InDelta(t, 0.5, s.Camera().Position().Y(), 1e-6)

	s.ResetCamera()
	assert.Equal(t, mgl32.Vec3{}, s.Camera().Position())
}

func TestStagePerspectiveCamera(t *testing.T) {
	s, _ := newTestStage(t, func(cfg *config.Config) {
		cfg.Camera.Mode = config.CameraPerspective
		cfg.Camera.Near, cfg.Camera.Far = -1, 1
	})
	assert.Equal(t, camera.Perspective, s.Camera().Kind())
	assert.Equal(t, float32(perspectiveDistance), s.Camera().Position().Z())

	s.MoveCamera(camera.Left, 1)
	s.ResetCamera()
	assert.Equal(t, mgl32.Vec3{0, 0, perspectiveDistance}, s.Camera().Position())
}

func TestStageRelease(t *testing.T) {
	s, dev := newTestStage(t, nil)
	s.Release()
	assert.Empty(t, dev.Buffers)
	assert.Empty(t, dev.Programs)
}

func TestTrackedKeysCoverBindings(t *testing.T) {
	keys := trackedKeys()
	for k := range cameraKeys {
		assert.Contains(t, keys, k)
	}
}

func TestFPSCounter(t *testing.T) {
	start := time.Unix(100, 0)
	f := NewFPSCounter(start)
	for i := 1; i < 30; i++ {
		assert.False(t, f.Update(start.Add(time.Duration(i)*time.Second/60)))
	}
	assert.True(t, f.Update(start.Add(time.Second)))
	assert.InDelta(t, 30.0, f.FPS(), 1e-9)
}
