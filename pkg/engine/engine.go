package engine

import (
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"quadbatch/internal/logger"
	"quadbatch/pkg/camera"
	"quadbatch/pkg/config"
	"quadbatch/pkg/gfx"
	"quadbatch/pkg/gfx/glbackend"
	"quadbatch/pkg/scene"
	"quadbatch/pkg/window"
)

// cameraKeys maps movement keys to camera directions
var cameraKeys = map[glfw.Key]camera.Direction{
	glfw.KeyW:     camera.Up,
	glfw.KeyUp:    camera.Up,
	glfw.KeyS:     camera.Down,
	glfw.KeyDown:  camera.Down,
	glfw.KeyA:     camera.Left,
	glfw.KeyLeft:  camera.Left,
	glfw.KeyD:     camera.Right,
	glfw.KeyRight: camera.Right,
}

// trackedKeys returns every key the engine reacts to
func trackedKeys() []glfw.Key {
	keys := []glfw.Key{glfw.KeyEscape, glfw.KeySpace, glfw.KeyR}
	for k := range cameraKeys {
		keys = append(keys, k)
	}
	return keys
}

// Engine runs the window and frame loop around a Stage
type Engine struct {
	window     *window.Window
	input      *window.InputHandler
	stage      *Stage
	textures   []*gfx.Texture
	config     *config.Config
	logger     *logger.Logger
	fps        *FPSCounter
	isRunning  bool
	paused     bool
	lastUpdate time.Time
	frameRate  int
}

// NewEngine opens the window, loads the scene textures and builds the stage
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	win, err := window.New(cfg.Window, log)
	if err != nil {
		return nil, err
	}

	dev, err := glbackend.New(log)
	if err != nil {
		win.Destroy()
		return nil, err
	}

	textures, err := scene.LoadTextures(dev, cfg.Scene.Textures, log)
	if err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to load textures: %w", err)
	}

	width, height := win.FramebufferSize()
	stage, err := NewStage(dev, cfg, textures, width, height, log)
	if err != nil {
		scene.ReleaseTextures(textures)
		win.Destroy()
		return nil, err
	}
	win.OnResize(stage.Resize)

	return &Engine{
		window:    win,
		input:     window.NewInputHandler(win, trackedKeys()...),
		stage:     stage,
		textures:  textures,
		config:    cfg,
		logger:    log,
		frameRate: cfg.Window.FrameRate,
	}, nil
}

// Run executes the frame loop until the window closes or ESC is pressed
func (e *Engine) Run() error {
	e.isRunning = true
	e.lastUpdate = time.Now()
	e.fps = NewFPSCounter(e.lastUpdate)
	defer e.cleanup()

	for e.isRunning && !e.window.ShouldClose() {
		currentTime := time.Now()
		deltaTime := currentTime.Sub(e.lastUpdate).Seconds()
		e.lastUpdate = currentTime

		e.processInput(deltaTime)

		if !e.paused {
			e.stage.Update(deltaTime)
		}

		if err := e.stage.Render(); err != nil {
			return fmt.Errorf("render frame: %w", err)
		}

		e.window.SwapBuffers()
		e.reportStats(currentTime)

		// Cap the frame rate
		if e.frameRate > 0 {
			frameTime := time.Since(currentTime)
			targetFrameTime := time.Second / time.Duration(e.frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}
	return nil
}

func (e *Engine) processInput(deltaTime float64) {
	e.input.Update()

	if e.input.IsKeyPressed(glfw.KeyEscape) {
		e.isRunning = false
	}
	if e.input.IsKeyPressed(glfw.KeySpace) {
		e.paused = !e.paused
		e.logger.Infof("Scene paused: %t", e.paused)
	}
	if e.input.IsKeyPressed(glfw.KeyR) {
		e.stage.ResetCamera()
	}

	for key, dir := range cameraKeys {
		if e.input.IsKeyDown(key) {
			e.stage.MoveCamera(dir, deltaTime)
		}
	}
}

// reportStats logs renderer counters once per second and shows FPS in the
// title bar
func (e *Engine) reportStats(now time.Time) {
	if !e.fps.Update(now) {
		return
	}
	stats := e.stage.Renderer().Stats()
	e.logger.Debugf("%.1f fps, %d draw calls, %d flushes, %d sprites",
		e.fps.FPS(), stats.DrawCalls, stats.Flushes, stats.Sprites)
	e.window.SetTitle(fmt.Sprintf("%s - %s - %.0f fps", e.config.Window.Title, e.stage.Scene().Name(), e.fps.FPS()))
	e.stage.Renderer().ResetStats()
}

func (e *Engine) cleanup() {
	e.logger.Info("Shutting down engine...")
	e.stage.Release()
	scene.ReleaseTextures(e.textures)
	e.window.Destroy()
}
