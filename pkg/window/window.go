// Package window owns the GLFW window, its OpenGL 4.1 core context and
// keyboard/mouse polling.
package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"quadbatch/internal/logger"
	"quadbatch/pkg/config"
)

// Window is a GLFW window with a current OpenGL context. All methods must be
// called from the thread that created it.
type Window struct {
	win    *glfw.Window
	logger *logger.Logger

	width, height int // framebuffer size in pixels
	onResize      func(width, height int)
}

// New initializes GLFW and opens a window with an OpenGL 4.1 core context
// made current on the calling thread.
func New(cfg config.WindowConfig, log *logger.Logger) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width, height := cfg.Width, cfg.Height
	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		width, height = mode.Width, mode.Height
	}

	win, err := glfw.CreateWindow(width, height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %v", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{win: win, logger: log}
	w.width, w.height = win.GetFramebufferSize()
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resize(width, height)
	})

	log.Infof("Window created: %dx%d (framebuffer %dx%d), vsync=%t", width, height, w.width, w.height, cfg.VSync)
	return w, nil
}

func (w *Window) resize(width, height int) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.logger.Debugf("Framebuffer resized to %dx%d", width, height)
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// OnResize registers fn to be called with the new framebuffer size.
// Minimizing reports 0x0.
func (w *Window) OnResize(fn func(width, height int)) {
	w.onResize = fn
}

// FramebufferSize returns the drawable size in pixels
func (w *Window) FramebufferSize() (width, height int) {
	return w.width, w.height
}

// Aspect returns width/height of the framebuffer, or 0 when minimized
func (w *Window) Aspect() float32 {
	if w.height == 0 {
		return 0
	}
	return float32(w.width) / float32(w.height)
}

// GLFW returns the underlying window
func (w *Window) GLFW() *glfw.Window { return w.win }

// ShouldClose reports whether the user asked to close the window
func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

// Close asks the frame loop to stop
func (w *Window) Close() { w.win.SetShouldClose(true) }

// SetTitle replaces the title bar text
func (w *Window) SetTitle(title string) { w.win.SetTitle(title) }

// SwapBuffers presents the back buffer and processes pending events
func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
	glfw.PollEvents()
}

// Destroy closes the window and terminates GLFW
func (w *Window) Destroy() {
	w.win.Destroy()
	glfw.Terminate()
	w.logger.Info("Window destroyed")
}
