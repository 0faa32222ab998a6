package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// inputSource is the part of *glfw.Window the input handler polls
type inputSource interface {
	GetKey(key glfw.Key) glfw.Action
	GetMouseButton(button glfw.MouseButton) glfw.Action
	GetCursorPos() (x, y float64)
}

// InputHandler tracks keyboard and mouse state across frames
type InputHandler struct {
	source            inputSource
	keys              []glfw.Key
	currentKeys       map[glfw.Key]bool
	previousKeys      map[glfw.Key]bool
	currentMousePos   [2]float64
	previousMousePos  [2]float64
	currentMouseBtns  map[glfw.MouseButton]bool
	previousMouseBtns map[glfw.MouseButton]bool
	mouseDelta        [2]float64
	mouseWheelDelta   float64
}

// NewInputHandler creates an input handler polling the given keys of w.
// GLFW rejects key codes it does not define, so only listed keys are polled.
func NewInputHandler(w *Window, keys ...glfw.Key) *InputHandler {
	handler := newInputHandler(w.win, keys)
	w.win.SetScrollCallback(func(_ *glfw.Window, _, yoffset float64) {
		handler.scroll(yoffset)
	})
	return handler
}

func newInputHandler(source inputSource, keys []glfw.Key) *InputHandler {
	return &InputHandler{
		source:            source,
		keys:              append([]glfw.Key(nil), keys...),
		currentKeys:       make(map[glfw.Key]bool),
		previousKeys:      make(map[glfw.Key]bool),
		currentMouseBtns:  make(map[glfw.MouseButton]bool),
		previousMouseBtns: make(map[glfw.MouseButton]bool),
	}
}

func (ih *InputHandler) scroll(yoffset float64) {
	ih.mouseWheelDelta += yoffset
}

// Update samples the current input state. Call once per frame after events
// were polled.
func (ih *InputHandler) Update() {
	ih.previousKeys, ih.currentKeys = ih.currentKeys, ih.previousKeys
	ih.previousMouseBtns, ih.currentMouseBtns = ih.currentMouseBtns, ih.previousMouseBtns

	ih.previousMousePos = ih.currentMousePos
	x, y := ih.source.GetCursorPos()
	ih.currentMousePos = [2]float64{x, y}
	ih.mouseDelta[0] = ih.currentMousePos[0] - ih.previousMousePos[0]
	ih.mouseDelta[1] = ih.currentMousePos[1] - ih.previousMousePos[1]

	for _, key := range ih.keys {
		ih.currentKeys[key] = ih.source.GetKey(key) == glfw.Press
	}
	for btn := glfw.MouseButton1; btn <= glfw.MouseButtonLast; btn++ {
		ih.currentMouseBtns[btn] = ih.source.GetMouseButton(btn) == glfw.Press
	}
}

// IsKeyDown reports whether key is held
func (ih *InputHandler) IsKeyDown(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed reports whether key went down this frame
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// IsKeyReleased reports whether key went up this frame
func (ih *InputHandler) IsKeyReleased(key glfw.Key) bool {
	return !ih.currentKeys[key] && ih.previousKeys[key]
}

func (ih *InputHandler) IsMouseButtonDown(button glfw.MouseButton) bool {
	return ih.currentMouseBtns[button]
}

func (ih *InputHandler) IsMouseButtonPressed(button glfw.MouseButton) bool {
	return ih.currentMouseBtns[button] && !ih.previousMouseBtns[button]
}

func (ih *InputHandler) IsMouseButtonReleased(button glfw.MouseButton) bool {
	return !ih.currentMouseBtns[button] && ih.previousMouseBtns[button]
}

// MousePosition returns the cursor position in screen coordinates
func (ih *InputHandler) MousePosition() [2]float64 {
	return ih.currentMousePos
}

// MouseDelta returns the cursor movement since the previous Update
func (ih *InputHandler) MouseDelta() [2]float64 {
	return ih.mouseDelta
}

// MouseWheelDelta returns the wheel movement since the last call and resets it
func (ih *InputHandler) MouseWheelDelta() float64 {
	delta := ih.mouseWheelDelta
	ih.mouseWheelDelta = 0
	return delta
}
