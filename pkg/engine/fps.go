package engine

import "time"

// FPSCounter averages frames per second over one-second windows
type FPSCounter struct {
	frames   int
	lastTime time.Time
	fps      float64
}

func NewFPSCounter(now time.Time) *FPSCounter {
	return &FPSCounter{lastTime: now}
}

// Update counts one frame and reports whether a new average is available
func (f *FPSCounter) Update(now time.Time) bool {
	f.frames++
	elapsed := now.Sub(f.lastTime)
	if elapsed < time.Second {
		return false
	}
	f.fps = float64(f.frames) / elapsed.Seconds()
	f.frames = 0
	f.lastTime = now
	return true
}

func (f *FPSCounter) FPS() float64 {
	return f.fps
}
