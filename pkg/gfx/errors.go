package gfx

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMapped is returned when the vertex buffer is unmapped while no
	// mapping is active.
	ErrNotMapped = errors.New("gfx: buffer is not mapped")

	// ErrReleased is returned when a released resource is used again.
	ErrReleased = errors.New("gfx: resource already released")
)

// ConfigurationError reports invalid construction parameters. No partial
// object is produced when it is returned.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gfx: invalid %s configuration: %s", e.Component, e.Reason)
}

// ProtocolViolation reports an operation called in the wrong renderer state.
// It is a programmer error and is raised with panic.
type ProtocolViolation struct {
	Op    string
	State string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("gfx: protocol violation: %s called while %s", e.Op, e.State)
}

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gfx: %s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link. The program is unusable.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("gfx: shader program linking failed: %s", e.Log)
}

// DecodeError reports image data that could not be turned into a texture.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("gfx: decode texture: %v", e.Err)
	}
	return fmt.Sprintf("gfx: decode texture %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
