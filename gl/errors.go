package gl

import (
	"errors"
	"fmt"
)

// Package errors for render target management and readback.
var (
	// ErrUnsupported is returned when the driver lacks an entry point group
	// a feature needs.
	ErrUnsupported = errors.New("gl: required entry points unavailable")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("gl: invalid dimensions")

	// ErrAllocation is returned when the driver fails to create an object.
	ErrAllocation = errors.New("gl: object allocation failed")

	// ErrIncomplete is returned when a new framebuffer fails its
	// completeness check.
	ErrIncomplete = errors.New("gl: framebuffer incomplete")

	// ErrNoRenderTarget is returned in headless mode when no offscreen
	// target can be created. There is no default framebuffer to fall back to.
	ErrNoRenderTarget = errors.New("gl: no render target in headless mode")

	// ErrNotAllocated is returned when reading through a ring that has no
	// buffers.
	ErrNotAllocated = errors.New("gl: readback buffers not allocated")

	// ErrShortFrame is returned when a destination frame is smaller than
	// the rendered image.
	ErrShortFrame = errors.New("gl: destination frame too small")

	// ErrPixelFormat is returned for output pixel formats with no GL mapping.
	ErrPixelFormat = errors.New("gl: unsupported pixel format")
)

// StatusError describes a framebuffer completeness failure.
type StatusError struct {
	Status Enum
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gl: framebuffer incomplete (status 0x%04X)", uint32(e.Status))
}

// Unwrap returns ErrIncomplete.
func (e *StatusError) Unwrap() error { return ErrIncomplete }
