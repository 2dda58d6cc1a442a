// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// Target is the surface an engine renders one frame into.
//
// Implementations:
//   - PixmapTarget: CPU-backed *image.RGBA
//   - gl.FramebufferTarget: an OpenGL framebuffer (default or offscreen)
//   - wgpu.TextureTarget: a WebGPU color texture with a depth/stencil companion
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the color format of the target.
	Format() gputypes.TextureFormat
}

// RectFiller is implemented by targets that can fill axis-aligned
// rectangles. Coordinates have their origin at the top-left corner.
// Rectangles are clipped to the target bounds.
type RectFiller interface {
	FillRect(r image.Rectangle, c color.RGBA) error
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	engine.RenderFrame(target)
//	img := target.Image()
type PixmapTarget struct {
	img *image.RGBA
}

// NewPixmapTarget creates a new CPU-backed render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int { return t.img.Bounds().Dx() }

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int { return t.img.Bounds().Dy() }

// Format returns the pixel format (RGBA8).
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data, top row first.
func (t *PixmapTarget) Pixels() []byte { return t.img.Pix }

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int { return t.img.Stride }

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target.
func (t *PixmapTarget) Image() *image.RGBA { return t.img }

// FillRect replaces the pixels in r with c.
func (t *PixmapTarget) FillRect(r image.Rectangle, c color.RGBA) error {
	r = r.Intersect(t.img.Bounds())
	if r.Empty() {
		return nil
	}
	draw.Draw(t.img, r, image.NewUniform(c), image.Point{}, draw.Src)
	return nil
}

// Resize replaces the backing image when the size changes. The contents
// are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	if t.Width() == width && t.Height() == height {
		return
	}
	t.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

var (
	_ Target     = (*PixmapTarget)(nil)
	_ RectFiller = (*PixmapTarget)(nil)
)
