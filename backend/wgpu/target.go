// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/avis/render"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// textureSet holds the color texture frames are uploaded into and its
// depth/stencil companion.
//
//   - color: 1x sample, RGBA8Unorm, RenderAttachment | CopySrc | CopyDst
//   - depth/stencil: 1x sample, Depth24PlusStencil8, RenderAttachment
type textureSet struct {
	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView
	width     uint32
	height    uint32
}

// build creates every texture of the set. On failure the partial set is
// destroyed.
func (ts *textureSet) build(device hal.Device, w, h uint32, label string) error {
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label + "_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	ts.colorTex = colorTex

	colorView, err := device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label: label + "_color_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create color view: %w", err)
	}
	ts.colorView = colorView

	depthTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label + "_depth_stencil",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth24PlusStencil8,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create depth/stencil texture: %w", err)
	}
	ts.depthTex = depthTex

	depthView, err := device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label: label + "_depth_stencil_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create depth/stencil view: %w", err)
	}
	ts.depthView = depthView

	ts.width = w
	ts.height = h
	return nil
}

// destroy releases all textures and views. Safe on an empty set.
func (ts *textureSet) destroy(device hal.Device) {
	if ts.depthView != nil {
		device.DestroyTextureView(ts.depthView)
		ts.depthView = nil
	}
	if ts.depthTex != nil {
		device.DestroyTexture(ts.depthTex)
		ts.depthTex = nil
	}
	if ts.colorView != nil {
		device.DestroyTextureView(ts.colorView)
		ts.colorView = nil
	}
	if ts.colorTex != nil {
		device.DestroyTexture(ts.colorTex)
		ts.colorTex = nil
	}
	ts.width = 0
	ts.height = 0
}

// TextureTarget is a render target backed by a WebGPU color texture.
//
// Engines draw into a CPU staging pixmap through FillRect; Flush uploads
// the pixmap when it changed since the last upload.
type TextureTarget struct {
	device hal.Device
	pix    *render.PixmapTarget
	set    textureSet
	dirty  bool
}

// NewTextureTarget creates the textures for a width x height target.
func NewTextureTarget(device hal.Device, width, height int) (*TextureTarget, error) {
	t := &TextureTarget{device: device}
	if err := t.Resize(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int { return int(t.set.width) }

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int { return int(t.set.height) }

// Format returns gputypes.TextureFormatRGBA8Unorm.
func (t *TextureTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Texture returns the color texture.
func (t *TextureTarget) Texture() hal.Texture { return t.set.colorTex }

// View returns the color texture view.
func (t *TextureTarget) View() hal.TextureView { return t.set.colorView }

// DepthStencilView returns the depth/stencil texture view.
func (t *TextureTarget) DepthStencilView() hal.TextureView { return t.set.depthView }

// Image returns the staging pixmap.
func (t *TextureTarget) Image() *image.RGBA { return t.pix.Image() }

// FillRect fills r in the staging pixmap.
func (t *TextureTarget) FillRect(r image.Rectangle, c color.RGBA) error {
	t.dirty = true
	return t.pix.FillRect(r, c)
}

// Resize recreates the textures at the new size. The new set is built
// before the old one is destroyed, so a failed resize leaves the previous
// textures usable.
func (t *TextureTarget) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	w, h := uint32(width), uint32(height)
	if t.set.colorTex != nil && t.set.width == w && t.set.height == h {
		return nil
	}
	var next textureSet
	if err := next.build(t.device, w, h, "avis_target"); err != nil {
		return err
	}
	t.set.destroy(t.device)
	t.set = next
	if t.pix == nil {
		t.pix = render.NewPixmapTarget(width, height)
	} else {
		t.pix.Resize(width, height)
	}
	t.dirty = true
	return nil
}

// Flush uploads the staging pixmap into the color texture if it changed.
func (t *TextureTarget) Flush(queue hal.Queue) {
	if !t.dirty || t.set.colorTex == nil {
		return
	}
	queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.set.colorTex, MipLevel: 0},
		t.pix.Pixels(),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(t.pix.Stride()),
			RowsPerImage: t.set.height,
		},
		&hal.Extent3D{Width: t.set.width, Height: t.set.height, DepthOrArrayLayers: 1},
	)
	t.dirty = false
}

// Release destroys the textures.
func (t *TextureTarget) Release() {
	t.set.destroy(t.device)
	t.dirty = false
}

var (
	_ render.Target     = (*TextureTarget)(nil)
	_ render.RectFiller = (*TextureTarget)(nil)
)
