// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/avis"
	"github.com/gogpu/avis/render"
	"github.com/gogpu/gpucontext"
)

// OutputOption configures an [Output].
type OutputOption func(*outputOptions)

type outputOptions struct {
	async  bool
	logger *slog.Logger
}

// WithAsyncReadback enables or disables the staging ring. It is enabled
// by default.
func WithAsyncReadback(enabled bool) OutputOption {
	return func(o *outputOptions) { o.async = enabled }
}

// WithLogger sets the output's logger. The default is [avis.Logger].
func WithLogger(l *slog.Logger) OutputOption {
	return func(o *outputOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Output renders into a WebGPU texture and reads frames back.
type Output struct {
	dev    *Device
	opts   outputOptions
	logger *slog.Logger

	target   *TextureTarget
	ring     *StagingRing
	tight    []byte
	asyncOff bool
}

// NewOutput returns an output rendering on dev. The caller keeps
// ownership of dev.
func NewOutput(dev *Device, opts ...OutputOption) *Output {
	o := outputOptions{async: true, logger: avis.Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Output{
		dev:    dev,
		opts:   o,
		logger: o.logger,
		ring:   NewStagingRing(dev.Device, dev.Queue),
	}
}

// NewOutputFromProvider returns an output rendering on a host device.
func NewOutputFromProvider(provider gpucontext.DeviceProvider, opts ...OutputOption) (*Output, error) {
	dev, err := DeviceFromProvider(provider)
	if err != nil {
		return nil, err
	}
	return NewOutput(dev, opts...), nil
}

// Headless always reports true: a WebGPU device has no default
// framebuffer.
func (o *Output) Headless() bool { return true }

// Prepare returns a texture target of the given size, resizing the
// current one when needed.
func (o *Output) Prepare(width, height int) (render.Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if o.target == nil {
		t, err := NewTextureTarget(o.dev.Device, width, height)
		if err != nil {
			return nil, fmt.Errorf("wgpu: create target: %w", err)
		}
		o.target = t
		o.logger.Info("wgpu: render target created", "width", width, "height", height, "adapter", o.dev.Name())
	} else if err := o.target.Resize(width, height); err != nil {
		return nil, fmt.Errorf("wgpu: resize target: %w", err)
	}
	return o.target, nil
}

// Read uploads the prepared frame and copies it into frame. With
// asynchronous readback the copied image is the one rendered one call
// earlier.
func (o *Output) Read(frame *avis.VideoFrame) error {
	if o.target == nil || o.target.Texture() == nil {
		return ErrNotPrepared
	}
	if err := frame.Validate(); err != nil {
		return err
	}
	w, h := o.target.Width(), o.target.Height()
	if frame.Width != w || frame.Height != h {
		return fmt.Errorf("%w: frame %dx%d, target %dx%d", ErrFrameSize, frame.Width, frame.Height, w, h)
	}
	o.target.Flush(o.dev.Queue)

	if n := w * h * 4; len(o.tight) != n {
		o.tight = make([]byte, n)
	}
	if err := o.download(uint32(w), uint32(h)); err != nil {
		return err
	}
	return pack(frame, o.tight)
}

func (o *Output) download(w, h uint32) error {
	tex := o.target.Texture()
	if o.opts.async && !o.asyncOff {
		err := o.ring.Ensure(w, h)
		if err == nil {
			return o.ring.Download(tex, o.tight)
		}
		o.asyncOff = true
		o.ring.Release()
		o.logger.Warn("wgpu: staging ring unavailable, reading synchronously", "error", err)
	}
	return ReadTexture(o.dev.Device, o.dev.Queue, tex, w, h, o.tight)
}

// pack writes tightly packed RGBA rows into frame in its pixel format.
func pack(frame *avis.VideoFrame, rgba []byte) error {
	rowBytes := frame.Width * 4
	for y := range frame.Height {
		src := rgba[y*rowBytes : (y+1)*rowBytes]
		dst := frame.Pix[y*frame.Stride : y*frame.Stride+rowBytes]
		switch frame.Format {
		case avis.PixelFormatRGBA:
			copy(dst, src)
		case avis.PixelFormatABGR:
			for i := 0; i < rowBytes; i += 4 {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+3], src[i+2], src[i+1], src[i]
			}
		default:
			return fmt.Errorf("%w: %v", avis.ErrUnsupportedFormat, frame.Format)
		}
	}
	return nil
}

// Release destroys the staging ring and the target. The device stays
// open.
func (o *Output) Release() {
	o.ring.Release()
	if o.target != nil {
		o.target.Release()
		o.target = nil
	}
	o.tight = nil
}

var _ avis.Output = (*Output)(nil)
