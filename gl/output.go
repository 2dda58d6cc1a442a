package gl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/avis"
	"github.com/gogpu/avis/render"
)

// OutputOption configures an [Output].
type OutputOption func(*outputOptions)

type outputOptions struct {
	forceHeadless bool
	async         bool
	flip          bool
	logger        *slog.Logger
}

func defaultOutputOptions() outputOptions {
	return outputOptions{
		async:  true,
		flip:   true,
		logger: avis.Logger(),
	}
}

// WithForcedHeadless skips default framebuffer detection and always
// renders offscreen.
func WithForcedHeadless(force bool) OutputOption {
	return func(o *outputOptions) { o.forceHeadless = force }
}

// WithAsyncReadback enables or disables the pixel-pack buffer ring.
// It is enabled by default.
func WithAsyncReadback(enabled bool) OutputOption {
	return func(o *outputOptions) { o.async = enabled }
}

// WithFlipVertical controls whether rows are flipped from OpenGL's
// bottom-up order into top-down frames. It is enabled by default.
func WithFlipVertical(flip bool) OutputOption {
	return func(o *outputOptions) { o.flip = flip }
}

// WithLogger sets the output's logger. The default is [avis.Logger].
func WithLogger(l *slog.Logger) OutputOption {
	return func(o *outputOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// LayoutFor maps a frame pixel format to a read layout.
func LayoutFor(format avis.PixelFormat) (PixelLayout, error) {
	switch format {
	case avis.PixelFormatRGBA:
		return LayoutRGBA, nil
	case avis.PixelFormatABGR:
		return LayoutABGR, nil
	}
	return PixelLayout{}, fmt.Errorf("%w: %v", ErrPixelFormat, format)
}

// Output renders into an OpenGL context and reads frames back.
//
// Frames render offscreen when the context is headless or asynchronous
// readback is enabled. If the offscreen target cannot be built on a
// context with a window, the output warns once and stays on the default
// framebuffer with blocking reads. A headless context has nothing to fall
// back to and Prepare fails with ErrNoRenderTarget.
type Output struct {
	funcs  Funcs
	opts   outputOptions
	logger *slog.Logger

	detector *HeadlessDetector
	targets  *TargetManager
	reader   *AsyncReader
	sync     *SyncReader

	width     int
	height    int
	fbo       uint32
	offscreen bool
	fallback  bool
	asyncOff  bool
}

// NewOutput returns an output driving funcs. All calls must happen on the
// thread that owns the context.
func NewOutput(funcs Funcs, opts ...OutputOption) *Output {
	o := defaultOutputOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Output{
		funcs:    funcs,
		opts:     o,
		logger:   o.logger,
		detector: NewHeadlessDetector(o.forceHeadless, o.logger),
		targets:  NewTargetManager(funcs, o.logger),
		reader:   NewAsyncReader(funcs, o.logger),
		sync:     NewSyncReader(funcs),
	}
}

// Headless reports whether the context lacks a default framebuffer.
func (o *Output) Headless() bool { return o.detector.Headless(o.funcs) }

// Offscreen reports whether the last prepared frame renders offscreen.
func (o *Output) Offscreen() bool { return o.offscreen }

// Prepare binds a render target of the given size.
func (o *Output) Prepare(width, height int) (render.Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	headless := o.Headless()
	o.width, o.height = width, height

	if (headless || o.opts.async) && !o.fallback {
		t, err := o.targets.Ensure(width, height)
		if err == nil {
			o.fbo, o.offscreen = t.Framebuffer, true
			o.funcs.Viewport(0, 0, int32(width), int32(height))
			return NewFramebufferTarget(o.funcs, t.Framebuffer, width, height), nil
		}
		if headless {
			return nil, fmt.Errorf("%w: %w", ErrNoRenderTarget, err)
		}
		o.fallback = true
		o.reader.Release()
		o.targets.Release()
		o.logger.Warn("gl: offscreen target unavailable, rendering to the default framebuffer", "error", err)
	}

	o.funcs.BindFramebuffer(Framebuffer, 0)
	o.fbo, o.offscreen = 0, false
	o.funcs.Viewport(0, 0, int32(width), int32(height))
	return NewFramebufferTarget(o.funcs, 0, width, height), nil
}

// Read copies the prepared frame into frame. With asynchronous readback
// the copied image is the one rendered one call earlier.
func (o *Output) Read(frame *avis.VideoFrame) error {
	if o.width == 0 {
		return errors.New("gl: read before prepare")
	}
	layout, err := LayoutFor(frame.Format)
	if err != nil {
		return err
	}
	dst := Image{Pix: frame.Pix, Stride: frame.Stride, Width: frame.Width, Height: frame.Height}
	o.funcs.BindFramebuffer(ReadFramebuffer, o.fbo)

	if o.opts.async && o.offscreen && !o.asyncOff {
		if err := o.reader.Ensure(o.width, o.height, layout); err != nil {
			o.asyncOff = true
			o.reader.Release()
			o.logger.Warn("gl: asynchronous readback unavailable, reading synchronously", "error", err)
		} else {
			copied, err := o.reader.Download(dst, o.opts.flip)
			if err != nil {
				return err
			}
			if copied {
				return nil
			}
		}
	}
	return o.sync.Read(dst, o.width, o.height, layout, o.opts.flip)
}

// Release deletes the readback ring and the offscreen target.
func (o *Output) Release() {
	o.reader.Release()
	o.targets.Release()
	o.width, o.height = 0, 0
	o.fbo, o.offscreen = 0, false
}

var _ avis.Output = (*Output)(nil)
