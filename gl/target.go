package gl

import (
	"fmt"
	"log/slog"
)

// Target is an offscreen framebuffer with a color texture and a combined
// depth/stencil renderbuffer, all of one size.
type Target struct {
	Framebuffer  uint32
	Color        uint32
	DepthStencil uint32
	Width        int
	Height       int
}

// TargetManager owns the offscreen render target. A target of the
// requested size is built before the previous one is released, so a failed
// resize leaves the old target bound and usable.
type TargetManager struct {
	funcs  Funcs
	logger *slog.Logger
	target *Target
	warned bool
}

// NewTargetManager returns a manager with no target.
func NewTargetManager(funcs Funcs, logger *slog.Logger) *TargetManager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TargetManager{funcs: funcs, logger: logger}
}

// Supported reports whether the driver exposes framebuffer and
// renderbuffer objects.
func (m *TargetManager) Supported() bool {
	return m.funcs.Capabilities().Has(CapFramebuffer | CapRenderbuffer)
}

// Current returns the live target, or nil.
func (m *TargetManager) Current() *Target { return m.target }

// Ensure returns a bound target of the given size, creating or replacing
// the current one as needed. Asking for the current size only rebinds.
func (m *TargetManager) Ensure(width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !m.Supported() {
		if !m.warned {
			m.logger.Warn("gl: framebuffer objects unavailable, offscreen rendering disabled")
			m.warned = true
		}
		return nil, ErrUnsupported
	}

	old := m.target
	if old != nil && old.Width == width && old.Height == height {
		m.funcs.BindFramebuffer(Framebuffer, old.Framebuffer)
		return old, nil
	}

	next, err := m.create(width, height)
	if err != nil {
		if old != nil {
			m.funcs.BindFramebuffer(Framebuffer, old.Framebuffer)
		}
		if next != nil {
			m.destroy(next)
		}
		return nil, err
	}

	m.target = next
	if old != nil {
		m.destroy(old)
	}
	m.logger.Debug("gl: render target ready", "width", width, "height", height, "framebuffer", next.Framebuffer)
	return next, nil
}

// Release deletes the target. It is safe to call with no target.
func (m *TargetManager) Release() {
	if m.target == nil {
		return
	}
	m.destroy(m.target)
	m.target = nil
}

// create builds a complete target and leaves its framebuffer bound. On
// failure it returns whatever was allocated so the caller can delete it.
func (m *TargetManager) create(width, height int) (*Target, error) {
	f := m.funcs
	w, h := int32(width), int32(height)
	t := &Target{Width: width, Height: height}

	if t.Color = f.GenTexture(); t.Color == 0 {
		return t, fmt.Errorf("%w: color texture", ErrAllocation)
	}
	f.BindTexture(Texture2D, t.Color)
	f.TexImage2D(Texture2D, 0, RGBA8, w, h, RGBA, UnsignedByte)
	f.TexParameteri(Texture2D, TextureMinFilter, int32(Linear))
	f.TexParameteri(Texture2D, TextureMagFilter, int32(Linear))
	f.TexParameteri(Texture2D, TextureWrapS, int32(ClampToEdge))
	f.TexParameteri(Texture2D, TextureWrapT, int32(ClampToEdge))
	f.BindTexture(Texture2D, 0)

	if t.DepthStencil = f.GenRenderbuffer(); t.DepthStencil == 0 {
		return t, fmt.Errorf("%w: depth/stencil renderbuffer", ErrAllocation)
	}
	f.BindRenderbuffer(Renderbuffer, t.DepthStencil)
	f.RenderbufferStorage(Renderbuffer, Depth24Stencil8, w, h)
	f.BindRenderbuffer(Renderbuffer, 0)

	if t.Framebuffer = f.GenFramebuffer(); t.Framebuffer == 0 {
		return t, fmt.Errorf("%w: framebuffer", ErrAllocation)
	}
	f.BindFramebuffer(Framebuffer, t.Framebuffer)
	f.FramebufferTexture2D(Framebuffer, ColorAttachment0, Texture2D, t.Color, 0)
	f.FramebufferRenderbuffer(Framebuffer, DepthStencilAttachment, Renderbuffer, t.DepthStencil)

	if status := f.CheckFramebufferStatus(Framebuffer); status != FramebufferComplete {
		return t, &StatusError{Status: status}
	}
	return t, nil
}

func (m *TargetManager) destroy(t *Target) {
	if t.Framebuffer != 0 {
		m.funcs.DeleteFramebuffer(t.Framebuffer)
	}
	if t.DepthStencil != 0 {
		m.funcs.DeleteRenderbuffer(t.DepthStencil)
	}
	if t.Color != 0 {
		m.funcs.DeleteTexture(t.Color)
	}
}
