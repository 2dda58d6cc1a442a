package gl

import (
	"image"
	"image/color"

	"github.com/gogpu/avis/render"
	"github.com/gogpu/gputypes"
)

// FramebufferTarget is a render target backed by an OpenGL framebuffer.
// Framebuffer 0 is the window's default framebuffer.
type FramebufferTarget struct {
	funcs  Funcs
	id     uint32
	width  int
	height int
}

// NewFramebufferTarget wraps framebuffer id of the given size.
func NewFramebufferTarget(funcs Funcs, id uint32, width, height int) *FramebufferTarget {
	return &FramebufferTarget{funcs: funcs, id: id, width: width, height: height}
}

// Framebuffer returns the framebuffer name.
func (t *FramebufferTarget) Framebuffer() uint32 { return t.id }

// Offscreen reports whether the target is a framebuffer object.
func (t *FramebufferTarget) Offscreen() bool { return t.id != 0 }

// Width returns the target width in pixels.
func (t *FramebufferTarget) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *FramebufferTarget) Height() int { return t.height }

// Format returns RGBA8, the format of offscreen color textures.
func (t *FramebufferTarget) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// FillRect clears r to c with a scissored clear. r uses top-left origin
// and is flipped into GL window coordinates.
func (t *FramebufferTarget) FillRect(r image.Rectangle, c color.RGBA) error {
	r = r.Intersect(image.Rect(0, 0, t.width, t.height))
	if r.Empty() {
		return nil
	}
	f := t.funcs
	f.BindFramebuffer(Framebuffer, t.id)
	f.Enable(ScissorTest)
	f.Scissor(int32(r.Min.X), int32(t.height-r.Max.Y), int32(r.Dx()), int32(r.Dy()))
	f.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
	f.Clear(ColorBufferBit)
	f.Disable(ScissorTest)
	return nil
}

var (
	_ render.Target     = (*FramebufferTarget)(nil)
	_ render.RectFiller = (*FramebufferTarget)(nil)
)
