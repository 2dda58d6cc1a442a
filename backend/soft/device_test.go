package soft_test

import (
	"image/color"
	"testing"

	"github.com/gogpu/avis/backend/soft"
	"github.com/gogpu/avis/gl"
)

// newFramebuffer builds a complete w x h framebuffer and leaves it bound.
func newFramebuffer(t *testing.T, d *soft.Device, w, h int32) (fb, tex uint32) {
	t.Helper()
	tex = d.GenTexture()
	d.BindTexture(gl.Texture2D, tex)
	d.TexImage2D(gl.Texture2D, 0, gl.RGBA8, w, h, gl.RGBA, gl.UnsignedByte)
	fb = d.GenFramebuffer()
	d.BindFramebuffer(gl.Framebuffer, fb)
	d.FramebufferTexture2D(gl.Framebuffer, gl.ColorAttachment0, gl.Texture2D, tex, 0)
	if st := d.CheckFramebufferStatus(gl.Framebuffer); st != gl.FramebufferComplete {
		t.Fatalf("status = %#x, want complete", st)
	}
	return fb, tex
}

func TestDefaultFramebuffer(t *testing.T) {
	headless := soft.New()
	if st := headless.CheckFramebufferStatus(gl.Framebuffer); st != gl.FramebufferUndefined {
		t.Errorf("headless default framebuffer status = %#x", st)
	}

	windowed := soft.New(soft.WithWindow(8, 8))
	if st := windowed.CheckFramebufferStatus(gl.Framebuffer); st != gl.FramebufferComplete {
		t.Errorf("windowed default framebuffer status = %#x", st)
	}
	windowed.ClearColor(0, 1, 0, 1)
	windowed.Clear(gl.ColorBufferBit)
	if got := windowed.Pixel(0, 3, 3); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("window pixel = %v", got)
	}
}

func TestClearScissorAndRead(t *testing.T) {
	d := soft.New()
	fb, _ := newFramebuffer(t, d, 4, 2)

	d.Enable(gl.ScissorTest)
	d.Scissor(0, 0, 2, 1)
	d.ClearColor(1, 0, 0, 1)
	d.Clear(gl.ColorBufferBit)
	d.Disable(gl.ScissorTest)

	red := color.RGBA{R: 255, A: 255}
	// Window row 0 is the bottom row, which Pixel counts as y=1.
	if got := d.Pixel(fb, 0, 1); got != red {
		t.Errorf("bottom-left = %v, want %v", got, red)
	}
	if got := d.Pixel(fb, 0, 0); got != (color.RGBA{}) {
		t.Errorf("top-left = %v, want clear", got)
	}
	if got := d.Pixel(fb, 3, 1); got != (color.RGBA{}) {
		t.Errorf("outside scissor = %v, want clear", got)
	}

	dst := make([]byte, 4*2*4)
	d.ReadPixels(0, 0, 4, 2, gl.RGBA, gl.UnsignedByte, dst)
	if e := d.GetError(); e != gl.NoError {
		t.Fatalf("ReadPixels error %#x", e)
	}
	if dst[0] != 255 || dst[3] != 255 || dst[16] != 0 {
		t.Errorf("bottom row first: got %v", dst[:20])
	}

	d.ReadPixels(0, 0, 1, 1, gl.RGBA, gl.UnsignedInt8888, dst)
	if dst[0] != 255 || dst[3] != 255 || dst[1] != 0 {
		t.Errorf("reversed pixel = %v, want [255 0 0 255]", dst[:4])
	}
	if s := d.Stats(); s.SyncReads != 2 {
		t.Errorf("SyncReads = %d, want 2", s.SyncReads)
	}
}

func TestPixelBufferRead(t *testing.T) {
	d := soft.New()
	newFramebuffer(t, d, 2, 2)
	d.ClearColor(0, 0, 1, 1)
	d.Clear(gl.ColorBufferBit)

	buf := d.GenBuffer()
	d.BindBuffer(gl.PixelPackBuffer, buf)
	d.BufferData(gl.PixelPackBuffer, 16, gl.StreamRead)
	d.ReadPixelsToBuffer(0, 0, 2, 2, gl.RGBA, gl.UnsignedByte, 0)

	data := d.MapBufferRange(gl.PixelPackBuffer, 0, 16, gl.MapReadBit)
	if data == nil {
		t.Fatal("map failed")
	}
	if data[2] != 255 || data[14] != 255 {
		t.Errorf("mapped data = %v", data)
	}
	if d.MapBufferRange(gl.PixelPackBuffer, 0, 16, gl.MapReadBit) != nil {
		t.Error("double map should fail")
	}
	if e := d.GetError(); e != gl.InvalidOperation {
		t.Errorf("double map error = %#x", e)
	}
	if !d.UnmapBuffer(gl.PixelPackBuffer) {
		t.Error("unmap failed")
	}

	d.SetMapFailure(true)
	if d.MapBufferRange(gl.PixelPackBuffer, 0, 16, gl.MapReadBit) != nil {
		t.Error("forced map failure ignored")
	}
	if s := d.Stats(); s.BufferReads != 1 || s.Maps != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCapabilitiesAndLifetimes(t *testing.T) {
	d := soft.New(soft.WithCapabilities(0))
	if d.GenFramebuffer() != 0 || d.GenRenderbuffer() != 0 || d.GenBuffer() != 0 {
		t.Error("missing capabilities should make generators return 0")
	}
	if d.Capabilities().Has(gl.CapFramebuffer) {
		t.Error("framebuffer capability reported")
	}

	d = soft.New()
	fb, tex := newFramebuffer(t, d, 4, 4)
	rb := d.GenRenderbuffer()
	d.BindRenderbuffer(gl.Renderbuffer, rb)
	d.RenderbufferStorage(gl.Renderbuffer, gl.Depth24Stencil8, 2, 2)
	d.FramebufferRenderbuffer(gl.Framebuffer, gl.DepthStencilAttachment, gl.Renderbuffer, rb)
	if st := d.CheckFramebufferStatus(gl.Framebuffer); st != gl.FramebufferIncompleteAttachment {
		t.Errorf("mismatched depth size: status = %#x", st)
	}
	if d.Live() != 3 {
		t.Errorf("Live = %d, want 3", d.Live())
	}
	if int32(fb) != d.GetIntegerv(gl.FramebufferBinding) {
		t.Error("framebuffer binding query")
	}

	d.DeleteFramebuffer(fb)
	d.DeleteTexture(tex)
	d.DeleteRenderbuffer(rb)
	if d.Live() != 0 || d.DrawFramebuffer() != 0 {
		t.Errorf("after delete: live %d, bound %d", d.Live(), d.DrawFramebuffer())
	}

	d.SetGenFailure(true)
	if d.GenTexture() != 0 {
		t.Error("forced generator failure ignored")
	}
}
