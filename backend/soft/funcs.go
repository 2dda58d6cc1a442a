package soft

import (
	"math"

	"github.com/gogpu/avis/gl"
)

// Capabilities reports the enabled optional groups.
func (d *Device) Capabilities() gl.Capability { return d.caps }

// GetIntegerv answers the binding queries.
func (d *Device) GetIntegerv(pname gl.Enum) int32 {
	switch pname {
	case gl.FramebufferBinding:
		return int32(d.drawFB)
	case gl.PixelPackBufferBinding:
		return int32(d.packBuf)
	}
	d.setError(gl.InvalidEnum)
	return 0
}

// GetError returns and clears the first recorded error.
func (d *Device) GetError() gl.Enum {
	e := d.err
	d.err = gl.NoError
	return e
}

// GenFramebuffer creates a framebuffer object.
func (d *Device) GenFramebuffer() uint32 {
	if !d.caps.Has(gl.CapFramebuffer) {
		return 0
	}
	name := d.gen()
	if name != 0 {
		d.framebuffers[name] = &framebuffer{}
		d.stats.FramebuffersCreated++
	}
	return name
}

// DeleteFramebuffer deletes fb. Deleting a bound framebuffer rebinds 0.
func (d *Device) DeleteFramebuffer(fb uint32) {
	if _, ok := d.framebuffers[fb]; !ok {
		return
	}
	delete(d.framebuffers, fb)
	d.stats.FramebuffersDeleted++
	if d.drawFB == fb {
		d.drawFB = 0
	}
	if d.readFB == fb {
		d.readFB = 0
	}
}

// BindFramebuffer binds fb for drawing, reading or both.
func (d *Device) BindFramebuffer(target gl.Enum, fb uint32) {
	if fb != 0 {
		if _, ok := d.framebuffers[fb]; !ok {
			d.setError(gl.InvalidOperation)
			return
		}
	}
	switch target {
	case gl.Framebuffer:
		d.drawFB, d.readFB = fb, fb
	case gl.DrawFramebuffer:
		d.drawFB = fb
	case gl.ReadFramebuffer:
		d.readFB = fb
	default:
		d.setError(gl.InvalidEnum)
	}
}

// CheckFramebufferStatus checks the draw (or read) framebuffer.
func (d *Device) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	fb := d.drawFB
	if target == gl.ReadFramebuffer {
		fb = d.readFB
	}
	if fb == 0 {
		if d.window == nil {
			return gl.FramebufferUndefined
		}
		return gl.FramebufferComplete
	}
	if d.forceIncomplete {
		return gl.FramebufferIncompleteAttachment
	}
	f := d.framebuffers[fb]
	tex, ok := d.textures[f.color]
	if f.color == 0 || !ok {
		return gl.FramebufferIncompleteMissingAttachment
	}
	if tex.width == 0 || tex.height == 0 {
		return gl.FramebufferIncompleteAttachment
	}
	if f.depth != 0 {
		rb, ok := d.renderbuffers[f.depth]
		if !ok || rb.width != tex.width || rb.height != tex.height {
			return gl.FramebufferIncompleteAttachment
		}
	}
	return gl.FramebufferComplete
}

// FramebufferTexture2D attaches tex as the color buffer of the bound
// framebuffer.
func (d *Device) FramebufferTexture2D(target, attachment, _ gl.Enum, tex uint32, _ int32) {
	f := d.framebuffers[d.drawFB]
	if f == nil || attachment != gl.ColorAttachment0 {
		d.setError(gl.InvalidOperation)
		return
	}
	f.color = tex
}

// FramebufferRenderbuffer attaches rb as the depth/stencil buffer of the
// bound framebuffer.
func (d *Device) FramebufferRenderbuffer(_, attachment, _ gl.Enum, rb uint32) {
	f := d.framebuffers[d.drawFB]
	if f == nil || attachment != gl.DepthStencilAttachment {
		d.setError(gl.InvalidOperation)
		return
	}
	f.depth = rb
}

// GenTexture creates a texture object.
func (d *Device) GenTexture() uint32 {
	name := d.gen()
	if name != 0 {
		d.textures[name] = &surface{}
		d.stats.TexturesCreated++
	}
	return name
}

// DeleteTexture deletes tex.
func (d *Device) DeleteTexture(tex uint32) {
	if _, ok := d.textures[tex]; !ok {
		return
	}
	delete(d.textures, tex)
	d.stats.TexturesDeleted++
	if d.texture == tex {
		d.texture = 0
	}
}

// BindTexture binds tex.
func (d *Device) BindTexture(_ gl.Enum, tex uint32) { d.texture = tex }

// TexImage2D allocates storage for the bound texture.
func (d *Device) TexImage2D(_ gl.Enum, _ int32, _ gl.Enum, width, height int32, _, _ gl.Enum) {
	if _, ok := d.textures[d.texture]; !ok || width < 0 || height < 0 {
		d.setError(gl.InvalidOperation)
		return
	}
	d.textures[d.texture] = newSurface(int(width), int(height))
}

// TexParameteri accepts and ignores sampling parameters.
func (d *Device) TexParameteri(_, _ gl.Enum, _ int32) {}

// GenRenderbuffer creates a renderbuffer object.
func (d *Device) GenRenderbuffer() uint32 {
	if !d.caps.Has(gl.CapRenderbuffer) {
		return 0
	}
	name := d.gen()
	if name != 0 {
		d.renderbuffers[name] = &renderbuffer{}
		d.stats.RenderbuffersCreated++
	}
	return name
}

// DeleteRenderbuffer deletes rb.
func (d *Device) DeleteRenderbuffer(rb uint32) {
	if _, ok := d.renderbuffers[rb]; !ok {
		return
	}
	delete(d.renderbuffers, rb)
	d.stats.RenderbuffersDeleted++
	if d.rb == rb {
		d.rb = 0
	}
}

// BindRenderbuffer binds rb.
func (d *Device) BindRenderbuffer(_ gl.Enum, rb uint32) { d.rb = rb }

// RenderbufferStorage allocates the bound renderbuffer.
func (d *Device) RenderbufferStorage(_, format gl.Enum, width, height int32) {
	rb, ok := d.renderbuffers[d.rb]
	if !ok {
		d.setError(gl.InvalidOperation)
		return
	}
	rb.width, rb.height, rb.format = int(width), int(height), format
}

// GenBuffer creates a buffer object.
func (d *Device) GenBuffer() uint32 {
	if !d.caps.Has(gl.CapPixelBuffer) {
		return 0
	}
	name := d.gen()
	if name != 0 {
		d.buffers[name] = &buffer{}
		d.stats.BuffersCreated++
	}
	return name
}

// DeleteBuffer deletes buf.
func (d *Device) DeleteBuffer(buf uint32) {
	if _, ok := d.buffers[buf]; !ok {
		return
	}
	delete(d.buffers, buf)
	d.stats.BuffersDeleted++
	if d.packBuf == buf {
		d.packBuf = 0
	}
}

// BindBuffer binds buf as the pixel-pack buffer.
func (d *Device) BindBuffer(target gl.Enum, buf uint32) {
	if target != gl.PixelPackBuffer {
		d.setError(gl.InvalidEnum)
		return
	}
	d.packBuf = buf
}

// BufferData allocates the bound pixel-pack buffer.
func (d *Device) BufferData(_ gl.Enum, size int, _ gl.Enum) {
	b, ok := d.buffers[d.packBuf]
	if !ok || size < 0 {
		d.setError(gl.InvalidOperation)
		return
	}
	b.data = make([]byte, size)
}

// MapBufferRange maps part of the bound pixel-pack buffer.
func (d *Device) MapBufferRange(_ gl.Enum, offset, length int, _ gl.Enum) []byte {
	if !d.caps.Has(gl.CapMapBuffer) || d.failMap {
		return nil
	}
	b, ok := d.buffers[d.packBuf]
	if !ok || b.mapped || offset < 0 || length < 0 || offset+length > len(b.data) {
		d.setError(gl.InvalidOperation)
		return nil
	}
	b.mapped = true
	d.stats.Maps++
	return b.data[offset : offset+length]
}

// UnmapBuffer unmaps the bound pixel-pack buffer.
func (d *Device) UnmapBuffer(gl.Enum) bool {
	b, ok := d.buffers[d.packBuf]
	if !ok || !b.mapped {
		d.setError(gl.InvalidOperation)
		return false
	}
	b.mapped = false
	return true
}

// PixelStorei accepts pack alignment; RGBA rows are always 4-byte aligned.
func (d *Device) PixelStorei(gl.Enum, int32) {}

// ReadPixels reads from the read framebuffer, bottom row first.
func (d *Device) ReadPixels(x, y, width, height int32, format, xtype gl.Enum, dst []byte) {
	if !d.readInto(x, y, width, height, format, xtype, dst) {
		return
	}
	d.stats.SyncReads++
}

// ReadPixelsToBuffer reads into the bound pixel-pack buffer.
func (d *Device) ReadPixelsToBuffer(x, y, width, height int32, format, xtype gl.Enum, offset int) {
	b, ok := d.buffers[d.packBuf]
	if !ok || b.mapped || offset < 0 || offset > len(b.data) {
		d.setError(gl.InvalidOperation)
		return
	}
	if !d.readInto(x, y, width, height, format, xtype, b.data[offset:]) {
		return
	}
	d.stats.BufferReads++
}

func (d *Device) readInto(x, y, width, height int32, format, xtype gl.Enum, dst []byte) bool {
	src := d.surfaceOf(d.readFB)
	if src == nil {
		d.setError(gl.InvalidOperation)
		return false
	}
	if format != gl.RGBA || (xtype != gl.UnsignedByte && xtype != gl.UnsignedInt8888) {
		d.setError(gl.InvalidEnum)
		return false
	}
	if x < 0 || y < 0 || int(x+width) > src.width || int(y+height) > src.height ||
		len(dst) < int(width*height*4) {
		d.setError(gl.InvalidValue)
		return false
	}
	row := int(width) * 4
	for r := 0; r < int(height); r++ {
		from := ((int(y)+r)*src.width + int(x)) * 4
		out := dst[r*row : (r+1)*row]
		copy(out, src.pix[from:from+row])
		if xtype == gl.UnsignedInt8888 {
			for i := 0; i < row; i += 4 {
				out[i], out[i+1], out[i+2], out[i+3] = out[i+3], out[i+2], out[i+1], out[i]
			}
		}
	}
	return true
}

// Viewport records the viewport.
func (d *Device) Viewport(x, y, width, height int32) {
	d.viewport = [4]int32{x, y, width, height}
}

// Enable enables the scissor test.
func (d *Device) Enable(capability gl.Enum) {
	if capability == gl.ScissorTest {
		d.scissorOn = true
	}
}

// Disable disables the scissor test.
func (d *Device) Disable(capability gl.Enum) {
	if capability == gl.ScissorTest {
		d.scissorOn = false
	}
}

// Scissor sets the scissor box in window coordinates.
func (d *Device) Scissor(x, y, width, height int32) {
	d.scissor = [4]int32{x, y, width, height}
}

// ClearColor sets the clear color.
func (d *Device) ClearColor(r, g, b, a float32) {
	d.clearColor = [4]float32{r, g, b, a}
}

// Clear fills the draw framebuffer's color buffer, honoring the scissor box.
func (d *Device) Clear(mask gl.Enum) {
	if mask&gl.ColorBufferBit == 0 {
		return
	}
	s := d.surfaceOf(d.drawFB)
	if s == nil {
		d.setError(gl.InvalidOperation)
		return
	}
	x0, y0, x1, y1 := 0, 0, s.width, s.height
	if d.scissorOn {
		x0 = max(x0, int(d.scissor[0]))
		y0 = max(y0, int(d.scissor[1]))
		x1 = min(x1, int(d.scissor[0]+d.scissor[2]))
		y1 = min(y1, int(d.scissor[1]+d.scissor[3]))
	}
	var px [4]byte
	for i, c := range d.clearColor {
		px[i] = byte(math.Round(float64(min(max(c, 0), 1)) * 255))
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			copy(s.pix[(y*s.width+x)*4:], px[:])
		}
	}
}
