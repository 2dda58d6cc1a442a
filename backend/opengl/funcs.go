//go:build !nogl

package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	avisgl "github.com/gogpu/avis/gl"
)

// Funcs implements gl.Funcs with the go-gl 4.1 core binding. The owning
// context must be current on the calling thread.
type Funcs struct {
	caps avisgl.Capability
}

// newFuncs reads the context version. gl.Init must have succeeded.
func newFuncs() *Funcs {
	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	return &Funcs{caps: capabilitiesFor(major, minor)}
}

// capabilitiesFor reports the function groups core in a GL version.
// Framebuffer and renderbuffer objects and MapBufferRange are core in 3.0,
// pixel-pack buffers in 2.1.
func capabilitiesFor(major, minor int32) avisgl.Capability {
	var c avisgl.Capability
	if major > 2 || (major == 2 && minor >= 1) {
		c |= avisgl.CapPixelBuffer
	}
	if major >= 3 {
		c |= avisgl.CapFramebuffer | avisgl.CapRenderbuffer | avisgl.CapMapBuffer
	}
	return c
}

func (f *Funcs) Capabilities() avisgl.Capability { return f.caps }

func (f *Funcs) GetIntegerv(pname avisgl.Enum) int32 {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return v
}

func (f *Funcs) GetError() avisgl.Enum { return avisgl.Enum(gl.GetError()) }

func (f *Funcs) GenFramebuffer() uint32 {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return fb
}

func (f *Funcs) DeleteFramebuffer(fb uint32) { gl.DeleteFramebuffers(1, &fb) }

func (f *Funcs) BindFramebuffer(target avisgl.Enum, fb uint32) {
	gl.BindFramebuffer(uint32(target), fb)
}

func (f *Funcs) CheckFramebufferStatus(target avisgl.Enum) avisgl.Enum {
	return avisgl.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (f *Funcs) FramebufferTexture2D(target, attachment, texTarget avisgl.Enum, tex uint32, level int32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), tex, level)
}

func (f *Funcs) FramebufferRenderbuffer(target, attachment, rbTarget avisgl.Enum, rb uint32) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), rb)
}

func (f *Funcs) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (f *Funcs) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }

func (f *Funcs) BindTexture(target avisgl.Enum, tex uint32) {
	gl.BindTexture(uint32(target), tex)
}

func (f *Funcs) TexImage2D(target avisgl.Enum, level int32, internalFormat avisgl.Enum, width, height int32, format, xtype avisgl.Enum) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(xtype), nil)
}

func (f *Funcs) TexParameteri(target, pname avisgl.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (f *Funcs) GenRenderbuffer() uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return rb
}

func (f *Funcs) DeleteRenderbuffer(rb uint32) { gl.DeleteRenderbuffers(1, &rb) }

func (f *Funcs) BindRenderbuffer(target avisgl.Enum, rb uint32) {
	gl.BindRenderbuffer(uint32(target), rb)
}

func (f *Funcs) RenderbufferStorage(target, internalFormat avisgl.Enum, width, height int32) {
	gl.RenderbufferStorage(uint32(target), uint32(internalFormat), width, height)
}

func (f *Funcs) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (f *Funcs) DeleteBuffer(buf uint32) { gl.DeleteBuffers(1, &buf) }

func (f *Funcs) BindBuffer(target avisgl.Enum, buf uint32) {
	gl.BindBuffer(uint32(target), buf)
}

func (f *Funcs) BufferData(target avisgl.Enum, size int, usage avisgl.Enum) {
	gl.BufferData(uint32(target), size, nil, uint32(usage))
}

func (f *Funcs) MapBufferRange(target avisgl.Enum, offset, length int, access avisgl.Enum) []byte {
	ptr := gl.MapBufferRange(uint32(target), offset, length, uint32(access))
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), length)
}

func (f *Funcs) UnmapBuffer(target avisgl.Enum) bool { return gl.UnmapBuffer(uint32(target)) }

func (f *Funcs) PixelStorei(pname avisgl.Enum, param int32) {
	gl.PixelStorei(uint32(pname), param)
}

func (f *Funcs) ReadPixels(x, y, width, height int32, format, xtype avisgl.Enum, dst []byte) {
	if len(dst) == 0 {
		return
	}
	gl.ReadPixels(x, y, width, height, uint32(format), uint32(xtype), gl.Ptr(dst))
}

func (f *Funcs) ReadPixelsToBuffer(x, y, width, height int32, format, xtype avisgl.Enum, offset int) {
	gl.ReadPixels(x, y, width, height, uint32(format), uint32(xtype), gl.PtrOffset(offset))
}

func (f *Funcs) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (f *Funcs) Enable(capability avisgl.Enum) { gl.Enable(uint32(capability)) }

func (f *Funcs) Disable(capability avisgl.Enum) { gl.Disable(uint32(capability)) }

func (f *Funcs) Scissor(x, y, width, height int32) { gl.Scissor(x, y, width, height) }

func (f *Funcs) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (f *Funcs) Clear(mask avisgl.Enum) { gl.Clear(uint32(mask)) }

var _ avisgl.Funcs = (*Funcs)(nil)
