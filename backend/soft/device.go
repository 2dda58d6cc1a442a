package soft

import (
	"image/color"

	"github.com/gogpu/avis/gl"
)

type surface struct {
	width  int
	height int
	pix    []byte
}

func newSurface(width, height int) *surface {
	return &surface{width: width, height: height, pix: make([]byte, width*height*4)}
}

type framebuffer struct {
	color uint32
	depth uint32
}

type renderbuffer struct {
	width  int
	height int
	format gl.Enum
}

type buffer struct {
	data   []byte
	mapped bool
}

// Stats counts object lifetimes and reads.
type Stats struct {
	FramebuffersCreated  int
	FramebuffersDeleted  int
	TexturesCreated      int
	TexturesDeleted      int
	RenderbuffersCreated int
	RenderbuffersDeleted int
	BuffersCreated       int
	BuffersDeleted       int
	SyncReads            int
	BufferReads          int
	Maps                 int
}

// Device is a single-context software GL. It is not safe for concurrent use.
type Device struct {
	caps gl.Capability

	nextName      uint32
	framebuffers  map[uint32]*framebuffer
	textures      map[uint32]*surface
	renderbuffers map[uint32]*renderbuffer
	buffers       map[uint32]*buffer
	window        *surface

	drawFB   uint32
	readFB   uint32
	texture  uint32
	rb       uint32
	packBuf  uint32
	viewport [4]int32

	scissorOn  bool
	scissor    [4]int32
	clearColor [4]float32
	err        gl.Enum

	forceIncomplete bool
	failMap         bool
	failGen         bool
	stats           Stats
}

// Option configures a [Device].
type Option func(*Device)

// WithWindow gives the device a default framebuffer of the given size.
// Without it framebuffer 0 is incomplete, as on a headless context.
func WithWindow(width, height int) Option {
	return func(d *Device) { d.window = newSurface(width, height) }
}

// WithCapabilities limits the optional entry point groups the device
// reports and implements.
func WithCapabilities(c gl.Capability) Option {
	return func(d *Device) { d.caps = c }
}

// New returns a device with every capability and no window.
func New(opts ...Option) *Device {
	d := &Device{
		caps:          gl.CapAll,
		framebuffers:  make(map[uint32]*framebuffer),
		textures:      make(map[uint32]*surface),
		renderbuffers: make(map[uint32]*renderbuffer),
		buffers:       make(map[uint32]*buffer),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetIncomplete makes every framebuffer object report an incomplete status.
func (d *Device) SetIncomplete(v bool) { d.forceIncomplete = v }

// SetMapFailure makes MapBufferRange fail.
func (d *Device) SetMapFailure(v bool) { d.failMap = v }

// SetGenFailure makes every object generator return 0.
func (d *Device) SetGenFailure(v bool) { d.failGen = v }

// Stats returns the object and read counters.
func (d *Device) Stats() Stats { return d.stats }

// Live returns the number of objects not yet deleted.
func (d *Device) Live() int {
	return len(d.framebuffers) + len(d.textures) + len(d.renderbuffers) + len(d.buffers)
}

// DrawFramebuffer returns the framebuffer bound for drawing.
func (d *Device) DrawFramebuffer() uint32 { return d.drawFB }

// Pixel returns the color at (x, y) of framebuffer fb, with y counted from
// the top row.
func (d *Device) Pixel(fb uint32, x, y int) color.RGBA {
	s := d.surfaceOf(fb)
	if s == nil || x < 0 || y < 0 || x >= s.width || y >= s.height {
		return color.RGBA{}
	}
	i := ((s.height-1-y)*s.width + x) * 4
	return color.RGBA{R: s.pix[i], G: s.pix[i+1], B: s.pix[i+2], A: s.pix[i+3]}
}

func (d *Device) setError(e gl.Enum) {
	if d.err == gl.NoError {
		d.err = e
	}
}

func (d *Device) gen() uint32 {
	if d.failGen {
		return 0
	}
	d.nextName++
	return d.nextName
}

// surfaceOf returns the color surface of framebuffer fb.
func (d *Device) surfaceOf(fb uint32) *surface {
	if fb == 0 {
		return d.window
	}
	f, ok := d.framebuffers[fb]
	if !ok || f.color == 0 {
		return nil
	}
	return d.textures[f.color]
}

var _ gl.Funcs = (*Device)(nil)
