package gl

// Enum is an OpenGL enumerant.
type Enum uint32

// OpenGL enumerants used by this package.
const (
	NoError Enum = 0

	Texture2D        Enum = 0x0DE1
	TextureMinFilter Enum = 0x2801
	TextureMagFilter Enum = 0x2800
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	Linear           Enum = 0x2601
	ClampToEdge      Enum = 0x812F

	RGBA                   Enum = 0x1908
	RGBA8                  Enum = 0x8058
	UnsignedByte           Enum = 0x1401
	UnsignedInt8888        Enum = 0x8035
	Depth24Stencil8        Enum = 0x88F0
	PackAlignment          Enum = 0x0D05
	PixelPackBuffer        Enum = 0x88EB
	StreamRead             Enum = 0x88E1
	MapReadBit             Enum = 0x0001
	ScissorTest            Enum = 0x0C11
	ColorBufferBit         Enum = 0x4000
	DepthBufferBit         Enum = 0x0100
	StencilBufferBit       Enum = 0x0400
	Framebuffer            Enum = 0x8D40
	ReadFramebuffer        Enum = 0x8CA8
	DrawFramebuffer        Enum = 0x8CA9
	Renderbuffer           Enum = 0x8D41
	ColorAttachment0       Enum = 0x8CE0
	DepthStencilAttachment Enum = 0x821A

	FramebufferBinding     Enum = 0x8CA6
	PixelPackBufferBinding Enum = 0x88ED

	FramebufferComplete                    Enum = 0x8CD5
	FramebufferUndefined                   Enum = 0x8219
	FramebufferIncompleteAttachment        Enum = 0x8CD6
	FramebufferIncompleteMissingAttachment Enum = 0x8CD7
	FramebufferUnsupported                 Enum = 0x8CDD

	InvalidEnum      Enum = 0x0500
	InvalidValue     Enum = 0x0501
	InvalidOperation Enum = 0x0502
	OutOfMemory      Enum = 0x0505
)

// Capability is a set of optional OpenGL entry point groups.
type Capability uint32

const (
	// CapFramebuffer covers framebuffer objects: generate, bind, attach,
	// status check and the framebuffer binding query.
	CapFramebuffer Capability = 1 << iota
	// CapRenderbuffer covers renderbuffer objects.
	CapRenderbuffer
	// CapPixelBuffer covers buffer objects bound as pixel-pack buffers and
	// reads into them.
	CapPixelBuffer
	// CapMapBuffer covers mapping buffer ranges for reading.
	CapMapBuffer

	// CapAll is every optional group.
	CapAll = CapFramebuffer | CapRenderbuffer | CapPixelBuffer | CapMapBuffer
)

// Has reports whether all of want are present.
func (c Capability) Has(want Capability) bool { return c&want == want }

// Funcs is the table of OpenGL entry points the stage uses.
//
// Object names are uint32 and 0 is never a valid name; generators return 0
// on failure. Implementations may leave out the optional groups reported
// by Capabilities; callers check before using them.
type Funcs interface {
	Capabilities() Capability
	GetIntegerv(pname Enum) int32
	GetError() Enum

	GenFramebuffer() uint32
	DeleteFramebuffer(fb uint32)
	BindFramebuffer(target Enum, fb uint32)
	CheckFramebufferStatus(target Enum) Enum
	FramebufferTexture2D(target, attachment, texTarget Enum, tex uint32, level int32)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, rb uint32)

	GenTexture() uint32
	DeleteTexture(tex uint32)
	BindTexture(target Enum, tex uint32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, xtype Enum)
	TexParameteri(target, pname Enum, param int32)

	GenRenderbuffer() uint32
	DeleteRenderbuffer(rb uint32)
	BindRenderbuffer(target Enum, rb uint32)
	RenderbufferStorage(target, internalFormat Enum, width, height int32)

	GenBuffer() uint32
	DeleteBuffer(buf uint32)
	BindBuffer(target Enum, buf uint32)
	BufferData(target Enum, size int, usage Enum)
	// MapBufferRange returns the mapped bytes, or nil when mapping fails.
	// The slice is valid until UnmapBuffer.
	MapBufferRange(target Enum, offset, length int, access Enum) []byte
	UnmapBuffer(target Enum) bool

	PixelStorei(pname Enum, param int32)
	// ReadPixels reads from the bound read framebuffer into dst.
	ReadPixels(x, y, width, height int32, format, xtype Enum, dst []byte)
	// ReadPixelsToBuffer reads into the bound pixel-pack buffer at offset.
	ReadPixelsToBuffer(x, y, width, height int32, format, xtype Enum, offset int)

	Viewport(x, y, width, height int32)
	Enable(capability Enum)
	Disable(capability Enum)
	Scissor(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
}
