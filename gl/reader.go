package gl

import (
	"fmt"
	"log/slog"
)

// RingSize is the number of pixel-pack buffers in an [AsyncReader].
const RingSize = 3

// AsyncReader reads frames through a ring of pixel-pack buffers. Each
// download issues a read of the current frame into the next slot and maps
// the slot issued one call earlier, so the copy never waits on the GPU.
// The first download after allocation maps the slot it just issued.
type AsyncReader struct {
	funcs  Funcs
	logger *slog.Logger

	slots     [RingSize]uint32
	next      int
	primed    bool
	allocated bool

	width  int
	height int
	layout PixelLayout
}

// NewAsyncReader returns a reader with no buffers.
func NewAsyncReader(funcs Funcs, logger *slog.Logger) *AsyncReader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AsyncReader{funcs: funcs, logger: logger}
}

// Supported reports whether the driver can read into and map buffers.
func (r *AsyncReader) Supported() bool {
	return r.funcs.Capabilities().Has(CapPixelBuffer | CapMapBuffer)
}

// Primed reports whether at least one read is in flight.
func (r *AsyncReader) Primed() bool { return r.primed }

// Next returns the slot the next download reads into.
func (r *AsyncReader) Next() int { return r.next }

// Ensure sizes the ring for width x height frames in layout. Matching
// parameters keep the ring; anything else reallocates it and clears the
// in-flight state.
func (r *AsyncReader) Ensure(width, height int, layout PixelLayout) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !r.Supported() {
		return ErrUnsupported
	}
	if r.allocated && r.width == width && r.height == height && r.layout == layout {
		return nil
	}
	r.Release()

	size := width * height * bytesPerPixel
	for i := range r.slots {
		buf := r.funcs.GenBuffer()
		if buf == 0 {
			r.Release()
			return fmt.Errorf("%w: pixel-pack buffer %d", ErrAllocation, i)
		}
		r.slots[i] = buf
		r.funcs.BindBuffer(PixelPackBuffer, buf)
		r.funcs.BufferData(PixelPackBuffer, size, StreamRead)
	}
	r.funcs.BindBuffer(PixelPackBuffer, 0)

	r.width, r.height, r.layout = width, height, layout
	r.allocated = true
	r.next = 0
	r.primed = false
	r.logger.Debug("gl: readback ring allocated", "width", width, "height", height, "bytes", size)
	return nil
}

// Download issues a read of the bound read framebuffer and copies the
// oldest completed read into dst. It reports false when the buffer could
// not be mapped; the caller then reads synchronously for this frame.
func (r *AsyncReader) Download(dst Image, flip bool) (bool, error) {
	if !r.allocated {
		return false, ErrNotAllocated
	}
	if err := dst.check(r.width, r.height); err != nil {
		return false, err
	}
	f := r.funcs
	w, h := int32(r.width), int32(r.height)
	size := r.width * r.height * bytesPerPixel

	cur := r.next
	f.PixelStorei(PackAlignment, bytesPerPixel)
	f.BindBuffer(PixelPackBuffer, r.slots[cur])
	f.ReadPixelsToBuffer(0, 0, w, h, r.layout.Format, r.layout.Type, 0)

	src := cur
	if r.primed {
		src = (cur + RingSize - 1) % RingSize
	}
	f.BindBuffer(PixelPackBuffer, r.slots[src])
	data := f.MapBufferRange(PixelPackBuffer, 0, size, MapReadBit)
	copied := len(data) >= size
	if copied {
		copyRows(dst.Pix, dst.Stride, data, r.width*bytesPerPixel, r.height, flip)
		f.UnmapBuffer(PixelPackBuffer)
	} else {
		if data != nil {
			f.UnmapBuffer(PixelPackBuffer)
		}
		r.logger.Debug("gl: readback buffer map failed", "slot", src)
	}
	f.BindBuffer(PixelPackBuffer, 0)

	r.next = (cur + 1) % RingSize
	r.primed = true
	return copied, nil
}

// Release deletes the ring buffers. It is safe to call repeatedly.
func (r *AsyncReader) Release() {
	for i, buf := range r.slots {
		if buf != 0 {
			r.funcs.DeleteBuffer(buf)
			r.slots[i] = 0
		}
	}
	r.allocated = false
	r.next = 0
	r.primed = false
}
