package gl

import "fmt"

// PixelLayout is the format/type pair passed to pixel reads.
type PixelLayout struct {
	Format Enum
	Type   Enum
}

var (
	// LayoutRGBA yields bytes R, G, B, A.
	LayoutRGBA = PixelLayout{Format: RGBA, Type: UnsignedByte}
	// LayoutABGR packs each pixel into one 32-bit word with R in the high
	// byte, which lands in memory as A, B, G, R on little-endian hosts.
	LayoutABGR = PixelLayout{Format: RGBA, Type: UnsignedInt8888}
)

const bytesPerPixel = 4

// Image describes a destination for pixel reads. Rows are top-first.
type Image struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
}

func (img Image) check(width, height int) error {
	if img.Width < width || img.Height < height {
		return fmt.Errorf("%w: %dx%d into %dx%d", ErrShortFrame, width, height, img.Width, img.Height)
	}
	row := width * bytesPerPixel
	if img.Stride < row || len(img.Pix) < (height-1)*img.Stride+row {
		return fmt.Errorf("%w: stride %d, %d bytes", ErrShortFrame, img.Stride, len(img.Pix))
	}
	return nil
}

// copyRows copies rows of rowBytes from a tightly packed source into dst.
// OpenGL returns the bottom row first; flip restores top-first order.
func copyRows(dst []byte, dstStride int, src []byte, rowBytes, rows int, flip bool) {
	for y := 0; y < rows; y++ {
		sy := y
		if flip {
			sy = rows - 1 - y
		}
		copy(dst[y*dstStride:y*dstStride+rowBytes], src[sy*rowBytes:(sy+1)*rowBytes])
	}
}

// SyncReader reads pixels from the bound read framebuffer with a blocking
// ReadPixels call.
type SyncReader struct {
	funcs   Funcs
	scratch []byte
}

// NewSyncReader returns a reader using funcs.
func NewSyncReader(funcs Funcs) *SyncReader { return &SyncReader{funcs: funcs} }

// Read copies the width x height image at the origin of the bound read
// framebuffer into dst.
func (r *SyncReader) Read(dst Image, width, height int, layout PixelLayout, flip bool) error {
	if err := dst.check(width, height); err != nil {
		return err
	}
	row := width * bytesPerPixel
	r.funcs.PixelStorei(PackAlignment, bytesPerPixel)

	if !flip && dst.Stride == row {
		r.funcs.ReadPixels(0, 0, int32(width), int32(height), layout.Format, layout.Type, dst.Pix[:row*height])
		return nil
	}
	if cap(r.scratch) < row*height {
		r.scratch = make([]byte, row*height)
	}
	r.scratch = r.scratch[:row*height]
	r.funcs.ReadPixels(0, 0, int32(width), int32(height), layout.Format, layout.Type, r.scratch)
	copyRows(dst.Pix, dst.Stride, r.scratch, row, height, flip)
	return nil
}
