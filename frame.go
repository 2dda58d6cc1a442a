package avis

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// NoPTS marks a buffer without a presentation timestamp.
const NoPTS time.Duration = -1

// PixelFormat is the byte order of output video frames.
type PixelFormat int

const (
	// PixelFormatRGBA stores bytes R, G, B, A.
	PixelFormatRGBA PixelFormat = iota
	// PixelFormatABGR stores bytes A, B, G, R.
	PixelFormatABGR
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA:
		return "RGBA"
	case PixelFormatABGR:
		return "ABGR"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// ParsePixelFormat parses "rgba" or "abgr", case-insensitively.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch strings.ToLower(s) {
	case "rgba":
		return PixelFormatRGBA, nil
	case "abgr":
		return PixelFormatABGR, nil
	}
	return 0, fmt.Errorf("%w: pixel format %q", ErrUnsupportedFormat, s)
}

// ChannelLayout is the interleaving of PCM samples handed to the engine.
type ChannelLayout int

const (
	// Mono is one sample per frame.
	Mono ChannelLayout = 1
	// Stereo is two interleaved samples per frame.
	Stereo ChannelLayout = 2
)

// AudioInfo describes the negotiated audio stream: interleaved signed
// 16-bit PCM.
type AudioInfo struct {
	Rate     int
	Channels int
}

// VideoInfo describes the negotiated video stream. The frame rate is
// FPSNum/FPSDen.
type VideoInfo struct {
	Width  int
	Height int
	FPSNum int
	FPSDen int
	Format PixelFormat
}

// FPS returns the frame rate as a float.
func (v VideoInfo) FPS() float64 {
	if v.FPSDen == 0 {
		return 0
	}
	return float64(v.FPSNum) / float64(v.FPSDen)
}

// AudioBuffer is one chunk of interleaved PCM with its timestamp.
type AudioBuffer struct {
	PTS      time.Duration
	Samples  []int16
	Channels int
}

// Frames returns the number of sample frames in the buffer.
func (b AudioBuffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// AudioBufferFromBytes decodes little-endian 16-bit PCM. A trailing odd
// byte is ignored.
func AudioBufferFromBytes(pts time.Duration, data []byte, channels int) AudioBuffer {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return AudioBuffer{PTS: pts, Samples: samples, Channels: channels}
}

// VideoFrame is a writable output frame. Rows are top-first.
type VideoFrame struct {
	PTS    time.Duration
	Width  int
	Height int
	Stride int
	Format PixelFormat
	Pix    []byte
}

// NewVideoFrame allocates a tightly packed frame.
func NewVideoFrame(width, height int, format PixelFormat) *VideoFrame {
	return &VideoFrame{
		PTS:    NoPTS,
		Width:  width,
		Height: height,
		Stride: width * 4,
		Format: format,
		Pix:    make([]byte, width*height*4),
	}
}

// Validate checks that the buffer holds Height rows of Stride bytes.
func (f *VideoFrame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if f.Width <= 0 || f.Height <= 0 || f.Stride < f.Width*4 {
		return fmt.Errorf("%w: %dx%d stride %d", ErrInvalidFrame, f.Width, f.Height, f.Stride)
	}
	if len(f.Pix) < (f.Height-1)*f.Stride+f.Width*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d stride %d", ErrInvalidFrame, len(f.Pix), f.Width, f.Height, f.Stride)
	}
	return nil
}
