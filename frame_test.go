package avis

import (
	"errors"
	"testing"
	"time"
)

func TestParsePixelFormat(t *testing.T) {
	for in, want := range map[string]PixelFormat{"rgba": PixelFormatRGBA, "ABGR": PixelFormatABGR} {
		got, err := ParsePixelFormat(in)
		if err != nil || got != want {
			t.Errorf("ParsePixelFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePixelFormat("nv12"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("nv12: err = %v", err)
	}
	if PixelFormat(9).String() != "PixelFormat(9)" {
		t.Errorf("String = %s", PixelFormat(9))
	}
}

func TestAudioBufferFromBytes(t *testing.T) {
	data := []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80, 0xff, 0x7f, 0x42}
	b := AudioBufferFromBytes(time.Second, data, 2)
	want := []int16{1, -1, -32768, 32767}
	if len(b.Samples) != len(want) {
		t.Fatalf("samples = %v", b.Samples)
	}
	for i := range want {
		if b.Samples[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, b.Samples[i], want[i])
		}
	}
	if b.Frames() != 2 || b.PTS != time.Second {
		t.Errorf("frames = %d pts = %v", b.Frames(), b.PTS)
	}
}

func TestVideoFrameValidate(t *testing.T) {
	f := NewVideoFrame(4, 2, PixelFormatRGBA)
	if f.PTS != NoPTS || f.Stride != 16 || len(f.Pix) != 32 {
		t.Fatalf("NewVideoFrame = %+v", f)
	}
	if err := f.Validate(); err != nil {
		t.Fatal(err)
	}

	padded := &VideoFrame{Width: 4, Height: 2, Stride: 20, Pix: make([]byte, 36)}
	if err := padded.Validate(); err != nil {
		t.Errorf("last row needs no padding: %v", err)
	}

	var nilFrame *VideoFrame
	for _, bad := range []*VideoFrame{
		nilFrame,
		{Width: 4, Height: 2, Stride: 12, Pix: make([]byte, 64)},
		{Width: 4, Height: 2, Stride: 16, Pix: make([]byte, 31)},
		{Width: 0, Height: 2, Stride: 16, Pix: make([]byte, 32)},
	} {
		if err := bad.Validate(); !errors.Is(err, ErrInvalidFrame) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidFrame", bad, err)
		}
	}
}

func TestVideoInfoFPS(t *testing.T) {
	v := VideoInfo{FPSNum: 30000, FPSDen: 1001}
	if fps := v.FPS(); fps < 29.97 || fps > 29.98 {
		t.Errorf("FPS = %g", fps)
	}
	if (VideoInfo{}).FPS() != 0 {
		t.Error("zero denominator should give 0 fps")
	}
}
