package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gogpu/avis"
	"golang.org/x/image/draw"
	"golang.org/x/term"
)

var errTerminal = errors.New("refusing to write raw video to a terminal")

// frameSink consumes rendered frames.
type frameSink interface {
	WriteFrame(f *avis.VideoFrame) error
	Close() error
}

// rawSink writes tightly packed frames to a file or stdout.
type rawSink struct {
	w      io.Writer
	closer io.Closer
	row    []byte
}

// newRawSink opens path for writing; "-" means stdout, which must not be
// a terminal.
func newRawSink(path string) (*rawSink, error) {
	if path == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errTerminal
		}
		return &rawSink{w: os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &rawSink{w: f, closer: f}, nil
}

func (s *rawSink) WriteFrame(f *avis.VideoFrame) error {
	rowBytes := f.Width * 4
	if f.Stride == rowBytes {
		_, err := s.w.Write(f.Pix[:rowBytes*f.Height])
		return err
	}
	for y := range f.Height {
		if _, err := s.w.Write(f.Pix[y*f.Stride : y*f.Stride+rowBytes]); err != nil {
			return err
		}
	}
	return nil
}

func (s *rawSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ffmpegSink pipes raw frames into ffmpeg and muxes the source audio.
type ffmpegSink struct {
	cmd *exec.Cmd
	raw *rawSink
}

func ffmpegArgs(out, audio string, video avis.VideoInfo) []string {
	pixFmt := "rgba"
	if video.Format == avis.PixelFormatABGR {
		pixFmt = "abgr"
	}
	return []string{
		"-y", "-loglevel", "error",
		"-f", "rawvideo", "-pix_fmt", pixFmt,
		"-s", fmt.Sprintf("%dx%d", video.Width, video.Height),
		"-r", fmt.Sprintf("%d/%d", video.FPSNum, video.FPSDen),
		"-i", "-",
		"-i", audio,
		"-map", "0:v", "-map", "1:a",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-shortest",
		out,
	}
}

func newFFmpegSink(out, audio string, video avis.VideoInfo) (*ffmpegSink, error) {
	cmd := exec.Command("ffmpeg", ffmpegArgs(out, audio, video)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin pipe: %w", err)
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return &ffmpegSink{cmd: cmd, raw: &rawSink{w: stdin, closer: stdin}}, nil
}

func (s *ffmpegSink) WriteFrame(f *avis.VideoFrame) error { return s.raw.WriteFrame(f) }

func (s *ffmpegSink) Close() error {
	if err := s.raw.Close(); err != nil {
		return err
	}
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// thumbnailer saves a scaled PNG of a frame every interval seconds.
type thumbnailer struct {
	dir      string
	width    int
	interval float64
	next     float64
	count    int
}

func newThumbnailer(dir string, width int, interval float64) (*thumbnailer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &thumbnailer{dir: dir, width: width, interval: interval}, nil
}

// Offer saves f when its time t reached the next thumbnail slot.
func (th *thumbnailer) Offer(f *avis.VideoFrame, t float64) error {
	if t < th.next {
		return nil
	}
	th.next = t + th.interval
	img := scaleFrame(f, th.width)
	path := filepath.Join(th.dir, fmt.Sprintf("thumb_%04d.png", th.count))
	th.count++
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// scaleFrame converts f to RGBA and scales it to width, keeping the
// aspect ratio.
func scaleFrame(f *avis.VideoFrame, width int) *image.RGBA {
	src := &image.RGBA{Pix: f.Pix, Stride: f.Stride, Rect: image.Rect(0, 0, f.Width, f.Height)}
	if f.Format == avis.PixelFormatABGR {
		src = image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
		for y := range f.Height {
			s := f.Pix[y*f.Stride:]
			d := src.Pix[y*src.Stride:]
			for x := 0; x < f.Width*4; x += 4 {
				d[x], d[x+1], d[x+2], d[x+3] = s[x+3], s[x+2], s[x+1], s[x]
			}
		}
	}
	if width <= 0 || width >= f.Width {
		return src
	}
	height := max(1, f.Height*width/f.Width)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
