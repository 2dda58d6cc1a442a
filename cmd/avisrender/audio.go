package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// decodeAudio opens and decodes an mp3 or wav file.
func decodeAudio(path string) (beep.StreamSeekCloser, beep.Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		stream, format, err := mp3.Decode(file)
		if err != nil {
			file.Close()
			return nil, beep.Format{}, err
		}
		return stream, format, nil
	case ".wav":
		stream, format, err := wav.Decode(file)
		if err != nil {
			file.Close()
			return nil, beep.Format{}, err
		}
		return stream, format, nil
	default:
		file.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", ext)
	}
}

// pcmSource cuts a stereo stream into 16-bit chunks aligned to video
// frames. Frame i covers samples [i*rate*den/num, (i+1)*rate*den/num), so
// chunk lengths vary by one sample at fractional rates and never drift.
type pcmSource struct {
	stream beep.Streamer
	rate   int64
	fpsNum int64
	fpsDen int64

	frame int64
	buf   [][2]float64
	done  bool
}

// newPCMSource resamples stream from srcRate to rate when they differ.
func newPCMSource(stream beep.Streamer, srcRate beep.SampleRate, rate, fpsNum, fpsDen int) *pcmSource {
	if int(srcRate) != rate {
		stream = beep.Resample(4, srcRate, beep.SampleRate(rate), stream)
	}
	return &pcmSource{stream: stream, rate: int64(rate), fpsNum: int64(fpsNum), fpsDen: int64(fpsDen)}
}

// frameStart returns the first sample of video frame i.
func (p *pcmSource) frameStart(i int64) int64 {
	return i * p.rate * p.fpsDen / p.fpsNum
}

// Next returns the interleaved stereo samples of the next video frame and
// the chunk's timestamp. ok is false once the stream is exhausted.
func (p *pcmSource) Next() (samples []int16, pts time.Duration, ok bool) {
	if p.done {
		return nil, 0, false
	}
	start, end := p.frameStart(p.frame), p.frameStart(p.frame+1)
	n := int(end - start)
	if cap(p.buf) < n {
		p.buf = make([][2]float64, n)
	}
	buf := p.buf[:n]

	filled := 0
	for filled < n {
		m, more := p.stream.Stream(buf[filled:])
		filled += m
		if !more {
			p.done = true
			break
		}
	}
	if filled == 0 {
		return nil, 0, false
	}

	samples = make([]int16, 2*filled)
	for i, s := range buf[:filled] {
		samples[2*i] = toInt16(s[0])
		samples[2*i+1] = toInt16(s[1])
	}
	pts = time.Duration(start * int64(time.Second) / p.rate)
	p.frame++
	return samples, pts, true
}

// Err reports a decoding error of the underlying stream.
func (p *pcmSource) Err() error { return p.stream.Err() }

func toInt16(v float64) int16 {
	return int16(math.Round(math.Max(-1, math.Min(1, v)) * math.MaxInt16))
}

// frameCount returns the number of video frames covering d.
func frameCount(d time.Duration, fpsNum, fpsDen int) int {
	return int(math.Ceil(d.Seconds() * float64(fpsNum) / float64(fpsDen)))
}
