package spectrum

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	defaultBars  = 24
	maxBars      = 256
	defaultDecay = 0.9
)

// Preset is the subset of a preset the engine renders.
type Preset struct {
	Name       string
	Background color.RGBA
	Bars       color.RGBA
	Decay      float64
	Count      int
}

// DefaultPreset is shown before any preset is loaded.
func DefaultPreset() *Preset {
	return &Preset{
		Name:       "idle",
		Background: color.RGBA{R: 8, G: 8, B: 16, A: 255},
		Bars:       color.RGBA{R: 90, G: 200, B: 255, A: 255},
		Decay:      defaultDecay,
		Count:      defaultBars,
	}
}

// LoadPreset parses the preset file at path. Keys may sit in a
// [preset00] group or at the top of the file.
func LoadPreset(path string) (*Preset, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("spectrum: load preset %s: %w", path, err)
	}
	sec := f.Section("preset00")
	if len(sec.Keys()) == 0 {
		sec = f.Section(ini.DefaultSection)
	}

	p := DefaultPreset()
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p.Background = rgb(sec, "ob", p.Background)
	p.Bars = rgb(sec, "wave", p.Bars)
	if sec.HasKey("fDecay") {
		d, err := sec.Key("fDecay").Float64()
		if err != nil || d < 0 || d > 1 {
			return nil, fmt.Errorf("spectrum: preset %s: invalid fDecay", path)
		}
		p.Decay = d
	}
	if sec.HasKey("bars") {
		n, err := sec.Key("bars").Int()
		if err != nil || n <= 0 || n > maxBars {
			return nil, fmt.Errorf("spectrum: preset %s: invalid bars", path)
		}
		p.Count = n
	}
	return p, nil
}

// rgb reads prefix_r, prefix_g and prefix_b as 0..1 channel values.
func rgb(sec *ini.Section, prefix string, fallback color.RGBA) color.RGBA {
	c := fallback
	channels := []*uint8{&c.R, &c.G, &c.B}
	for i, suffix := range []string{"_r", "_g", "_b"} {
		key := prefix + suffix
		if !sec.HasKey(key) {
			continue
		}
		v, err := sec.Key(key).Float64()
		if err != nil {
			continue
		}
		*channels[i] = uint8(math.Round(clamp01(v) * 255))
	}
	return c
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// blend mixes a toward b by t in [0, 1].
func blend(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
