package spectrum

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gogpu/avis"
	"github.com/gogpu/avis/render"
)

// ErrUnsupportedTarget is returned when a render target cannot fill rectangles.
var ErrUnsupportedTarget = errors.New("spectrum: render target cannot fill rectangles")

// presetExts are the file extensions picked up by the playlist.
var presetExts = []string{".milk", ".ini"}

// Engine is the spectrum engine. It is not safe for concurrent use.
type Engine struct {
	settings avis.EngineSettings
	logger   *slog.Logger
	rng      *rand.Rand

	now    float64
	levels []float64
	energy float64

	preset     *Preset
	fromBG     color.RGBA
	fromBars   color.RGBA
	blending   bool
	blendStart float64

	locked     bool
	period     float64
	lastSwitch float64

	playlist []string
	playIdx  int
}

// Factory returns an engine factory for sessions. A nil logger uses
// [avis.Logger].
func Factory(logger *slog.Logger) avis.EngineFactory {
	return func(settings avis.EngineSettings) (avis.Engine, error) {
		return New(settings, logger)
	}
}

// New creates an engine. With the playlist enabled, presets are collected
// from the preset directory and, unless rotation is locked, the first one
// is shown straight away.
func New(settings avis.EngineSettings, logger *slog.Logger) (*Engine, error) {
	if settings.Width <= 0 || settings.Height <= 0 {
		return nil, fmt.Errorf("spectrum: invalid output size %dx%d", settings.Width, settings.Height)
	}
	if logger == nil {
		logger = avis.Logger()
	}
	e := &Engine{
		settings: settings,
		logger:   logger.With("component", "spectrum"),
		rng:      rand.New(rand.NewPCG(uint64(settings.Width), uint64(settings.Height))),
		preset:   DefaultPreset(),
		locked:   settings.PresetLocked,
		period:   settings.PresetDuration,
	}
	e.levels = make([]float64, e.preset.Count)

	if settings.EnablePlaylist && settings.PresetDir != "" {
		list, err := scanPresets(settings.PresetDir)
		if err != nil {
			e.logger.Warn("spectrum: preset directory unreadable, playlist empty", "dir", settings.PresetDir, "error", err)
		}
		if settings.ShufflePresets {
			e.rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
		}
		e.playlist = list
	}
	if len(e.playlist) > 0 && !e.locked {
		e.advancePlaylist(false)
	}
	e.logger.Debug("spectrum: engine created",
		"width", settings.Width, "height", settings.Height,
		"mesh", fmt.Sprintf("%dx%d", settings.MeshWidth, settings.MeshHeight),
		"playlist", len(e.playlist))
	return e, nil
}

func scanPresets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var list []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if slices.Contains(presetExts, strings.ToLower(filepath.Ext(ent.Name()))) {
			list = append(list, filepath.Join(dir, ent.Name()))
		}
	}
	slices.Sort(list)
	return list, nil
}

// SetFrameTime advances the engine clock and runs auto-rotation.
func (e *Engine) SetFrameTime(seconds float64) {
	e.now = seconds
	if e.blending && e.now-e.blendStart >= e.settings.SoftCutDuration {
		e.blending = false
	}
	if !e.locked && e.period > 0 && len(e.playlist) > 0 && e.now-e.lastSwitch >= e.period {
		e.advancePlaylist(true)
	}
}

// PushAudio updates the bar levels from one frame's PCM and triggers hard
// cuts on strong beats.
func (e *Engine) PushAudio(samples []int16, frames int, layout avis.ChannelLayout) {
	channels := int(layout)
	if channels <= 0 {
		channels = 1
	}
	frames = min(frames, len(samples)/channels)

	n := len(e.levels)
	var total float64
	for i := 0; i < n; i++ {
		lo, hi := i*frames/n, (i+1)*frames/n
		var sum float64
		for f := lo; f < hi; f++ {
			var mono float64
			for c := 0; c < channels; c++ {
				mono += float64(samples[f*channels+c])
			}
			mono /= float64(channels) * 32768
			sum += mono * mono
		}
		total += sum
		level := 0.0
		if hi > lo {
			level = clamp01(math.Sqrt(sum/float64(hi-lo)) * e.settings.BeatSensitivity)
		}
		e.levels[i] = math.Max(level, e.levels[i]*e.preset.Decay)
	}

	rms := 0.0
	if frames > 0 {
		rms = math.Sqrt(total / float64(frames))
	}
	if e.beat(rms) {
		e.logger.Debug("spectrum: hard cut on beat", "rms", rms, "average", e.energy)
		e.advancePlaylist(false)
	}
	e.energy = 0.9*e.energy + 0.1*rms
}

// beat reports whether rms is a hard-cut-worthy jump over the running
// average. Higher hard-cut sensitivity lowers the jump needed.
func (e *Engine) beat(rms float64) bool {
	if !e.settings.HardCutEnabled || e.locked || len(e.playlist) == 0 {
		return false
	}
	if e.now-e.lastSwitch < e.settings.HardCutDuration {
		return false
	}
	threshold := e.energy * (3 - 2*e.settings.HardCutSensitivity)
	return rms > 0.05 && rms > threshold
}

// RenderFrame draws the background and the bars.
func (e *Engine) RenderFrame(target render.Target) error {
	filler, ok := target.(render.RectFiller)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
	bg, bars := e.colors()
	w, h := target.Width(), target.Height()
	if err := filler.FillRect(image.Rect(0, 0, w, h), bg); err != nil {
		return err
	}

	n := len(e.levels)
	barW := w / n
	if barW == 0 {
		barW, n = 1, w
	}
	gap := barW / 8
	for i := 0; i < n; i++ {
		bh := int(math.Round(e.levels[i] * float64(h)))
		if bh == 0 {
			continue
		}
		r := image.Rect(i*barW+gap, h-bh, (i+1)*barW-gap, h)
		if err := filler.FillRect(r, bars); err != nil {
			return err
		}
	}
	return nil
}

// colors returns the background and bar colors, blended during a smooth
// transition.
func (e *Engine) colors() (bg, bars color.RGBA) {
	if !e.blending || e.settings.SoftCutDuration <= 0 {
		return e.preset.Background, e.preset.Bars
	}
	t := clamp01((e.now - e.blendStart) / e.settings.SoftCutDuration)
	return blend(e.fromBG, e.preset.Background, t), blend(e.fromBars, e.preset.Bars, t)
}

// LoadPreset switches to the preset at path.
func (e *Engine) LoadPreset(path string, smooth bool) error {
	p, err := LoadPreset(path)
	if err != nil {
		return err
	}
	e.switchTo(p, smooth)
	return nil
}

func (e *Engine) switchTo(p *Preset, smooth bool) {
	if smooth && e.settings.SoftCutDuration > 0 {
		e.fromBG, e.fromBars = e.colors()
		e.blending = true
		e.blendStart = e.now
	} else {
		e.blending = false
	}
	e.preset = p
	e.lastSwitch = e.now
	if len(e.levels) != p.Count {
		e.levels = make([]float64, p.Count)
	}
	e.logger.Debug("spectrum: preset switched", "preset", p.Name, "smooth", smooth, "time", e.now)
}

// advancePlaylist shows the next playlist preset. Unreadable presets are
// skipped; after one full lap without success the current preset stays.
func (e *Engine) advancePlaylist(smooth bool) {
	for range e.playlist {
		path := e.playlist[e.playIdx]
		e.playIdx = (e.playIdx + 1) % len(e.playlist)
		p, err := LoadPreset(path)
		if err != nil {
			e.logger.Warn("spectrum: skipping preset", "preset", path, "error", err)
			continue
		}
		e.switchTo(p, smooth)
		return
	}
	e.lastSwitch = e.now
}

// LockAutoRotation stops or resumes playlist rotation and hard cuts.
func (e *Engine) LockAutoRotation(locked bool) { e.locked = locked }

// SetAutoRotationPeriod sets the time each playlist preset is shown.
func (e *Engine) SetAutoRotationPeriod(seconds float64) { e.period = seconds }

// OutputSize returns the configured video size.
func (e *Engine) OutputSize() (width, height int) {
	return e.settings.Width, e.settings.Height
}

// Destroy drops the playlist and levels.
func (e *Engine) Destroy() {
	e.playlist = nil
	e.levels = make([]float64, len(e.levels))
}

// Current returns the preset being shown.
func (e *Engine) Current() *Preset { return e.preset }

// Levels returns a copy of the bar levels.
func (e *Engine) Levels() []float64 { return slices.Clone(e.levels) }

// Locked reports whether auto-rotation is locked.
func (e *Engine) Locked() bool { return e.locked }

// Period returns the auto-rotation period.
func (e *Engine) Period() float64 { return e.period }

var _ avis.Engine = (*Engine)(nil)
