package spectrum

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/avis"
	"github.com/gogpu/avis/render"
	"github.com/gogpu/gputypes"
)

func writePreset(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func settings(w, h int) avis.EngineSettings {
	return avis.EngineSettings{
		Width:           w,
		Height:          h,
		BeatSensitivity: 1,
		SoftCutDuration: 2,
		HardCutDuration: 1,
	}
}

func loud(frames int) []int16 {
	s := make([]int16, frames*2)
	for i := range s {
		if (i/2)%2 == 0 {
			s[i] = 30000
		} else {
			s[i] = -30000
		}
	}
	return s
}

func TestNewRejectsInvalidSize(t *testing.T) {
	if _, err := New(settings(0, 10), nil); err == nil {
		t.Error("New accepted zero width")
	}
}

func TestLoadPreset(t *testing.T) {
	dir := t.TempDir()
	path := writePreset(t, dir, "storm.milk", "[preset00]\nfDecay=0.5\nob_r=1\nob_g=0\nob_b=0\nwave_g=1\nbars=8\nzoom=1.01\n")

	p, err := LoadPreset(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "storm" || p.Decay != 0.5 || p.Count != 8 {
		t.Errorf("preset = %+v", p)
	}
	if p.Background != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("background = %v", p.Background)
	}
	if p.Bars.G != 255 {
		t.Errorf("bars = %v", p.Bars)
	}

	flat := writePreset(t, dir, "flat.ini", "bars=4\n")
	if p, err := LoadPreset(flat); err != nil || p.Count != 4 {
		t.Errorf("top-level keys: %+v, %v", p, err)
	}

	bad := writePreset(t, dir, "bad.milk", "[preset00]\nbars=0\n")
	if _, err := LoadPreset(bad); err == nil {
		t.Error("bars=0 accepted")
	}
	if _, err := LoadPreset(filepath.Join(dir, "missing.milk")); err == nil {
		t.Error("missing preset accepted")
	}
}

func TestPushAudioLevels(t *testing.T) {
	e, err := New(settings(64, 32), nil)
	if err != nil {
		t.Fatal(err)
	}
	e.PushAudio(loud(1024), 1024, avis.Stereo)
	for i, l := range e.Levels() {
		if l < 0.8 {
			t.Fatalf("bar %d level %v after loud audio", i, l)
		}
	}

	before := e.Levels()[0]
	e.PushAudio(make([]int16, 2048), 1024, avis.Stereo)
	after := e.Levels()[0]
	if after >= before || after < before*e.Current().Decay-1e-9 {
		t.Errorf("silence: level %v -> %v, want decay by %v", before, after, e.Current().Decay)
	}

	// Fewer frames than bars and an empty push must not panic.
	e.PushAudio(loud(3), 3, avis.Stereo)
	e.PushAudio(nil, 0, avis.Mono)
}

func TestRenderFrame(t *testing.T) {
	e, err := New(settings(48, 20), nil)
	if err != nil {
		t.Fatal(err)
	}
	e.PushAudio(loud(4800), 4800, avis.Stereo)

	target := render.NewPixmapTarget(48, 20)
	if err := e.RenderFrame(target); err != nil {
		t.Fatal(err)
	}
	img := target.Image()
	preset := e.Current()
	if got := img.RGBAAt(0, 0); got != preset.Background {
		t.Errorf("top-left = %v, want background %v", got, preset.Background)
	}
	if got := img.RGBAAt(1, 19); got != preset.Bars {
		t.Errorf("bottom of first bar = %v, want bar color %v", got, preset.Bars)
	}
}

type sizeOnly struct{}

func (sizeOnly) Width() int  { return 4 }
func (sizeOnly) Height() int { return 4 }
func (sizeOnly) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

func TestRenderFrameUnsupportedTarget(t *testing.T) {
	e, err := New(settings(4, 4), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.RenderFrame(sizeOnly{}); !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("err = %v, want ErrUnsupportedTarget", err)
	}
}

func TestPlaylistRotation(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "a.milk", "[preset00]\nob_r=1\n")
	writePreset(t, dir, "b.milk", "[preset00]\nob_g=1\n")
	writePreset(t, dir, "notes.txt", "ignored")

	s := settings(8, 8)
	s.PresetDir = dir
	s.EnablePlaylist = true
	s.PresetDuration = 10
	e, err := New(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Current().Name != "a" {
		t.Fatalf("initial preset = %q, want a", e.Current().Name)
	}

	e.SetFrameTime(5)
	if e.Current().Name != "a" {
		t.Errorf("rotated before the period ended")
	}
	e.SetFrameTime(10)
	if e.Current().Name != "b" {
		t.Errorf("preset after period = %q, want b", e.Current().Name)
	}

	e.LockAutoRotation(true)
	e.SetFrameTime(30)
	if e.Current().Name != "b" {
		t.Errorf("rotated while locked")
	}
}

func TestLockedEngineStartsIdle(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "a.milk", "[preset00]\nob_r=1\n")
	s := settings(8, 8)
	s.PresetDir = dir
	s.EnablePlaylist = true
	s.PresetLocked = true
	e, err := New(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Current().Name != "idle" {
		t.Errorf("locked engine loaded %q", e.Current().Name)
	}
}

func TestSmoothTransitionBlends(t *testing.T) {
	dir := t.TempDir()
	path := writePreset(t, dir, "white.milk", "[preset00]\nob_r=1\nob_g=1\nob_b=1\n")
	e, err := New(settings(4, 4), nil)
	if err != nil {
		t.Fatal(err)
	}
	start := e.Current().Background

	e.SetFrameTime(10)
	if err := e.LoadPreset(path, true); err != nil {
		t.Fatal(err)
	}
	e.SetFrameTime(11) // halfway through a 2 s soft cut
	bg, _ := e.colors()
	if bg.R <= start.R || bg.R >= 255 {
		t.Errorf("mid-blend background %v, want between %v and white", bg, start)
	}

	e.SetFrameTime(12)
	if bg, _ := e.colors(); bg != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("blend did not finish: %v", bg)
	}

	if err := e.LoadPreset(path, false); err != nil {
		t.Fatal(err)
	}
	if e.blending {
		t.Error("abrupt switch started a blend")
	}
}

func TestHardCutOnBeat(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "a.milk", "[preset00]\nob_r=1\n")
	writePreset(t, dir, "b.milk", "[preset00]\nob_g=1\n")
	s := settings(8, 8)
	s.PresetDir = dir
	s.EnablePlaylist = true
	s.HardCutEnabled = true
	s.HardCutSensitivity = 1
	e, err := New(s, nil)
	if err != nil {
		t.Fatal(err)
	}

	quiet := make([]int16, 512)
	for i := 0; i < 20; i++ {
		e.SetFrameTime(float64(i) * 0.1)
		e.PushAudio(quiet, 256, avis.Stereo)
	}
	e.SetFrameTime(2)
	e.PushAudio(loud(256), 256, avis.Stereo)
	if e.Current().Name != "b" {
		t.Errorf("preset after beat = %q, want b", e.Current().Name)
	}
	if e.blending {
		t.Error("hard cut blended")
	}
}

func TestRotationControls(t *testing.T) {
	e, err := New(settings(4, 4), nil)
	if err != nil {
		t.Fatal(err)
	}
	e.LockAutoRotation(true)
	e.SetAutoRotationPeriod(999999)
	if !e.Locked() || e.Period() != 999999 {
		t.Errorf("locked=%v period=%v", e.Locked(), e.Period())
	}
	if w, h := e.OutputSize(); w != 4 || h != 4 {
		t.Errorf("OutputSize = %dx%d", w, h)
	}
	e.Destroy()
}
