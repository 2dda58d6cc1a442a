package avis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.PresetDuration != 0 || cfg.PresetLocked || !cfg.AsyncReadback || !cfg.FlipVertical {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Error("missing file should yield the defaults")
	}

	path := filepath.Join(dir, "avis.yaml")
	data := `
preset: /srv/presets
timeline-path: /srv/set.ini
beat-sensitivity: 2.5
preset-duration: 30
mesh-size: 64x48
shuffle-presets: false
drift-tolerance: 250ms
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PresetDir != "/srv/presets" || cfg.TimelinePath != "/srv/set.ini" {
		t.Errorf("paths = %q, %q", cfg.PresetDir, cfg.TimelinePath)
	}
	if cfg.BeatSensitivity != 2.5 || cfg.PresetDuration != 30 || cfg.ShufflePresets {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.DriftTolerance != 250*time.Millisecond {
		t.Errorf("DriftTolerance = %v", cfg.DriftTolerance)
	}
	if cfg.SoftCutDuration != 3 || !cfg.EnablePlaylist {
		t.Error("omitted keys should keep their defaults")
	}

	if err := os.WriteFile(path, []byte("easter-egg: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("out of range: err = %v, want ErrInvalidConfig", err)
	}

	if err := os.WriteFile(path, []byte("beat-sensitivity: [1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"beat upper bound", func(c *Config) { c.BeatSensitivity = 5 }, true},
		{"beat too high", func(c *Config) { c.BeatSensitivity = 5.1 }, false},
		{"negative hard cut", func(c *Config) { c.HardCutDuration = -1 }, false},
		{"hard cut sensitivity", func(c *Config) { c.HardCutSensitivity = 1.5 }, false},
		{"soft cut too long", func(c *Config) { c.SoftCutDuration = 1e6 }, false},
		{"preset duration max", func(c *Config) { c.PresetDuration = 999999 }, true},
		{"easter egg", func(c *Config) { c.EasterEgg = -0.1 }, false},
		{"mesh", func(c *Config) { c.MeshSize = "big" }, false},
		{"drift", func(c *Config) { c.DriftTolerance = -time.Second }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseMeshSize(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
		ok   bool
	}{
		{"48,32", 48, 32, true},
		{"64x48", 64, 48, true},
		{" 32 , 24 ", 32, 24, true},
		{"0,10", 0, 0, false},
		{"10", 0, 0, false},
		{"a,b", 0, 0, false},
		{"1,2,3", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		w, h, err := ParseMeshSize(tt.in)
		if tt.ok != (err == nil) || w != tt.w || h != tt.h {
			t.Errorf("ParseMeshSize(%q) = %d, %d, %v", tt.in, w, h, err)
		}
	}
}

func TestForceHeadless(t *testing.T) {
	cfg := DefaultConfig()
	for _, v := range []string{"1", "true", "YES", "on"} {
		t.Setenv(HeadlessEnv, v)
		if !cfg.ForceHeadless() {
			t.Errorf("%s=%q should force headless", HeadlessEnv, v)
		}
	}
	t.Setenv(HeadlessEnv, "0")
	if cfg.ForceHeadless() {
		t.Error("0 should not force headless")
	}
	cfg.Headless = true
	if !cfg.ForceHeadless() {
		t.Error("config flag should force headless")
	}
}

func TestEngineSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PresetDir = "/p"
	cfg.MeshSize = "64x40"
	s := cfg.EngineSettings(VideoInfo{Width: 640, Height: 360, FPSNum: 30, FPSDen: 1})
	if s.PresetDir != "/p" || s.MeshWidth != 64 || s.MeshHeight != 40 {
		t.Errorf("settings = %+v", s)
	}
	if s.Width != 640 || s.Height != 360 || s.FPS != 30 {
		t.Errorf("geometry = %dx%d at %g", s.Width, s.Height, s.FPS)
	}
}
