package avis

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HeadlessEnv forces headless rendering when set to a true value.
const HeadlessEnv = "AVIS_HEADLESS"

// Config holds the user-facing settings of a visualizer session. The YAML
// keys match the stage's property names.
type Config struct {
	PresetDir    string `yaml:"preset"`
	TextureDir   string `yaml:"texture-dir"`
	TimelinePath string `yaml:"timeline-path"`

	BeatSensitivity    float64 `yaml:"beat-sensitivity"`
	HardCutDuration    float64 `yaml:"hard-cut-duration"`
	HardCutEnabled     bool    `yaml:"hard-cut-enabled"`
	HardCutSensitivity float64 `yaml:"hard-cut-sensitivity"`
	SoftCutDuration    float64 `yaml:"soft-cut-duration"`
	PresetDuration     float64 `yaml:"preset-duration"`
	MeshSize           string  `yaml:"mesh-size"`
	AspectCorrection   bool    `yaml:"aspect-correction"`
	EasterEgg          float64 `yaml:"easter-egg"`
	PresetLocked       bool    `yaml:"preset-locked"`
	EnablePlaylist     bool    `yaml:"enable-playlist"`
	ShufflePresets     bool    `yaml:"shuffle-presets"`

	Headless       bool          `yaml:"headless"`
	AsyncReadback  bool          `yaml:"async-readback"`
	FlipVertical   bool          `yaml:"flip-vertical"`
	DriftTolerance time.Duration `yaml:"drift-tolerance"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		BeatSensitivity:    1.0,
		HardCutDuration:    3.0,
		HardCutSensitivity: 1.0,
		SoftCutDuration:    3.0,
		MeshSize:           "48,32",
		AspectCorrection:   true,
		EnablePlaylist:     true,
		ShufflePresets:     true,
		AsyncReadback:      true,
		FlipVertical:       true,
		DriftTolerance:     500 * time.Millisecond,
	}
}

// LoadConfig reads a YAML file over the defaults. Keys the file omits keep
// their default values. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value against its allowed range.
func (c Config) Validate() error {
	ranges := []struct {
		name     string
		v        float64
		min, max float64
	}{
		{"beat-sensitivity", c.BeatSensitivity, 0, 5},
		{"hard-cut-duration", c.HardCutDuration, 0, 999999},
		{"hard-cut-sensitivity", c.HardCutSensitivity, 0, 1},
		{"soft-cut-duration", c.SoftCutDuration, 0, 999999},
		{"preset-duration", c.PresetDuration, 0, 999999},
		{"easter-egg", c.EasterEgg, 0, 1},
	}
	for _, r := range ranges {
		if r.v < r.min || r.v > r.max {
			return fmt.Errorf("%w: %s=%g outside [%g, %g]", ErrInvalidConfig, r.name, r.v, r.min, r.max)
		}
	}
	if _, _, err := ParseMeshSize(c.MeshSize); err != nil {
		return err
	}
	if c.DriftTolerance < 0 {
		return fmt.Errorf("%w: negative drift-tolerance", ErrInvalidConfig)
	}
	return nil
}

// ParseMeshSize parses "W,H" or "WxH".
func ParseMeshSize(s string) (width, height int, err error) {
	sep := ","
	if !strings.Contains(s, sep) {
		sep = "x"
	}
	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: mesh-size %q", ErrInvalidConfig, s)
	}
	width, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	height, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: mesh-size %q", ErrInvalidConfig, s)
	}
	return width, height, nil
}

// ForceHeadless reports whether headless rendering is forced by the
// configuration or by the AVIS_HEADLESS environment variable.
func (c Config) ForceHeadless() bool {
	if c.Headless {
		return true
	}
	v, ok := os.LookupEnv(HeadlessEnv)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// EngineSettings derives the engine settings for a negotiated video stream.
func (c Config) EngineSettings(video VideoInfo) EngineSettings {
	meshW, meshH, err := ParseMeshSize(c.MeshSize)
	if err != nil {
		meshW, meshH, _ = ParseMeshSize(DefaultConfig().MeshSize)
	}
	return EngineSettings{
		PresetDir:          c.PresetDir,
		TextureDir:         c.TextureDir,
		BeatSensitivity:    c.BeatSensitivity,
		HardCutDuration:    c.HardCutDuration,
		HardCutEnabled:     c.HardCutEnabled,
		HardCutSensitivity: c.HardCutSensitivity,
		SoftCutDuration:    c.SoftCutDuration,
		PresetDuration:     c.PresetDuration,
		MeshWidth:          meshW,
		MeshHeight:         meshH,
		AspectCorrection:   c.AspectCorrection,
		EasterEgg:          c.EasterEgg,
		PresetLocked:       c.PresetLocked,
		EnablePlaylist:     c.EnablePlaylist,
		ShufflePresets:     c.ShufflePresets,
		Width:              video.Width,
		Height:             video.Height,
		FPS:                video.FPS(),
	}
}
