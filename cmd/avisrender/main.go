// Command avisrender renders an audio file into visualizer video.
//
// Frames are written as raw RGBA (or ABGR) to a file or a pipe, or
// encoded together with the source audio by ffmpeg:
//
//	avisrender --timeline set.ini --preset-dir presets --encode out.mp4 song.mp3
//	avisrender --size 640x360 --output - song.wav | ffplay -f rawvideo -pixel_format rgba -video_size 640x360 -
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/avis"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

type options struct {
	configPath string
	presetDir  string
	textureDir string
	timeline   string
	backend    string
	size       string
	fps        string
	format     string
	rate       int

	output     string
	encode     string
	thumbDir   string
	thumbEvery float64
	thumbWidth int

	presetDuration  float64
	beatSensitivity float64
	meshSize        string
	locked          bool
	syncReadback    bool

	noProgress bool
	logLevel   string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "avisrender [flags] <audio-file>",
	Short: "Render an audio file into visualizer video",
	Long: `avisrender steps a visualizer session over a WAV or MP3 file, one video
frame per slice of audio, switching presets along an optional timeline.

Output is raw video (--output), an ffmpeg encode with the audio muxed in
(--encode), PNG thumbnails (--thumbnails), or any combination.`,
	Version:       Version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRender,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	f.StringVarP(&opts.presetDir, "preset-dir", "p", "", "preset directory (relative timeline presets resolve against it)")
	f.StringVar(&opts.textureDir, "texture-dir", "", "texture directory handed to the engine")
	f.StringVarP(&opts.timeline, "timeline", "t", "", "preset timeline (.ini)")
	f.StringVarP(&opts.backend, "backend", "b", "soft", "render backend: soft, opengl or wgpu")
	f.StringVarP(&opts.size, "size", "s", "1280x720", "video size WxH")
	f.StringVar(&opts.fps, "fps", "30", "frame rate, integer or N/D")
	f.StringVar(&opts.format, "format", "rgba", "pixel format: rgba or abgr")
	f.IntVar(&opts.rate, "rate", 44100, "audio sample rate fed to the engine")

	f.StringVarP(&opts.output, "output", "o", "", "raw video output file, - for stdout")
	f.StringVarP(&opts.encode, "encode", "e", "", "encode to this file with ffmpeg")
	f.StringVar(&opts.thumbDir, "thumbnails", "", "directory for PNG thumbnails")
	f.Float64Var(&opts.thumbEvery, "thumb-every", 10, "seconds between thumbnails")
	f.IntVar(&opts.thumbWidth, "thumb-width", 320, "thumbnail width in pixels")

	f.Float64Var(&opts.presetDuration, "preset-duration", 0, "seconds per preset without a timeline (0 = never rotate)")
	f.Float64Var(&opts.beatSensitivity, "beat-sensitivity", 1, "beat sensitivity (0-5)")
	f.StringVar(&opts.meshSize, "mesh-size", "48,32", "engine mesh size W,H or WxH")
	f.BoolVar(&opts.locked, "preset-locked", false, "lock the engine's own preset rotation")
	f.BoolVar(&opts.syncReadback, "sync-readback", false, "disable asynchronous pixel readback")

	f.BoolVar(&opts.noProgress, "no-progress", false, "hide the progress bar")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "avisrender:", err)
		os.Exit(1)
	}
}

// loadConfig reads --config and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (avis.Config, error) {
	cfg := avis.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = avis.LoadConfig(opts.configPath); err != nil {
			return cfg, err
		}
	}
	f := cmd.Flags()
	if f.Changed("preset-dir") {
		cfg.PresetDir = opts.presetDir
	}
	if f.Changed("texture-dir") {
		cfg.TextureDir = opts.textureDir
	}
	if f.Changed("timeline") {
		cfg.TimelinePath = opts.timeline
	}
	if f.Changed("preset-duration") {
		cfg.PresetDuration = opts.presetDuration
	}
	if f.Changed("beat-sensitivity") {
		cfg.BeatSensitivity = opts.beatSensitivity
	}
	if f.Changed("mesh-size") {
		cfg.MeshSize = opts.meshSize
	}
	if f.Changed("preset-locked") {
		cfg.PresetLocked = opts.locked
	}
	if f.Changed("sync-readback") {
		cfg.AsyncReadback = !opts.syncReadback
	}
	return cfg, cfg.Validate()
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// parseSize parses "WxH".
func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	return w, h, nil
}

// parseFPS parses "30" or "30000/1001".
func parseFPS(s string) (num, den int, err error) {
	ns, ds, frac := strings.Cut(s, "/")
	num, err = strconv.Atoi(ns)
	if err == nil && frac {
		den, err = strconv.Atoi(ds)
	} else if err == nil {
		den = 1
	}
	if err != nil || num <= 0 || den <= 0 {
		return 0, 0, fmt.Errorf("invalid frame rate %q", s)
	}
	return num, den, nil
}

var errNoSink = errors.New("nothing to write: set --output, --encode or --thumbnails")
