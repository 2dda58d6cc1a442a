package avis

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/avis/clock"
	"github.com/gogpu/avis/timeline"
	"github.com/google/uuid"
)

type timelineSwap struct {
	timeline *timeline.Timeline
	path     string
}

// Session is one visualizer stage: it turns timestamped PCM into video
// frames, driving preset changes from an optional timeline.
//
// Start, Render and Stop must be called from the goroutine that owns the
// output's graphics context. SetTimelinePath may be called from any
// goroutine; the new timeline is installed at the next Start or Render.
type Session struct {
	id     string
	cfg    Config
	opts   sessionOptions
	logger *slog.Logger

	scheduler *timeline.Scheduler
	clock     *clock.Clock
	engine    Engine

	audio         AudioInfo
	video         VideoInfo
	configured    bool
	bytesPerFrame int
	frames        uint64

	mu      sync.Mutex
	pending *timelineSwap
}

// NewSession validates cfg and returns a stopped session. A timeline named
// in cfg is loaded immediately; a timeline that fails to load is logged and
// the engine keeps its own preset rotation.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}
	base := o.logger
	if base == nil {
		base = Logger()
	}
	id := uuid.NewString()
	logger := base.With("session", id)

	s := &Session{
		id:        id,
		cfg:       cfg,
		opts:      o,
		logger:    logger,
		scheduler: timeline.NewScheduler(timeline.Resolver{BaseDir: cfg.PresetDir}, logger.With("component", "timeline")),
		clock:     clock.New(cfg.DriftTolerance, logger.With("component", "clock")),
	}
	if cfg.TimelinePath != "" {
		s.SetTimelinePath(cfg.TimelinePath)
	}
	return s, nil
}

// ID returns the session's unique identifier, attached to every log line.
func (s *Session) ID() string { return s.id }

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Running reports whether an engine is live.
func (s *Session) Running() bool { return s.engine != nil }

// Frames returns the number of frames rendered since Start.
func (s *Session) Frames() uint64 { return s.frames }

// SetTimelinePath loads the timeline at path and queues it for
// installation. An empty path, or a file that fails to load, clears the
// timeline so the engine returns to the user's rotation settings.
func (s *Session) SetTimelinePath(path string) {
	var tl *timeline.Timeline
	if path != "" {
		var err error
		tl, err = timeline.Load(path, s.logger.With("component", "timeline"))
		if err != nil {
			s.logger.Warn("timeline unavailable, using engine preset rotation", "path", path, "error", err)
			tl = nil
		}
	}
	s.mu.Lock()
	s.pending = &timelineSwap{timeline: tl, path: path}
	s.mu.Unlock()
}

// TimelineActive reports whether a usable timeline is installed or queued.
func (s *Session) TimelineActive() bool {
	s.mu.Lock()
	p := s.pending
	s.mu.Unlock()
	if p != nil {
		return p.timeline.Len() > 0
	}
	return s.scheduler.Active()
}

// TimelineState returns the scheduling state of the installed timeline.
func (s *Session) TimelineState() timeline.State { return s.scheduler.State() }

// Setup records the negotiated stream formats.
func (s *Session) Setup(audio AudioInfo, video VideoInfo) error {
	if audio.Rate <= 0 || (audio.Channels != int(Mono) && audio.Channels != int(Stereo)) {
		return fmt.Errorf("%w: audio %d Hz, %d channels", ErrUnsupportedFormat, audio.Rate, audio.Channels)
	}
	if video.Width <= 0 || video.Height <= 0 || video.FPSNum <= 0 || video.FPSDen <= 0 {
		return fmt.Errorf("%w: video %dx%d at %d/%d fps", ErrUnsupportedFormat,
			video.Width, video.Height, video.FPSNum, video.FPSDen)
	}
	if video.Format != PixelFormatRGBA && video.Format != PixelFormatABGR {
		return fmt.Errorf("%w: pixel format %v", ErrUnsupportedFormat, video.Format)
	}
	if s.engine != nil && (video.Width != s.video.Width || video.Height != s.video.Height) {
		s.logger.Warn("video size changed while running, takes effect after restart",
			"width", video.Width, "height", video.Height)
	}

	s.audio, s.video = audio, video
	s.bytesPerFrame = audio.Channels * audio.Rate * 2 * video.FPSDen / video.FPSNum
	s.configured = true
	s.logger.Debug("stream formats negotiated",
		"rate", audio.Rate, "channels", audio.Channels,
		"width", video.Width, "height", video.Height, "fps", video.FPS(),
		"format", video.Format.String(), "audio_bytes_per_frame", s.bytesPerFrame)
	return nil
}

// AudioBytesPerFrame returns the PCM bytes that cover one video frame.
func (s *Session) AudioBytesPerFrame() int { return s.bytesPerFrame }

// Start creates the engine, applies the user's rotation settings, preloads
// the first timeline segment and activates the timeline. Starting a
// running session does nothing. If the engine cannot be created the
// session stays stopped.
func (s *Session) Start() error {
	if s.engine != nil {
		return nil
	}
	if !s.configured {
		return ErrNotConfigured
	}
	if s.opts.factory == nil {
		return ErrNoEngine
	}
	if s.opts.output == nil {
		return ErrNoOutput
	}

	eng, err := s.opts.factory(s.cfg.EngineSettings(s.video))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngineInit, err)
	}
	s.engine = eng
	s.frames = 0
	s.clock.Reset()
	s.restoreRotation()
	s.scheduler.Attach(eng)

	s.installPending()
	if s.scheduler.Active() {
		if err := s.scheduler.Preload(); err != nil {
			s.logger.Warn("first segment preload failed", "error", err)
		}
		s.activate(0)
	}
	s.logger.Info("session started", "headless", s.opts.output.Headless(), "timeline", s.scheduler.Active())
	return nil
}

// Render produces one video frame from one audio buffer. The order is
// fixed: elapsed time from the audio clock, engine frame time, timeline
// advance, PCM upload, render, readback.
func (s *Session) Render(audio AudioBuffer, frame *VideoFrame) error {
	if s.engine == nil {
		return ErrNotStarted
	}
	if err := frame.Validate(); err != nil {
		return err
	}

	elapsed := s.clock.Audio(audio.PTS)
	s.clock.Video(frame.PTS)
	s.clock.Check()

	s.engine.SetFrameTime(elapsed)
	if s.applyPending(elapsed) {
		s.logger.Debug("timeline replaced", "elapsed", elapsed)
	}
	s.scheduler.Advance(elapsed)

	channels := audio.Channels
	if channels <= 0 {
		channels = s.audio.Channels
	}
	layout := Stereo
	if channels == int(Mono) {
		layout = Mono
	}
	s.engine.PushAudio(audio.Samples, len(audio.Samples)/channels, layout)

	width, height := s.engine.OutputSize()
	target, err := s.opts.output.Prepare(width, height)
	if err != nil {
		return fmt.Errorf("prepare render target: %w", err)
	}
	if err := s.engine.RenderFrame(target); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	if err := s.opts.output.Read(frame); err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	s.frames++
	return nil
}

// Stop releases the output's GPU resources and the engine, and resets the
// timeline position and clock. The installed timeline is kept for the next
// Start. Stop is idempotent.
func (s *Session) Stop() {
	if s.engine == nil {
		return
	}
	s.opts.output.Release()
	s.engine.Destroy()
	s.engine = nil
	s.scheduler.Detach()
	s.clock.Reset()
	s.logger.Info("session stopped", "frames", s.frames)
}

// restoreRotation applies the user's lock and preset duration. A zero
// duration means presets never rotate on their own.
func (s *Session) restoreRotation() {
	if s.engine == nil {
		return
	}
	s.engine.LockAutoRotation(s.cfg.PresetLocked)
	period := s.cfg.PresetDuration
	if period <= 0 {
		period = timeline.UnboundedPresetDuration
	}
	s.engine.SetAutoRotationPeriod(period)
}

func (s *Session) activate(elapsed float64) {
	if err := s.scheduler.Activate(elapsed); err != nil {
		s.logger.Warn("timeline activation failed", "error", err)
		s.restoreRotation()
	}
}

// installPending installs a queued timeline without activating it.
func (s *Session) installPending() bool {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return false
	}
	s.cfg.TimelinePath = p.path
	s.scheduler.SetTimeline(p.timeline)
	return true
}

// applyPending installs a queued timeline while running. Clearing the
// timeline hands rotation back to the user's settings.
func (s *Session) applyPending(elapsed float64) bool {
	if !s.installPending() {
		return false
	}
	if !s.scheduler.Active() {
		s.restoreRotation()
		return true
	}
	s.activate(elapsed)
	return true
}
