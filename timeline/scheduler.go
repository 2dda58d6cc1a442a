package timeline

import (
	"fmt"
	"log/slog"
)

// UnboundedPresetDuration is the auto-rotation period used to keep the
// engine from rotating presets on its own.
const UnboundedPresetDuration = 999999.0

// Loader is the part of a visualization engine the scheduler drives.
type Loader interface {
	// LoadPreset switches to the preset at path, blending when smooth.
	LoadPreset(path string, smooth bool) error
	// LockAutoRotation stops or resumes the engine's own preset rotation.
	LockAutoRotation(locked bool)
	// SetAutoRotationPeriod sets the engine's preset display time in seconds.
	SetAutoRotationPeriod(seconds float64)
}

// State is the scheduling state of a [Scheduler].
type State int

const (
	// StateInactive means no timeline drives the engine.
	StateInactive State = iota
	// StateActivating is held while activation takes over the engine.
	StateActivating
	// StateSegmentActive means the timeline drives the engine. The current
	// segment may still be none when the first segment starts later.
	StateSegmentActive
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateActivating:
		return "activating"
	case StateSegmentActive:
		return "segment-active"
	default:
		return "inactive"
	}
}

// Scheduler switches engine presets as playback time crosses segment
// boundaries.
type Scheduler struct {
	resolver Resolver
	logger   *slog.Logger
	loader   Loader

	timeline   *Timeline
	current    int
	activating bool
	activated  bool
	preloaded  bool
}

// NewScheduler returns an inactive scheduler.
func NewScheduler(resolver Resolver, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{resolver: resolver, logger: logger, current: -1}
}

// SetTimeline installs t, or clears the timeline when t is nil. Any
// previous activation is dropped; the caller re-activates when an engine
// is attached.
func (s *Scheduler) SetTimeline(t *Timeline) {
	if t != nil && t.Len() == 0 {
		t = nil
	}
	s.timeline = t
	s.current = -1
	s.activating = false
	s.activated = false
	s.preloaded = false
}

// Timeline returns the installed timeline, or nil.
func (s *Scheduler) Timeline() *Timeline { return s.timeline }

// Active reports whether a usable timeline is installed.
func (s *Scheduler) Active() bool { return s.timeline.Len() > 0 }

// State returns the scheduling state.
func (s *Scheduler) State() State {
	switch {
	case !s.Active():
		return StateInactive
	case s.activating:
		return StateActivating
	case s.activated:
		return StateSegmentActive
	default:
		return StateInactive
	}
}

// Current returns the index of the segment last handed to the engine.
func (s *Scheduler) Current() (int, bool) {
	return s.current, s.current >= 0
}

// Attach sets the engine the scheduler drives.
func (s *Scheduler) Attach(l Loader) { s.loader = l }

// Detach forgets the engine and all per-run state. The timeline is kept.
func (s *Scheduler) Detach() {
	s.loader = nil
	s.current = -1
	s.activating = false
	s.activated = false
	s.preloaded = false
}

// Preload loads the first segment's preset with an abrupt switch so the
// engine never shows its idle content before the first frame. It is a
// no-op without a timeline or engine, and when activation would reject
// the timeline anyway.
func (s *Scheduler) Preload() error {
	if !s.Active() || s.loader == nil || s.resolver.NeedsBase(s.timeline) {
		return nil
	}
	first := s.timeline.At(0)
	path, ok := s.resolver.Resolve(first.Preset)
	if !ok {
		s.logger.Warn("timeline: first segment has no preset, skipping preload", "group", first.Name)
		return nil
	}
	if err := s.loader.LoadPreset(path, false); err != nil {
		s.logger.Warn("timeline: preload failed", "preset", path, "error", err)
		return fmt.Errorf("timeline: preload %s: %w", path, err)
	}
	s.current = 0
	s.preloaded = true
	s.logger.Debug("timeline: preloaded first segment", "preset", path)
	return nil
}

// Activate hands preset control to the timeline at elapsed seconds. It
// locks the engine's own rotation and loads the segment due at elapsed,
// unless the first segment was preloaded and activation happens at the
// start of playback.
//
// A timeline naming relative presets with no preset directory is
// rejected: the scheduler resets to inactive and ErrRelativePreset is
// returned so the caller can restore its own rotation settings.
func (s *Scheduler) Activate(elapsed float64) error {
	if !s.Active() {
		return nil
	}
	if s.loader == nil {
		return ErrNoLoader
	}
	if s.resolver.NeedsBase(s.timeline) {
		s.logger.Warn("timeline: relative preset paths need a preset directory, timeline disabled",
			"source", s.timeline.Source())
		s.SetTimeline(nil)
		return ErrRelativePreset
	}

	s.activating = true
	s.loader.LockAutoRotation(true)
	s.loader.SetAutoRotationPeriod(UnboundedPresetDuration)

	if !(s.preloaded && s.current == 0 && elapsed <= Epsilon) {
		s.current = -1
		s.activated = true
		s.Advance(elapsed)
	}
	s.activated = true
	s.activating = false
	s.logger.Info("timeline: active", "segments", s.timeline.Len(), "source", s.timeline.Source())
	return nil
}

// Advance switches the engine to the segment due at elapsed seconds and
// reports whether a switch happened. Calling it again with the same time
// does nothing. A failed preset load is logged and the segment still
// counts as current, so the load is not retried every frame.
func (s *Scheduler) Advance(elapsed float64) bool {
	if !s.Active() || s.loader == nil || !s.activated {
		return false
	}
	next := s.timeline.Lookup(elapsed, s.current)
	if next < 0 || next == s.current {
		return false
	}

	e := s.timeline.At(next)
	path, ok := s.resolver.Resolve(e.Preset)
	if !ok {
		s.logger.Warn("timeline: segment has no preset", "group", e.Name)
		s.current = next
		return false
	}
	transition := e.Transition()
	if err := s.loader.LoadPreset(path, transition == TransitionSmooth); err != nil {
		s.logger.Warn("timeline: preset load failed", "group", e.Name, "preset", path, "error", err)
	} else {
		s.logger.Debug("timeline: switched segment",
			"index", next, "group", e.Name, "preset", path,
			"transition", transition.String(), "elapsed", elapsed)
	}
	s.current = next
	return true
}
