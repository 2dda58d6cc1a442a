// Package clock reconciles audio and video buffer timestamps into one
// playback timeline.
//
// Each stream is anchored at its first timestamped buffer. The audio
// stream is authoritative for scheduling: preset switches follow what the
// listener hears. Elapsed values never move backwards, and buffers without
// a timestamp reuse the last value. Video is tracked alongside so drift
// between the two can be reported.
package clock

import (
	"log/slog"
	"math"
	"time"
)

// None marks a buffer without a presentation timestamp.
const None time.Duration = -1

// DefaultDriftTolerance is the audio/video offset above which drift is
// reported.
const DefaultDriftTolerance = 500 * time.Millisecond

type stream struct {
	first    time.Duration
	anchored bool
	last     float64
}

func (s *stream) elapsed(pts time.Duration) float64 {
	if pts < 0 {
		return s.last
	}
	if !s.anchored {
		s.first = pts
		s.anchored = true
		s.last = 0
		return 0
	}
	e := (pts - s.first).Seconds()
	if e < s.last {
		return s.last
	}
	s.last = e
	return e
}

// Clock tracks elapsed playback time for an audio and a video stream.
// It is not safe for concurrent use.
type Clock struct {
	audio     stream
	video     stream
	tolerance float64
	drifting  bool
	logger    *slog.Logger
}

// New returns a clock reporting drift above tolerance. A non-positive
// tolerance selects DefaultDriftTolerance.
func New(tolerance time.Duration, logger *slog.Logger) *Clock {
	if tolerance <= 0 {
		tolerance = DefaultDriftTolerance
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Clock{tolerance: tolerance.Seconds(), logger: logger}
}

// Audio records an audio buffer timestamp and returns the elapsed
// playback time in seconds. This is the value presets are scheduled on.
func (c *Clock) Audio(pts time.Duration) float64 { return c.audio.elapsed(pts) }

// Video records a video frame timestamp and returns its elapsed time in
// seconds.
func (c *Clock) Video(pts time.Duration) float64 { return c.video.elapsed(pts) }

// Elapsed returns the last audio elapsed time.
func (c *Clock) Elapsed() float64 { return c.audio.last }

// Drift returns video elapsed minus audio elapsed. It is zero until both
// streams are anchored.
func (c *Clock) Drift() float64 {
	if !c.audio.anchored || !c.video.anchored {
		return 0
	}
	return c.video.last - c.audio.last
}

// Check compares the streams and reports whether they have drifted apart
// by more than the tolerance. Only changes of state are logged.
func (c *Clock) Check() bool {
	d := c.Drift()
	drifting := math.Abs(d) > c.tolerance
	if drifting != c.drifting {
		if drifting {
			c.logger.Warn("clock: audio and video drifted apart",
				"drift", d, "tolerance", c.tolerance,
				"audio", c.audio.last, "video", c.video.last)
		} else {
			c.logger.Info("clock: audio and video back in sync", "drift", d)
		}
		c.drifting = drifting
	}
	return drifting
}

// Reset forgets both anchors. The next timestamped buffers start a new
// timeline at zero.
func (c *Clock) Reset() {
	c.audio = stream{}
	c.video = stream{}
	c.drifting = false
}
