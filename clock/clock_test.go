package clock

import (
	"testing"
	"time"
)

func TestAudioElapsed(t *testing.T) {
	c := New(0, nil)
	steps := []struct {
		pts  time.Duration
		want float64
	}{
		{10 * time.Second, 0},
		{10*time.Second + 500*time.Millisecond, 0.5},
		{None, 0.5},
		{9 * time.Second, 0.5},
		{12 * time.Second, 2},
	}
	for i, s := range steps {
		if got := c.Audio(s.pts); got != s.want {
			t.Errorf("step %d: Audio(%v) = %v, want %v", i, s.pts, got, s.want)
		}
	}
	if c.Elapsed() != 2 {
		t.Errorf("Elapsed = %v", c.Elapsed())
	}
}

func TestUntimestampedBeforeAnchor(t *testing.T) {
	c := New(0, nil)
	if got := c.Audio(None); got != 0 {
		t.Errorf("Audio(None) = %v, want 0", got)
	}
	if got := c.Audio(3 * time.Second); got != 0 {
		t.Errorf("first timestamp should anchor at 0, got %v", got)
	}
}

func TestDriftCheck(t *testing.T) {
	c := New(100*time.Millisecond, nil)
	c.Audio(0)
	c.Video(0)
	if c.Check() {
		t.Error("aligned streams reported drifting")
	}

	c.Audio(time.Second)
	c.Video(700 * time.Millisecond)
	if d := c.Drift(); d > -0.29 || d < -0.31 {
		t.Errorf("Drift = %v, want about -0.3", d)
	}
	if !c.Check() {
		t.Error("0.3s drift not reported with 0.1s tolerance")
	}

	c.Video(time.Second)
	if c.Check() {
		t.Error("drift persisted after video caught up")
	}
}

func TestReset(t *testing.T) {
	c := New(0, nil)
	c.Audio(5 * time.Second)
	c.Audio(8 * time.Second)
	c.Reset()
	if c.Elapsed() != 0 {
		t.Errorf("Elapsed after reset = %v", c.Elapsed())
	}
	if got := c.Audio(time.Second); got != 0 {
		t.Errorf("re-anchor: Audio = %v, want 0", got)
	}
	if got := c.Audio(2 * time.Second); got != 1 {
		t.Errorf("Audio after re-anchor = %v, want 1", got)
	}
}
