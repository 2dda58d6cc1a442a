package timeline

import (
	"slices"
	"strings"
)

// Epsilon is the tolerance applied to segment boundary comparisons, in seconds.
const Epsilon = 1e-6

// Transition selects how the engine switches to a segment's preset.
type Transition int

const (
	// TransitionSmooth blends from the previous preset.
	TransitionSmooth Transition = iota
	// TransitionAbrupt cuts to the new preset immediately.
	TransitionAbrupt
)

// String returns the transition name.
func (t Transition) String() string {
	if t == TransitionAbrupt {
		return "abrupt"
	}
	return "smooth"
}

// Entry is one scheduled segment.
type Entry struct {
	// Name is the INI group the segment came from.
	Name string
	// Start is the segment start in seconds since the first audio sample.
	Start float64
	// Duration is the segment length in seconds, always positive.
	Duration float64
	// Preset is the preset path as written in the file.
	Preset string
	// Complexity is an optional hint; "high" and "intense" request an
	// abrupt switch.
	Complexity string
}

// End returns Start + Duration.
func (e Entry) End() float64 { return e.Start + e.Duration }

// Started reports whether the segment has begun at elapsed time t.
func (e Entry) Started(t float64) bool { return e.Start <= t+Epsilon }

// Contains reports whether t falls inside the segment window, with both
// boundaries widened by Epsilon.
func (e Entry) Contains(t float64) bool {
	return e.Started(t) && t < e.End()+Epsilon
}

// Transition returns the switch style requested by the complexity hint.
// Matching is case-insensitive.
func (e Entry) Transition() Transition {
	if strings.EqualFold(e.Complexity, "high") || strings.EqualFold(e.Complexity, "intense") {
		return TransitionAbrupt
	}
	return TransitionSmooth
}

// Timeline is an immutable, start-ordered list of segments.
type Timeline struct {
	entries []Entry
	source  string
}

// New builds a timeline from entries. The slice is copied and stable-sorted
// by start time, so groups sharing a start keep their file order.
func New(entries []Entry) (*Timeline, error) {
	if len(entries) == 0 {
		return nil, ErrNoSegments
	}
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	return &Timeline{entries: sorted}, nil
}

// Len returns the number of segments.
func (t *Timeline) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// At returns segment i.
func (t *Timeline) At(i int) Entry { return t.entries[i] }

// Entries returns a copy of the segment list.
func (t *Timeline) Entries() []Entry { return slices.Clone(t.entries) }

// Source returns the file the timeline was loaded from, or "".
func (t *Timeline) Source() string { return t.source }

// Lookup returns the index of the segment that should be showing at
// elapsed, or -1. See the package-level [Lookup].
func (t *Timeline) Lookup(elapsed float64, hint int) int {
	if t == nil {
		return -1
	}
	return Lookup(t.entries, elapsed, hint)
}
