package timeline

import (
	"errors"
	"testing"
)

type loadCall struct {
	path   string
	smooth bool
}

type fakeLoader struct {
	loads   []loadCall
	locked  bool
	period  float64
	failFor string
}

func (f *fakeLoader) LoadPreset(path string, smooth bool) error {
	f.loads = append(f.loads, loadCall{path, smooth})
	if path == f.failFor {
		return errors.New("broken preset")
	}
	return nil
}

func (f *fakeLoader) LockAutoRotation(locked bool)          { f.locked = locked }
func (f *fakeLoader) SetAutoRotationPeriod(seconds float64) { f.period = seconds }

func mustTimeline(t *testing.T, entries ...Entry) *Timeline {
	t.Helper()
	tl, err := New(entries)
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

func threeSegments(t *testing.T) *Timeline {
	return mustTimeline(t,
		Entry{Name: "a", Start: 0, Duration: 5, Preset: "/p/a.milk"},
		Entry{Name: "b", Start: 5, Duration: 5, Preset: "/p/b.milk", Complexity: "high"},
		Entry{Name: "c", Start: 12, Duration: 5, Preset: "/p/c.milk"},
	)
}

func TestSchedulerActivateAndAdvance(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(Resolver{}, nil)
	s.SetTimeline(threeSegments(t))
	s.Attach(loader)

	if s.State() != StateInactive {
		t.Fatalf("state before activation = %v", s.State())
	}
	if err := s.Activate(0); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !loader.locked || loader.period != UnboundedPresetDuration {
		t.Errorf("rotation not locked: locked=%v period=%v", loader.locked, loader.period)
	}
	if s.State() != StateSegmentActive {
		t.Errorf("state = %v", s.State())
	}
	if len(loader.loads) != 1 || loader.loads[0] != (loadCall{"/p/a.milk", true}) {
		t.Fatalf("loads after activation = %+v", loader.loads)
	}

	steps := []struct {
		elapsed float64
		want    []loadCall
	}{
		{3, nil},
		{5, []loadCall{{"/p/b.milk", false}}},
		{5, nil},
		{11, nil},
		{12, []loadCall{{"/p/c.milk", true}}},
		{30, nil},
	}
	for _, step := range steps {
		before := len(loader.loads)
		s.Advance(step.elapsed)
		got := loader.loads[before:]
		if len(got) != len(step.want) {
			t.Fatalf("Advance(%v) loads = %+v, want %+v", step.elapsed, got, step.want)
		}
		for i := range got {
			if got[i] != step.want[i] {
				t.Errorf("Advance(%v) load %d = %+v, want %+v", step.elapsed, i, got[i], step.want[i])
			}
		}
	}
	if idx, ok := s.Current(); !ok || idx != 2 {
		t.Errorf("Current = %d, %v", idx, ok)
	}
}

func TestSchedulerPreloadSkipsInitialLoad(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(Resolver{}, nil)
	s.SetTimeline(threeSegments(t))
	s.Attach(loader)

	if err := s.Preload(); err != nil {
		t.Fatal(err)
	}
	if err := s.Activate(0); err != nil {
		t.Fatal(err)
	}
	if len(loader.loads) != 1 || loader.loads[0] != (loadCall{"/p/a.milk", false}) {
		t.Fatalf("loads = %+v, want one abrupt preload", loader.loads)
	}
	if s.Advance(0) {
		t.Error("Advance(0) after preload switched again")
	}
}

func TestSchedulerPreloadWithoutPreset(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(Resolver{BaseDir: "/p"}, nil)
	s.SetTimeline(mustTimeline(t,
		Entry{Name: "empty", Start: 0, Duration: 5},
		Entry{Name: "b", Start: 5, Duration: 5, Preset: "b.milk"},
	))
	s.Attach(loader)

	if err := s.Preload(); err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if len(loader.loads) != 0 {
		t.Errorf("loads = %+v, want none for an empty preset", loader.loads)
	}
	if _, ok := s.Current(); ok {
		t.Error("a skipped preload must not mark a segment current")
	}
}

func TestSchedulerActivateMidStream(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(Resolver{}, nil)
	s.SetTimeline(threeSegments(t))
	s.Attach(loader)

	if err := s.Activate(13); err != nil {
		t.Fatal(err)
	}
	if len(loader.loads) != 1 || loader.loads[0].path != "/p/c.milk" {
		t.Fatalf("loads = %+v", loader.loads)
	}
}

func TestSchedulerRejectsRelativeWithoutBase(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(Resolver{}, nil)
	s.SetTimeline(mustTimeline(t, Entry{Start: 0, Duration: 1, Preset: "rel.milk"}))
	s.Attach(loader)

	if err := s.Preload(); err != nil {
		t.Fatal(err)
	}
	if err := s.Activate(0); !errors.Is(err, ErrRelativePreset) {
		t.Fatalf("Activate err = %v, want ErrRelativePreset", err)
	}
	if s.Active() || s.State() != StateInactive {
		t.Error("scheduler should be inactive after rejection")
	}
	if len(loader.loads) != 0 || loader.locked {
		t.Errorf("engine touched: loads=%+v locked=%v", loader.loads, loader.locked)
	}
}

func TestSchedulerResolvesAgainstBase(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(Resolver{BaseDir: "/presets"}, nil)
	s.SetTimeline(mustTimeline(t, Entry{Start: 0, Duration: 1, Preset: "set/rel.milk"}))
	s.Attach(loader)

	if err := s.Activate(0); err != nil {
		t.Fatal(err)
	}
	if len(loader.loads) != 1 || loader.loads[0].path != "/presets/set/rel.milk" {
		t.Fatalf("loads = %+v", loader.loads)
	}
}

func TestSchedulerLoadFailureIsNotRetried(t *testing.T) {
	loader := &fakeLoader{failFor: "/p/b.milk"}
	s := NewScheduler(Resolver{}, nil)
	s.SetTimeline(threeSegments(t))
	s.Attach(loader)
	if err := s.Activate(0); err != nil {
		t.Fatal(err)
	}

	s.Advance(6)
	s.Advance(7)
	s.Advance(8)
	count := 0
	for _, l := range loader.loads {
		if l.path == "/p/b.milk" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("failing preset loaded %d times, want 1", count)
	}
	if idx, _ := s.Current(); idx != 1 {
		t.Errorf("Current = %d, want 1", idx)
	}
}

func TestSchedulerInactiveIsNoop(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(Resolver{}, nil)
	s.Attach(loader)

	if err := s.Activate(0); err != nil {
		t.Fatal(err)
	}
	if s.Advance(10) {
		t.Error("Advance without timeline switched")
	}
	if len(loader.loads) != 0 || loader.locked {
		t.Errorf("engine touched without timeline")
	}
}

func TestSchedulerDetachKeepsTimeline(t *testing.T) {
	loader := &fakeLoader{}
	s := NewScheduler(Resolver{}, nil)
	s.SetTimeline(threeSegments(t))
	s.Attach(loader)
	if err := s.Activate(0); err != nil {
		t.Fatal(err)
	}

	s.Detach()
	if !s.Active() {
		t.Error("timeline dropped on detach")
	}
	if _, ok := s.Current(); ok {
		t.Error("current segment survived detach")
	}
	if s.State() != StateInactive {
		t.Errorf("state after detach = %v", s.State())
	}
	if err := s.Activate(0); !errors.Is(err, ErrNoLoader) {
		t.Errorf("Activate without loader: %v", err)
	}
}
