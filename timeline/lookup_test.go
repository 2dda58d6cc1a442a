package timeline

import "testing"

func seg(start, duration float64, preset string) Entry {
	return Entry{Name: preset, Start: start, Duration: duration, Preset: preset}
}

func TestLookup(t *testing.T) {
	entries := []Entry{
		seg(0, 5, "A"),
		seg(5, 5, "B"),
		seg(12, 5, "C"),
	}

	tests := []struct {
		name    string
		elapsed float64
		want    int
	}{
		{"before first", -1, -1},
		{"first frame", 0, 0},
		{"inside first", 3, 0},
		{"boundary picks later segment", 5, 1},
		{"just below boundary", 5 - 1e-3, 0},
		{"within epsilon of boundary", 5 - 1e-7, 1},
		{"end of second", 10, 1},
		{"gap keeps previous", 11, 1},
		{"third", 12, 2},
		{"past the end", 100, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lookup(entries, tt.elapsed, -1); got != tt.want {
				t.Errorf("Lookup(%v) = %d, want %d", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestLookupHintDoesNotChangeResult(t *testing.T) {
	entries := []Entry{
		seg(0, 2, "A"),
		seg(2, 2, "B"),
		seg(4, 2, "C"),
		seg(6, 2, "D"),
	}
	for hint := -1; hint < len(entries); hint++ {
		for _, elapsed := range []float64{0, 1, 2, 3.9, 4, 5, 6, 7, 20} {
			want := Lookup(entries, elapsed, -1)
			if got := Lookup(entries, elapsed, hint); got != want {
				t.Errorf("Lookup(%v, hint=%d) = %d, want %d", elapsed, hint, got, want)
			}
		}
	}
}

func TestLookupSkipsSegments(t *testing.T) {
	entries := []Entry{
		seg(0, 1, "A"),
		seg(1, 1, "B"),
		seg(2, 1, "C"),
		seg(3, 1, "D"),
	}
	if got := Lookup(entries, 3.5, 0); got != 3 {
		t.Errorf("jump forward from 0: got %d, want 3", got)
	}
	if got := Lookup(entries, 0.5, 3); got != 0 {
		t.Errorf("seek backward from 3: got %d, want 0", got)
	}
}

func TestLookupSharedStart(t *testing.T) {
	entries := []Entry{
		seg(0, 10, "long"),
		seg(0, 2, "short"),
	}
	tests := []struct {
		elapsed float64
		want    int
	}{
		{1, 1},  // both contain t, highest index wins
		{5, 0},  // only the long one still contains t
		{20, 1}, // neither contains t, last of the group
	}
	for _, tt := range tests {
		for _, hint := range []int{-1, 0, 1} {
			if got := Lookup(entries, tt.elapsed, hint); got != tt.want {
				t.Errorf("Lookup(%v, hint=%d) = %d, want %d", tt.elapsed, hint, got, tt.want)
			}
		}
	}
}

func TestLookupEmpty(t *testing.T) {
	if got := Lookup(nil, 1, 0); got != -1 {
		t.Errorf("Lookup(nil) = %d, want -1", got)
	}
	var tl *Timeline
	if got := tl.Lookup(1, -1); got != -1 {
		t.Errorf("nil timeline Lookup = %d, want -1", got)
	}
}

func TestEntryTransition(t *testing.T) {
	tests := []struct {
		complexity string
		want       Transition
	}{
		{"", TransitionSmooth},
		{"low", TransitionSmooth},
		{"medium", TransitionSmooth},
		{"high", TransitionAbrupt},
		{"HIGH", TransitionAbrupt},
		{"Intense", TransitionAbrupt},
		{"higher", TransitionSmooth},
	}
	for _, tt := range tests {
		e := Entry{Complexity: tt.complexity}
		if got := e.Transition(); got != tt.want {
			t.Errorf("Transition(%q) = %v, want %v", tt.complexity, got, tt.want)
		}
	}
}
