package timeline

import "sort"

// Lookup returns the index of the segment that should be showing at
// elapsed seconds, or -1 when no segment has started yet.
//
// The chosen segment is the last one whose start is at or before
// elapsed+Epsilon. When several segments share that start, the highest
// index whose window still contains elapsed wins, falling back to the
// last of the group. A segment therefore stays selected past its end
// until a later one starts.
//
// hint is the previously returned index (or -1). It only short-cuts the
// common forward-moving case and never changes the result.
func Lookup(entries []Entry, elapsed float64, hint int) int {
	n := len(entries)
	if n == 0 {
		return -1
	}
	if hint >= 0 && hint < n {
		if hint+1 < n && isSoleLastStarted(entries, hint+1, elapsed) {
			return hint + 1
		}
		if isSoleLastStarted(entries, hint, elapsed) {
			return hint
		}
	}

	k := sort.Search(n, func(i int) bool { return !entries[i].Started(elapsed) }) - 1
	if k < 0 {
		return -1
	}
	return breakTie(entries, k, elapsed)
}

// isSoleLastStarted reports whether i is the last started segment and
// shares its start with no other segment.
func isSoleLastStarted(entries []Entry, i int, t float64) bool {
	e := entries[i]
	if !e.Started(t) {
		return false
	}
	if i+1 < len(entries) && entries[i+1].Started(t) {
		return false
	}
	return i == 0 || entries[i-1].Start != e.Start
}

func breakTie(entries []Entry, k int, t float64) int {
	first := k
	for first > 0 && entries[first-1].Start == entries[k].Start {
		first--
	}
	for i := k; i >= first; i-- {
		if entries[i].Contains(t) {
			return i
		}
	}
	return k
}
