// Package timeline schedules pre-authored visual presets against playback
// time.
//
// A timeline is an INI file with one group per segment:
//
//	[intro]
//	start=0
//	duration=12.5
//	preset=presets/calm.milk
//	complexity=low
//
//	[drop]
//	start=12.5
//	duration=30
//	preset=/opt/presets/storm.milk
//	complexity=high
//
// Groups missing a required key, with a non-positive duration or with an
// empty preset are dropped with a warning. The remaining segments are
// stable-sorted by start time. The segment showing at elapsed time t is
// the last segment whose start is at or before t (see [Lookup]); it stays
// on screen past its end until a later segment supersedes it.
//
// A [Scheduler] drives a preset [Loader] from the segment list. It is not
// safe for concurrent use; the owning session hands new timelines to the
// rendering goroutine before they are installed.
package timeline
