package timeline

import "errors"

// Package errors for timeline loading and activation.
var (
	// ErrNotFound is returned when the timeline file does not exist.
	ErrNotFound = errors.New("timeline: file not found")

	// ErrParse is returned when the timeline file is not a valid INI document.
	ErrParse = errors.New("timeline: parse error")

	// ErrNoSegments is returned when no group survives validation.
	ErrNoSegments = errors.New("timeline: no valid segments")

	// ErrRelativePreset is returned by activation when a segment names a
	// relative preset path and no preset base directory is configured.
	ErrRelativePreset = errors.New("timeline: relative preset path without preset directory")

	// ErrNoLoader is returned when a scheduler operation needs an attached engine.
	ErrNoLoader = errors.New("timeline: no preset loader attached")
)
