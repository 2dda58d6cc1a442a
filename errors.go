package avis

import "errors"

// Package errors for sessions and configuration.
var (
	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = errors.New("avis: invalid configuration")

	// ErrNoEngine is returned by Start when no engine factory is configured.
	ErrNoEngine = errors.New("avis: no engine factory")

	// ErrNoOutput is returned when rendering without an output.
	ErrNoOutput = errors.New("avis: no output")

	// ErrEngineInit is returned when the engine factory fails. The session
	// is left stopped.
	ErrEngineInit = errors.New("avis: engine initialization failed")

	// ErrNotStarted is returned when rendering before Start.
	ErrNotStarted = errors.New("avis: session not started")

	// ErrNotConfigured is returned when rendering before Setup.
	ErrNotConfigured = errors.New("avis: stream formats not negotiated")

	// ErrUnsupportedFormat is returned by Setup for audio or video formats
	// the stage cannot handle.
	ErrUnsupportedFormat = errors.New("avis: unsupported stream format")

	// ErrInvalidFrame is returned for frames whose buffer does not match
	// their declared geometry.
	ErrInvalidFrame = errors.New("avis: invalid frame")
)
