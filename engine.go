package avis

import "github.com/gogpu/avis/render"

// Engine is an audio-reactive visualization engine.
//
// A session calls it from one goroutine only: SetFrameTime, then any preset
// switches, then PushAudio and RenderFrame, once per video frame.
type Engine interface {
	// SetFrameTime sets the engine clock in seconds since playback start.
	SetFrameTime(seconds float64)
	// PushAudio hands the engine the PCM for the coming frame. frames is
	// the number of sample frames in samples.
	PushAudio(samples []int16, frames int, layout ChannelLayout)
	// RenderFrame draws one frame into target.
	RenderFrame(target render.Target) error
	// LoadPreset switches to the preset at path, blending when smooth.
	LoadPreset(path string, smooth bool) error
	// LockAutoRotation stops or resumes the engine's own preset rotation.
	LockAutoRotation(locked bool)
	// SetAutoRotationPeriod sets how long each preset shows, in seconds.
	SetAutoRotationPeriod(seconds float64)
	// OutputSize returns the size the engine renders at.
	OutputSize() (width, height int)
	// Destroy releases the engine.
	Destroy()
}

// EngineSettings is everything an engine factory needs to build an engine.
type EngineSettings struct {
	PresetDir          string
	TextureDir         string
	BeatSensitivity    float64
	HardCutDuration    float64
	HardCutEnabled     bool
	HardCutSensitivity float64
	SoftCutDuration    float64
	PresetDuration     float64
	MeshWidth          int
	MeshHeight         int
	AspectCorrection   bool
	EasterEgg          float64
	PresetLocked       bool
	EnablePlaylist     bool
	ShufflePresets     bool

	Width  int
	Height int
	FPS    float64
}

// EngineFactory creates an engine. A failed factory leaves the session
// unchanged.
type EngineFactory func(settings EngineSettings) (Engine, error)

// Output is where a session renders and from where it reads frames.
type Output interface {
	// Headless reports whether the output has no visible surface.
	Headless() bool
	// Prepare returns a bound render target of the given size.
	Prepare(width, height int) (render.Target, error)
	// Read copies the rendered image into frame, converting to
	// frame.Format. Asynchronous outputs may deliver the previous frame.
	Read(frame *VideoFrame) error
	// Release frees every GPU resource the output holds. The output can
	// be prepared again afterwards.
	Release()
}
