// Package avis is an audio-reactive visualizer stage for media pipelines.
//
// A [Session] takes timestamped 16-bit PCM and writable video frames, drives
// a visualization [Engine] and reads each rendered image back into the
// frame. Presets change on the engine's own rotation, or follow a timeline
// file that pins presets to playback time.
//
// # Quick Start
//
//	cfg := avis.DefaultConfig()
//	cfg.PresetDir = "/usr/share/projectM/presets"
//	cfg.TimelinePath = "show.ini"
//
//	s, err := avis.NewSession(cfg,
//	    avis.WithEngine(spectrum.Factory(nil)),
//	    avis.WithOutput(gl.NewOutput(soft.New())),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Setup(
//	    avis.AudioInfo{Rate: 44100, Channels: 2},
//	    avis.VideoInfo{Width: 1280, Height: 720, FPSNum: 30, FPSDen: 1},
//	); err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//
//	frame := avis.NewVideoFrame(1280, 720, avis.PixelFormatRGBA)
//	err = s.Render(audioBuffer, frame)
//
// # Timing
//
// Elapsed playback time comes from the audio timestamps: the first
// timestamped buffer is time zero, and elapsed time never runs backwards.
// Video timestamps are tracked only to report audio/video drift.
//
// # Outputs
//
// Outputs live in sub-packages:
//   - gl: OpenGL contexts, with offscreen targets and pixel-buffer readback
//     (backend/opengl for real drivers, backend/soft in memory)
//   - backend/wgpu: WebGPU devices through the gogpu HAL
//
// # Logging
//
// avis is silent by default. Call [SetLogger] to enable structured logging.
package avis
