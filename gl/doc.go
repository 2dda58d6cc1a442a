// Package gl manages OpenGL render targets and pixel readback for a
// visualization stage.
//
// The package never calls OpenGL directly. Everything goes through [Funcs],
// a table of the entry points the stage needs, so the same code runs on a
// real driver (backend/opengl) and on the in-memory implementation used by
// tests and headless CI (backend/soft). [Funcs.Capabilities] reports which
// optional entry point groups the driver resolved; features that need a
// missing group are disabled with a single warning instead of crashing.
//
// The pieces:
//   - [TargetManager] owns the offscreen framebuffer (color texture plus
//     depth/stencil renderbuffer) and replaces it on resize.
//   - [HeadlessDetector] finds out once whether a default framebuffer exists.
//   - [AsyncReader] reads pixels through a ring of pixel-pack buffers one
//     frame behind, so the CPU never waits on the GPU.
//   - [Output] combines them behind the stage's output interface.
//
// Nothing in this package is safe for concurrent use. OpenGL contexts are
// bound to one thread and every call must come from it.
package gl
