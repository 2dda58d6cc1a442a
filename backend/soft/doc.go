// Package soft is an in-memory implementation of the OpenGL entry points
// in package gl.
//
// It models just enough of the object model (framebuffers, textures,
// renderbuffers, pixel-pack buffers, scissored clears and pixel reads) to
// run the render target and readback code without a GPU. Rows are stored
// bottom-up like a real driver. Hooks for disabling capabilities, forcing
// incomplete framebuffers and failing buffer maps let tests drive the
// fallback paths.
package soft
