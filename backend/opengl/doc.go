// Package opengl binds the gl output to a real OpenGL 4.1 core context
// through go-gl and GLFW.
//
// Every call must happen on the goroutine that created the [Context];
// NewContext locks that goroutine to its OS thread.
//
//	ctx, err := opengl.NewContext(1280, 720, false)
//	if err != nil {
//		return err
//	}
//	defer ctx.Close()
//	out := gl.NewOutput(ctx.Funcs())
//
// Build with the nogl tag to leave the package (and its cgo
// dependencies) out.
package opengl
