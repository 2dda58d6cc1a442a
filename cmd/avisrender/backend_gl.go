//go:build !nogl

package main

import (
	"runtime"

	"github.com/gogpu/avis"
	"github.com/gogpu/avis/backend/opengl"
	"github.com/gogpu/avis/gl"
)

// GLFW must run on the main thread.
func init() { runtime.LockOSThread() }

func openGLOutput(width, height int, opts []gl.OutputOption) (avis.Output, func(), error) {
	ctx, err := opengl.NewContext(width, height, false)
	if err != nil {
		return nil, nil, err
	}
	return gl.NewOutput(ctx.Funcs(), opts...), ctx.Close, nil
}
