//go:build nogl

package main

import (
	"errors"

	"github.com/gogpu/avis"
	"github.com/gogpu/avis/gl"
)

func openGLOutput(int, int, []gl.OutputOption) (avis.Output, func(), error) {
	return nil, nil, errors.New("built without OpenGL support (nogl tag)")
}
