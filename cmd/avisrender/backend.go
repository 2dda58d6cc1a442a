package main

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/avis"
	"github.com/gogpu/avis/backend/soft"
	"github.com/gogpu/avis/backend/wgpu"
	"github.com/gogpu/avis/gl"
)

// openOutput creates the output for backend and a function releasing what
// the output was built on.
func openOutput(backend string, cfg avis.Config, width, height int, logger *slog.Logger) (avis.Output, func(), error) {
	glOpts := []gl.OutputOption{
		gl.WithForcedHeadless(cfg.ForceHeadless()),
		gl.WithAsyncReadback(cfg.AsyncReadback),
		gl.WithFlipVertical(cfg.FlipVertical),
		gl.WithLogger(logger),
	}
	switch backend {
	case "soft":
		return gl.NewOutput(soft.New(), glOpts...), func() {}, nil
	case "opengl":
		return openGLOutput(width, height, glOpts)
	case "wgpu":
		dev, err := wgpu.OpenDevice()
		if err != nil {
			return nil, nil, err
		}
		out := wgpu.NewOutput(dev, wgpu.WithAsyncReadback(cfg.AsyncReadback), wgpu.WithLogger(logger))
		return out, dev.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q (want soft, opengl or wgpu)", backend)
}
