//go:build !nogl

package opengl

import (
	"testing"

	avisgl "github.com/gogpu/avis/gl"
)

func TestCapabilitiesFor(t *testing.T) {
	tests := []struct {
		major, minor int32
		want         avisgl.Capability
	}{
		{1, 5, 0},
		{2, 0, 0},
		{2, 1, avisgl.CapPixelBuffer},
		{3, 0, avisgl.CapAll},
		{4, 1, avisgl.CapAll},
	}
	for _, tt := range tests {
		if got := capabilitiesFor(tt.major, tt.minor); got != tt.want {
			t.Errorf("capabilitiesFor(%d, %d) = %v, want %v", tt.major, tt.minor, got, tt.want)
		}
	}
}

// TestContextRoundTrip needs a display; it is skipped where GLFW cannot
// create a window.
func TestContextRoundTrip(t *testing.T) {
	ctx, err := NewContext(64, 32, false)
	if err != nil {
		t.Skipf("no OpenGL context: %v", err)
	}
	defer ctx.Close()

	if ctx.Funcs().Capabilities() != avisgl.CapAll {
		t.Errorf("4.1 core context should report all capabilities, got %v", ctx.Funcs().Capabilities())
	}
	out := avisgl.NewOutput(ctx.Funcs())
	defer out.Release()
	if _, err := out.Prepare(64, 32); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := ctx.SwapBuffers(); err != nil {
		t.Errorf("SwapBuffers: %v", err)
	}
	ctx.Close()
	if err := ctx.SwapBuffers(); err != ErrClosed {
		t.Errorf("SwapBuffers after Close: err = %v, want ErrClosed", err)
	}
}
