//go:build !nogl

package opengl

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ErrClosed is returned when using a closed context.
var ErrClosed = errors.New("opengl: context closed")

// Context is a GLFW window with a current OpenGL 4.1 core context.
type Context struct {
	window *glfw.Window
	funcs  *Funcs
}

// NewContext creates a width x height window and makes its context
// current. Batch rendering passes visible=false for a hidden window; its
// default framebuffer still exists, so frames are rendered offscreen only
// when asynchronous readback is enabled.
//
// The calling goroutine is locked to its OS thread until Close.
func NewContext(width, height int, visible bool) (*Context, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("opengl: initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Visible, boolHint(visible))
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(width, height, "avis", nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("opengl: create window: %w", err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("opengl: load functions: %w", err)
	}
	return &Context{window: win, funcs: newFuncs()}, nil
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

// Funcs returns the binding for gl.NewOutput.
func (c *Context) Funcs() *Funcs { return c.funcs }

// Version returns the GL_VERSION string.
func (c *Context) Version() string { return gl.GoStr(gl.GetString(gl.VERSION)) }

// FramebufferSize returns the default framebuffer size in pixels.
func (c *Context) FramebufferSize() (int, int) {
	if c.window == nil {
		return 0, 0
	}
	return c.window.GetFramebufferSize()
}

// SwapBuffers presents the default framebuffer and processes window
// events.
func (c *Context) SwapBuffers() error {
	if c.window == nil {
		return ErrClosed
	}
	c.window.SwapBuffers()
	glfw.PollEvents()
	return nil
}

// Close destroys the window and terminates GLFW. It is safe to call more
// than once.
func (c *Context) Close() {
	if c.window == nil {
		return
	}
	c.window.Destroy()
	c.window = nil
	glfw.Terminate()
	runtime.UnlockOSThread()
}
