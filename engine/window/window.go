package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window the frame is presented into and its event loop.
// Input beyond the close request is not surfaced.
type Window interface {
	// SetRedrawCallback sets the function called each message loop iteration after events are
	// drained, i.e. whenever a new frame is due.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetRedrawCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetCloseCallback sets the function called when the user asks the window to close
	// (title bar close button or Escape). The window keeps running until RequestClose.
	// With no callback set, a close request stops the loop directly.
	//
	// Parameters:
	//   - callback: function to call on a close request
	SetCloseCallback(callback func())

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the message loop should keep iterating.
	//
	// Returns:
	//   - bool: true if window is running, false once a close was requested
	IsRunning() bool

	// RequestClose stops the message loop after the current iteration. The window stays
	// allocated until Close. Safe to call more than once.
	RequestClose()

	// Close destroys the window and releases platform resources. Safe to call more than once.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the window message loop on the calling thread.
	// Blocks until a close is requested. Calls the redraw callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels. Zero while minimized.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// closed is set once Close has destroyed the platform window.
	closed bool

	onRedraw func()
	onResize func(width, height int)
	onClose  func()
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a Window with the specified options.
// Must be called from the main goroutine; the OS thread is locked for the window's lifetime.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "SPINNER",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetRedrawCallback(callback func()) {
	w.onRedraw = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetCloseCallback(callback func()) {
	w.onClose = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	if w.closed {
		return nil
	}
	if err := platformCloseWindow(w); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onRedraw != nil {
			w.onRedraw()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// closeRequested routes a user close request to the close callback, or stops the loop if none is set.
func (w *engineWindow) closeRequested() {
	if w.onClose != nil {
		w.onClose()
		return
	}
	w.RequestClose()
}
