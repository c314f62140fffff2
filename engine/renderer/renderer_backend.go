package renderer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSurfaceUnavailable is returned by BeginFrame when no swapchain image could be acquired,
	// typically because the surface is outdated after a resize. The surface has been reconfigured
	// and the next frame may succeed.
	ErrSurfaceUnavailable = errors.New("surface image unavailable")

	// ErrNoFrame is returned by DrawCall, EndFrame and Present outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrPipelineNotFound is returned by DrawCall for a key that was never registered.
	ErrPipelineNotFound = errors.New("render pipeline not registered")
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a configuration name ("vsync" or "uncapped") to a PresentMode.
// An empty name selects PresentModeVSync.
//
// Parameters:
//   - name: the present mode name, case-insensitive
//
// Returns:
//   - PresentMode: the parsed mode
//   - error: an error for an unknown name
func ParsePresentMode(name string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vsync", "fifo":
		return PresentModeVSync, nil
	case "uncapped", "immediate":
		return PresentModeUncapped, nil
	default:
		return PresentModeVSync, fmt.Errorf("unknown present mode %q", name)
	}
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4 only.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// ParseMSAA validates a sample count from configuration.
//
// Parameters:
//   - samples: 1 or 4; 0 selects MSAA4x
//
// Returns:
//   - MSAASampleCount: the sample count
//   - error: an error for any other value
func ParseMSAA(samples int) (MSAASampleCount, error) {
	switch samples {
	case 0, 4:
		return MSAA4x, nil
	case 1:
		return MSAAOff, nil
	default:
		return MSAA4x, fmt.Errorf("unsupported msaa sample count %d", samples)
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
