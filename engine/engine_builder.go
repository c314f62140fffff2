package engine

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables per-second frame statistics.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithEventSource sets the window whose event loop drives the engine.
//
// Parameters:
//   - source: the window, typically a window.Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithEventSource(source EventSource) EngineBuilderOption {
	return func(e *engine) {
		e.source = source
	}
}

// WithFrameFunc sets the function called each time a frame is due.
//
// Parameters:
//   - frame: the per-frame render function
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameFunc(frame FrameFunc) EngineBuilderOption {
	return func(e *engine) {
		e.frame = frame
	}
}

// WithReleaser registers a teardown step during construction. See Engine.AddReleaser.
func WithReleaser(name string, release func() error) EngineBuilderOption {
	return func(e *engine) {
		e.AddReleaser(name, release)
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
