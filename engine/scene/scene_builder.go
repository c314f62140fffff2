package scene

import (
	"github.com/Carmen-Shannon/spinner/engine/composer"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's label.
//
// Parameters:
//   - name: the label used for GPU objects and logs
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithPipelineKey sets the key the render pipeline is registered under.
//
// Parameters:
//   - key: the pipeline cache key
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPipelineKey(key string) SceneBuilderOption {
	return func(s *scene) {
		s.pipelineKey = key
	}
}

// WithRenderState sets the fixed-function state the pipeline is built with.
// Defaults to composer.DefaultRenderState.
//
// Parameters:
//   - state: the render state
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRenderState(state composer.RenderState) SceneBuilderOption {
	return func(s *scene) {
		s.state = state
	}
}

// WithUniformVar sets the WGSL variable name of the frame uniform buffer in group 0.
// Defaults to "frame".
//
// Parameters:
//   - name: the variable name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUniformVar(name string) SceneBuilderOption {
	return func(s *scene) {
		s.uniformVar = name
	}
}
