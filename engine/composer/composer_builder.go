package composer

import (
	"github.com/Carmen-Shannon/spinner/engine/animator"
	"github.com/Carmen-Shannon/spinner/engine/camera"
)

// ComposerBuilderOption is a functional option for configuring a Composer during construction.
type ComposerBuilderOption func(*composerImpl)

// WithClock sets the frame clock the composer reads elapsed time from.
//
// Parameters:
//   - clock: the frame clock
//
// Returns:
//   - ComposerBuilderOption: a function that sets the clock
func WithClock(clock animator.Clock) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.clock = clock
	}
}

// WithAnimator sets the animation state that drives the object's orientation.
//
// Parameters:
//   - a: the animator
//
// Returns:
//   - ComposerBuilderOption: a function that sets the animator
func WithAnimator(a animator.Animator) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.animator = a
	}
}

// WithCamera sets the camera providing the view and projection matrices.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ComposerBuilderOption: a function that sets the camera
func WithCamera(cam camera.Camera) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.camera = cam
	}
}

// WithTransform sets the object's translation and uniform scale.
func WithTransform(t Transform) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.transform = t
	}
}

// WithLightDirection sets the world-space direction toward the light. It need not be normalized.
func WithLightDirection(dir [3]float32) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.light = dir
	}
}

// WithRenderState overrides DefaultRenderState.
func WithRenderState(state RenderState) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.state = state
	}
}

// WithTarget sets the graphics backend frames are drawn onto.
//
// Parameters:
//   - target: the draw target
//
// Returns:
//   - ComposerBuilderOption: a function that sets the target
func WithTarget(target Target) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.target = target
	}
}
