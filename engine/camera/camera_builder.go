package camera

import (
	"github.com/Carmen-Shannon/spinner/common"
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithEye sets the camera position in world space.
//
// Parameters:
//   - eye: the eye position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera position
func WithEye(eye mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = eye
	}
}

// WithDirection sets the view direction. It does not need to be unit length.
//
// Parameters:
//   - direction: the view direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera direction
func WithDirection(direction mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.direction = direction
	}
}

// WithUp sets the camera's up hint.
//
// Parameters:
//   - up: the up vector, must not be parallel to the direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the initial aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = common.ClampAspect(aspect)
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithDepthRange selects the clip-space depth convention. Defaults to common.DepthZeroToOne.
func WithDepthRange(depth common.DepthRange) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.depth = depth
	}
}
