package camera

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/spinner/common"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDegenerateCamera is returned when the camera direction is zero or parallel to up.
	ErrDegenerateCamera = errors.New("degenerate camera basis")

	// ErrInvalidProjection is returned when the projection parameters cannot form a frustum.
	ErrInvalidProjection = errors.New("invalid projection parameters")
)

type cameraImpl struct {
	mu *sync.Mutex

	eye       mgl32.Vec3
	direction mgl32.Vec3
	up        mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32
	depth  common.DepthRange

	viewMatrix       common.Mat4
	projectionMatrix common.Mat4
}

// Camera is a fixed viewpoint with a perspective projection.
// Position and orientation never change after construction; only the aspect ratio follows the
// framebuffer. View and projection matrices are cached and recomputed when a parameter changes.
type Camera interface {
	// Eye returns the camera position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Eye() mgl32.Vec3

	// Direction returns the view direction in world space, as configured (not normalized).
	//
	// Returns:
	//   - mgl32.Vec3: the view direction
	Direction() mgl32.Vec3

	// Up returns the camera's up hint.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// View returns the world-to-camera matrix.
	//
	// Returns:
	//   - common.Mat4: the view matrix
	View() common.Mat4

	// Projection returns the camera-to-clip matrix for the current aspect ratio.
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	Projection() common.Mat4

	// SetAspect sets the aspect ratio (width / height) and recomputes the projection.
	// Non-positive or non-finite values are replaced with 1.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetFramebufferSize derives the aspect ratio from framebuffer pixel dimensions.
	// A non-positive height (minimized window) leaves the aspect unchanged.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	SetFramebufferSize(width, height int)

	// Validate reports whether the camera parameters form a usable view and frustum.
	//
	// Returns:
	//   - error: ErrDegenerateCamera or ErrInvalidProjection wrapped with detail, or nil
	Validate() error
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at the origin looking down +Z with a 60 degree field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:        &sync.Mutex{},
		eye:       mgl32.Vec3{0, 0, 0},
		direction: mgl32.Vec3{0, 0, 1},
		up:        mgl32.Vec3{0, 1, 0},
		fov:       60.0 * (math.Pi / 180.0),
		aspect:    1.0,
		near:      0.1,
		far:       100.0,
		depth:     common.DepthZeroToOne,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) View() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) Projection() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = common.ClampAspect(aspect)
	c.updateProjection()
}

func (c *cameraImpl) SetFramebufferSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

func (c *cameraImpl) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.direction.LenSqr() == 0 {
		return fmt.Errorf("direction is zero: %w", ErrDegenerateCamera)
	}
	if c.up.LenSqr() == 0 {
		return fmt.Errorf("up is zero: %w", ErrDegenerateCamera)
	}
	if c.up.Normalize().Cross(c.direction.Normalize()).Len() < 1e-6 {
		return fmt.Errorf("up %v is parallel to direction %v: %w", c.up, c.direction, ErrDegenerateCamera)
	}
	if !(c.near > 0) {
		return fmt.Errorf("near plane %v must be positive: %w", c.near, ErrInvalidProjection)
	}
	if !(c.far > c.near) {
		return fmt.Errorf("far plane %v must exceed near plane %v: %w", c.far, c.near, ErrInvalidProjection)
	}
	if !(c.fov > 0 && c.fov < math.Pi) {
		return fmt.Errorf("field of view %v must be in (0, pi): %w", c.fov, ErrInvalidProjection)
	}
	return nil
}

// updateMatrices recalculates the view and projection matrices.
// Caller must hold the mutex (or own c exclusively during construction).
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = common.LookAt(c.eye, c.direction, c.up)
	c.updateProjection()
}

// updateProjection recalculates only the projection matrix. Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	c.projectionMatrix = common.PerspectiveRange(c.fov, c.aspect, c.near, c.far, c.depth)
}
