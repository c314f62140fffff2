package composer

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/spinner/common"
	"github.com/Carmen-Shannon/spinner/engine/animator"
	"github.com/Carmen-Shannon/spinner/engine/camera"
)

var (
	// ErrFrameSkipped is returned by a Target's BeginFrame when no surface image is available
	// (minimized window, outdated swap chain). The composer drops the frame silently.
	ErrFrameSkipped = errors.New("frame skipped")

	// ErrNoTarget is returned by Compose when no Target was configured.
	ErrNoTarget = errors.New("composer has no draw target")
)

// DefaultLightDirection is the world-space direction toward the directional light.
var DefaultLightDirection = [3]float32{-1.0, 0.4, 0.9}

// Transform places the object in the world: a uniform scale about its local origin, then an offset.
type Transform struct {
	Translation [3]float32
	Scale       float32
}

// DefaultTransform returns a unit-scale transform at the origin.
func DefaultTransform() Transform {
	return Transform{Scale: 1}
}

// Matrix returns ScaleAndTranslate for the transform.
func (t Transform) Matrix() common.Mat4 {
	return common.ScaleAndTranslate(t.Translation[0], t.Translation[1], t.Translation[2], t.Scale)
}

// UniformBundle holds every value the shaders read for one frame.
type UniformBundle struct {
	Model      common.Mat4
	Rotation   common.Mat4
	View       common.Mat4
	Projection common.Mat4
	Light      [3]float32
}

// Frustum returns the world-space view frustum the frame is drawn with.
//
// Returns:
//   - common.Frustum: planes extracted from Projection*View with zero-to-one depth
func (u UniformBundle) Frustum() common.Frustum {
	return common.ExtractFrustum(u.Projection.Mul(u.View), common.DepthZeroToOne)
}

// GPU converts the bundle to its upload layout, transposing each matrix to column-major.
//
// Returns:
//   - GPUUniformBundle: the GPU-aligned uniform struct
func (u UniformBundle) GPU() GPUUniformBundle {
	return GPUUniformBundle{
		Model:       u.Model.ColumnMajor(),
		Rotation:    u.Rotation.ColumnMajor(),
		View:        u.View.ColumnMajor(),
		Perspective: u.Projection.ColumnMajor(),
		Light:       u.Light,
	}
}

type composerImpl struct {
	clock    animator.Clock
	animator animator.Animator
	camera   camera.Camera

	transform Transform
	light     [3]float32
	state     RenderState
	target    Target

	frames atomic.Uint64
}

// Composer builds the per-frame uniform bundle and issues the frame's single draw.
// It never mutates the transform or the camera's placement; only the camera's aspect follows
// the framebuffer size passed to each frame.
type Composer interface {
	// Bundle computes the uniforms for a frame at elapsedSeconds on a width x height framebuffer.
	// Under animator.PolicyElapsed the result depends only on its arguments.
	//
	// Parameters:
	//   - elapsedSeconds: seconds since the clock started
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels; non-positive keeps the previous aspect
	//
	// Returns:
	//   - UniformBundle: the frame's uniforms
	Bundle(elapsedSeconds float64, width, height int) UniformBundle

	// Compose renders one frame: read the clock, build the bundle, then BeginFrame,
	// WriteUniforms, Draw, EndFrame and Present on the target.
	// A frame skipped by the target is not an error.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	//
	// Returns:
	//   - UniformBundle: the uniforms the frame was drawn with
	//   - error: the failing step's error wrapped with its name, or nil
	Compose(width, height int) (UniformBundle, error)

	// Frames returns the number of frames presented so far.
	//
	// Returns:
	//   - uint64: presented frame count
	Frames() uint64

	// RenderState returns the state every draw is issued with.
	//
	// Returns:
	//   - RenderState: the draw state
	RenderState() RenderState

	// Transform returns the object's placement.
	//
	// Returns:
	//   - Transform: the transform
	Transform() Transform
}

var _ Composer = &composerImpl{}

// NewComposer creates a Composer. Unset collaborators default to a fresh clock, an animator with
// the default angular rate, and a camera at the origin looking down +Z. A Target must be set with
// WithTarget before Compose is called.
//
// Parameters:
//   - options: functional options to configure the composer
//
// Returns:
//   - Composer: the newly created composer
func NewComposer(options ...ComposerBuilderOption) Composer {
	c := &composerImpl{
		transform: DefaultTransform(),
		light:     DefaultLightDirection,
		state:     DefaultRenderState(),
	}
	for _, option := range options {
		option(c)
	}
	if c.clock == nil {
		c.clock = animator.NewClock()
	}
	if c.animator == nil {
		c.animator = animator.NewAnimator()
	}
	if c.camera == nil {
		c.camera = camera.NewCamera()
	}
	return c
}

func (c *composerImpl) Bundle(elapsedSeconds float64, width, height int) UniformBundle {
	c.camera.SetFramebufferSize(width, height)

	rotation := c.animator.Update(elapsedSeconds).Rotation()
	return UniformBundle{
		Model:      c.transform.Matrix().Mul(rotation),
		Rotation:   rotation,
		View:       c.camera.View(),
		Projection: c.camera.Projection(),
		Light:      c.light,
	}
}

func (c *composerImpl) Compose(width, height int) (UniformBundle, error) {
	if c.target == nil {
		return UniformBundle{}, ErrNoTarget
	}

	bundle := c.Bundle(c.clock.ElapsedSeconds(), width, height)
	gpu := bundle.GPU()

	if err := c.target.BeginFrame(); err != nil {
		if errors.Is(err, ErrFrameSkipped) {
			return bundle, nil
		}
		return bundle, fmt.Errorf("begin frame: %w", err)
	}
	if err := c.target.WriteUniforms(gpu.Marshal()); err != nil {
		return bundle, fmt.Errorf("write uniforms: %w", err)
	}
	if err := c.target.Draw(DrawCall{State: c.state}); err != nil {
		return bundle, fmt.Errorf("draw: %w", err)
	}
	if err := c.target.EndFrame(); err != nil {
		return bundle, fmt.Errorf("end frame: %w", err)
	}
	if err := c.target.Present(); err != nil {
		return bundle, fmt.Errorf("present: %w", err)
	}
	c.frames.Add(1)
	return bundle, nil
}

func (c *composerImpl) Frames() uint64 {
	return c.frames.Load()
}

func (c *composerImpl) RenderState() RenderState {
	return c.state
}

func (c *composerImpl) Transform() Transform {
	return c.transform
}
