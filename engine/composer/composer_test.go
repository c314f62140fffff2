package composer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/spinner/common"
	"github.com/Carmen-Shannon/spinner/engine/animator"
	"github.com/Carmen-Shannon/spinner/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	calls    []string
	uniforms [][]byte
	draws    []DrawCall

	failOn string
	err    error
}

func (r *recordingTarget) step(name string) error {
	r.calls = append(r.calls, name)
	if r.failOn == name {
		return r.err
	}
	return nil
}

func (r *recordingTarget) BeginFrame() error { return r.step("begin") }

func (r *recordingTarget) WriteUniforms(data []byte) error {
	r.uniforms = append(r.uniforms, data)
	return r.step("uniforms")
}

func (r *recordingTarget) Draw(call DrawCall) error {
	r.draws = append(r.draws, call)
	return r.step("draw")
}

func (r *recordingTarget) EndFrame() error { return r.step("end") }

func (r *recordingTarget) Present() error { return r.step("present") }

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time { return f.now }

func sceneCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithEye(mgl32.Vec3{0, 1.5, -3}),
		camera.WithDirection(mgl32.Vec3{0, -0.5, 1}),
		camera.WithUp(mgl32.Vec3{0, 1, 0}),
		camera.WithFov(math.Pi/3),
		camera.WithClipPlanes(0.1, 100),
	)
}

func newTestComposer(target Target, ft *fakeTime, options ...ComposerBuilderOption) Composer {
	base := []ComposerBuilderOption{
		WithClock(animator.NewClock(animator.WithNow(ft.Now))),
		WithAnimator(animator.NewAnimator(animator.WithAngularRate(6.5))),
		WithCamera(sceneCamera()),
		WithTarget(target),
	}
	return NewComposer(append(base, options...)...)
}

func TestComposeCallOrder(t *testing.T) {
	target := &recordingTarget{}
	ft := &fakeTime{now: time.Unix(100, 0)}
	c := newTestComposer(target, ft)

	_, err := c.Compose(800, 600)
	require.NoError(t, err)

	assert.Equal(t, []string{"begin", "uniforms", "draw", "end", "present"}, target.calls)
	require.Len(t, target.draws, 1)
	assert.Equal(t, DefaultRenderState(), target.draws[0].State)
	require.Len(t, target.uniforms, 1)
	assert.Len(t, target.uniforms[0], 272)
	assert.Equal(t, uint64(1), c.Frames())
}

func TestComposeOneDrawPerFrame(t *testing.T) {
	target := &recordingTarget{}
	ft := &fakeTime{now: time.Unix(100, 0)}
	c := newTestComposer(target, ft)

	for i := 0; i < 5; i++ {
		ft.now = ft.now.Add(16 * time.Millisecond)
		_, err := c.Compose(800, 600)
		require.NoError(t, err)
	}
	assert.Len(t, target.draws, 5)
	assert.Equal(t, uint64(5), c.Frames())
}

func TestComposeEndToEndRotation(t *testing.T) {
	target := &recordingTarget{}
	ft := &fakeTime{now: time.Unix(100, 0)}
	c := newTestComposer(target, ft)

	ft.now = ft.now.Add(2 * time.Second)
	bundle, err := c.Compose(800, 600)
	require.NoError(t, err)

	wrapped := float32(math.Mod(13, 2*math.Pi))
	assert.True(t, bundle.Rotation.ApproxEqual(common.RotationY(wrapped), 1e-5))
	assert.True(t, bundle.Model.RotationBlock().ApproxEqual(common.RotationY(wrapped), 1e-5))
}

func TestComposeLongSessionRotation(t *testing.T) {
	target := &recordingTarget{}
	ft := &fakeTime{now: time.Unix(100, 0)}
	c := newTestComposer(target, ft)

	ft.now = ft.now.Add(10*time.Hour + 250*time.Millisecond)
	bundle, err := c.Compose(800, 600)
	require.NoError(t, err)

	elapsed := (10 * time.Hour).Seconds() + 0.25
	wrapped := float32(math.Mod(elapsed*6.5, 2*math.Pi))
	assert.True(t, bundle.Rotation.ApproxEqual(common.RotationY(wrapped), 1e-5))
}

func TestBundleAtZeroIsIdentityModel(t *testing.T) {
	c := newTestComposer(&recordingTarget{}, &fakeTime{now: time.Unix(0, 0)})
	b := c.Bundle(0, 800, 600)
	assert.Equal(t, common.Identity(), b.Model)
	assert.Equal(t, common.Identity(), b.Rotation)
	assert.Equal(t, DefaultLightDirection, b.Light)
}

func TestBundleFrustum(t *testing.T) {
	c := newTestComposer(&recordingTarget{}, &fakeTime{now: time.Unix(0, 0)})
	f := c.Bundle(0, 1280, 720).Frustum()

	assert.True(t, f.IntersectsSphere([3]float32{0, 0, 0}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, -10}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, 500}, 1))
}

func TestBundleAppliesTransform(t *testing.T) {
	c := newTestComposer(&recordingTarget{}, &fakeTime{now: time.Unix(0, 0)},
		WithTransform(Transform{Translation: [3]float32{1, 2, 3}, Scale: 2}),
		WithLightDirection([3]float32{0, 1, 0}),
	)
	b := c.Bundle(0.5, 800, 600)

	want := common.ScaleAndTranslate(1, 2, 3, 2).Mul(common.RotationY(0.5 * 6.5))
	assert.True(t, b.Model.ApproxEqual(want, 1e-6))
	assert.Equal(t, [3]float32{0, 1, 0}, b.Light)
	assert.Equal(t, Transform{Translation: [3]float32{1, 2, 3}, Scale: 2}, c.Transform())
}

func TestResizeChangesOnlyProjectionXScale(t *testing.T) {
	c := newTestComposer(&recordingTarget{}, &fakeTime{now: time.Unix(0, 0)})

	small := c.Bundle(1, 800, 600)
	wide := c.Bundle(1, 1600, 600)

	assert.Equal(t, small.Model, wide.Model)
	assert.Equal(t, small.View, wide.View)
	assert.Equal(t, small.Rotation, wide.Rotation)
	assert.InDelta(t, small.Projection[0][0]/2, wide.Projection[0][0], 1e-6)
	assert.Equal(t, small.Projection[1], wide.Projection[1])
	assert.Equal(t, small.Projection[2], wide.Projection[2])
	assert.Equal(t, small.Projection[3], wide.Projection[3])
}

func TestMinimizedKeepsAspect(t *testing.T) {
	c := newTestComposer(&recordingTarget{}, &fakeTime{now: time.Unix(0, 0)})
	before := c.Bundle(1, 1280, 720)
	after := c.Bundle(1, 1280, 0)
	assert.Equal(t, before.Projection, after.Projection)
}

func TestComposeStepErrors(t *testing.T) {
	boom := errors.New("device lost")
	steps := []struct {
		failOn    string
		wantCalls int
		wantDraws int
	}{
		{"begin", 1, 0},
		{"uniforms", 2, 0},
		{"draw", 3, 1},
		{"end", 4, 1},
		{"present", 5, 1},
	}
	for _, tt := range steps {
		t.Run(tt.failOn, func(t *testing.T) {
			target := &recordingTarget{failOn: tt.failOn, err: boom}
			c := newTestComposer(target, &fakeTime{now: time.Unix(0, 0)})

			_, err := c.Compose(800, 600)
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Len(t, target.calls, tt.wantCalls)
			assert.Len(t, target.draws, tt.wantDraws)
			assert.Equal(t, uint64(0), c.Frames())
		})
	}
}

func TestComposeSkippedFrame(t *testing.T) {
	target := &recordingTarget{failOn: "begin", err: ErrFrameSkipped}
	c := newTestComposer(target, &fakeTime{now: time.Unix(0, 0)})

	_, err := c.Compose(800, 600)
	require.NoError(t, err)
	assert.Empty(t, target.draws)
	assert.Equal(t, uint64(0), c.Frames())
}

func TestComposeWithoutTarget(t *testing.T) {
	_, err := NewComposer().Compose(800, 600)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestGPUUniformBundleLayout(t *testing.T) {
	b := UniformBundle{
		Model:      common.ScaleAndTranslate(4, 5, 6, 1),
		Rotation:   common.Identity(),
		View:       common.Identity(),
		Projection: common.Identity(),
		Light:      [3]float32{-1, 0.4, 0.9},
	}
	gpu := b.GPU()
	require.Equal(t, 272, gpu.Size())

	data := gpu.Marshal()
	require.Len(t, data, 272)

	read := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
	}
	// Translation lives in the fourth column, which is contiguous in column-major order.
	assert.Equal(t, float32(4), read(48))
	assert.Equal(t, float32(5), read(52))
	assert.Equal(t, float32(6), read(56))
	assert.Equal(t, float32(1), read(64))
	assert.Equal(t, float32(-1), read(256))
	assert.Equal(t, float32(0.4), read(260))
	assert.Equal(t, float32(0.9), read(264))
	assert.Equal(t, float32(0), read(268))
}
