package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/spinner/assets"
	"github.com/Carmen-Shannon/spinner/engine/composer"
	"github.com/Carmen-Shannon/spinner/engine/model"
	"github.com/Carmen-Shannon/spinner/engine/renderer"
	"github.com/Carmen-Shannon/spinner/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/spinner/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/spinner/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGPU struct {
	pipelines map[string]pipeline.Pipeline

	streams    [][]byte
	indexCount int
	descriptor wgpu.BindGroupLayoutDescriptor
	writes     []bind_group_provider.BufferWrite
	draws      []string
	calls      []string

	width, height int
	resizes       [][2]int

	beginErr error
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{pipelines: map[string]pipeline.Pipeline{}, width: 1280, height: 720}
}

func (f *fakeGPU) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeGPU) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }

func (f *fakeGPU) InitMeshBuffers(_ bind_group_provider.BindGroupProvider, streams [][]byte, _ []byte, indexCount int) error {
	f.streams = streams
	f.indexCount = indexCount
	return nil
}

func (f *fakeGPU) InitBindGroup(_ bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, _ map[int]uint64) error {
	f.descriptor = descriptor
	return nil
}

func (f *fakeGPU) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	f.writes = append(f.writes, writes...)
	f.calls = append(f.calls, "write")
	return nil
}

func (f *fakeGPU) Resize(width, height int) error {
	f.resizes = append(f.resizes, [2]int{width, height})
	f.width, f.height = width, height
	return nil
}

func (f *fakeGPU) SurfaceSize() (int, int) { return f.width, f.height }

func (f *fakeGPU) BeginFrame() error {
	f.calls = append(f.calls, "begin")
	return f.beginErr
}

func (f *fakeGPU) DrawCall(key string, _ bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	if len(bindGroups) != 1 {
		return errors.New("expected one bind group")
	}
	f.draws = append(f.draws, key)
	f.calls = append(f.calls, "draw")
	return nil
}

func (f *fakeGPU) EndFrame() error {
	f.calls = append(f.calls, "end")
	return nil
}

func (f *fakeGPU) Present() error {
	f.calls = append(f.calls, "present")
	return nil
}

func triangle() model.Model {
	return model.NewModel(
		model.WithName("tri"),
		model.WithPositions([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
		model.WithIndices([]uint32{0, 1, 2}),
	)
}

func assetShaders(t *testing.T) (shader.Shader, shader.Shader) {
	t.Helper()
	vs, err := shader.NewShader("spin-vert", shader.ShaderTypeVertex, assets.VertexShaderSource)
	require.NoError(t, err)
	fs, err := shader.NewShader("spin-frag", shader.ShaderTypeFragment, assets.FragmentShaderSource)
	require.NoError(t, err)
	return vs, fs
}

func newTestScene(t *testing.T, gpu *fakeGPU, options ...SceneBuilderOption) Scene {
	t.Helper()
	vs, fs := assetShaders(t)
	s, err := NewScene(gpu, triangle(), vs, fs, options...)
	require.NoError(t, err)
	return s
}

func TestNewSceneUploadsMeshAndUniformLayout(t *testing.T) {
	gpu := newFakeGPU()
	s := newTestScene(t, gpu, WithName("spinner"), WithPipelineKey("torus"))

	assert.Equal(t, "spinner", s.Name())
	assert.Equal(t, "torus", s.PipelineKey())
	assert.Equal(t, composer.DefaultRenderState(), s.RenderState())

	p := gpu.Pipeline("torus")
	require.NotNil(t, p)
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())

	require.Len(t, gpu.streams, 2)
	assert.Len(t, gpu.streams[0], 3*model.Vec3StreamStride)
	assert.Len(t, gpu.streams[1], 3*model.Vec3StreamStride)
	assert.Equal(t, 3, gpu.indexCount)

	require.Len(t, gpu.descriptor.Entries, 1)
	entry := gpu.descriptor.Entries[0]
	assert.Equal(t, uint64(272), entry.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, entry.Visibility)
}

func TestNewSceneRejectsBadInput(t *testing.T) {
	vs, fs := assetShaders(t)

	_, err := NewScene(newFakeGPU(), nil, vs, fs)
	assert.ErrorIs(t, err, model.ErrEmptyMesh)

	broken := model.NewModel(
		model.WithPositions([][3]float32{{0, 0, 0}}),
		model.WithIndices([]uint32{0, 0, 4}),
	)
	_, err = NewScene(newFakeGPU(), broken, vs, fs)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)

	_, err = NewScene(newFakeGPU(), triangle(), fs, vs)
	assert.ErrorIs(t, err, pipeline.ErrShaderStage)

	_, err = NewScene(newFakeGPU(), triangle(), vs, fs, WithRenderState(composer.RenderState{Cull: composer.CullMode(9)}))
	assert.ErrorIs(t, err, ErrUnsupportedRenderState)

	_, err = NewScene(newFakeGPU(), triangle(), vs, fs, WithUniformVar("globals"))
	assert.ErrorIs(t, err, ErrUniformLayout)
}

func TestNewSceneRejectsUndersizedUniform(t *testing.T) {
	src := `
struct Small {
    model: mat4x4<f32>,
};
@group(0) @binding(0) var<uniform> frame: Small;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return frame.model * vec4<f32>(in.position, 1.0);
}
`
	vs, err := shader.NewShader("small", shader.ShaderTypeVertex, src)
	require.NoError(t, err)
	fs, err := shader.NewShader("flat", shader.ShaderTypeFragment, `
struct FragmentInput {
    @location(0) v_normal: vec3<f32>,
};

@fragment
fn fs_main(in: FragmentInput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.v_normal, 1.0);
}
`)
	require.NoError(t, err)

	gpu := newFakeGPU()
	_, err = NewScene(gpu, triangle(), vs, fs)
	assert.ErrorIs(t, err, ErrUniformLayout)
	assert.Empty(t, gpu.pipelines)
}

func TestPipelineOptions(t *testing.T) {
	tests := []struct {
		name      string
		state     composer.RenderState
		compare   wgpu.CompareFunction
		cull      wgpu.CullMode
		frontFace wgpu.FrontFace
	}{
		{"default", composer.DefaultRenderState(), wgpu.CompareFunctionLess, wgpu.CullModeBack, wgpu.FrontFaceCCW},
		{"ccw culled", composer.RenderState{DepthTest: composer.DepthTestAlways, Cull: composer.CullCounterClockwise}, wgpu.CompareFunctionAlways, wgpu.CullModeBack, wgpu.FrontFaceCW},
		{"no cull", composer.RenderState{Cull: composer.CullNone}, wgpu.CompareFunctionLess, wgpu.CullModeNone, wgpu.FrontFaceCCW},
	}
	vs, fs := assetShaders(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := PipelineOptions(tt.state)
			require.NoError(t, err)
			p, err := pipeline.NewPipeline("k", vs, fs, opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.compare, p.DepthCompare())
			assert.Equal(t, tt.state.DepthWrite, p.DepthWriteEnabled())
			assert.Equal(t, tt.cull, p.CullMode())
			assert.Equal(t, tt.frontFace, p.FrontFace())
		})
	}

	_, err := PipelineOptions(composer.RenderState{DepthTest: composer.DepthTest(7)})
	assert.ErrorIs(t, err, ErrUnsupportedRenderState)
}

func TestComposeOntoScene(t *testing.T) {
	gpu := newFakeGPU()
	s := newTestScene(t, gpu)
	c := composer.NewComposer(composer.WithTarget(s))

	_, err := c.Compose(1280, 720)
	require.NoError(t, err)

	assert.Equal(t, []string{"begin", "write", "draw", "end", "present"}, gpu.calls)
	require.Len(t, gpu.writes, 1)
	assert.Len(t, gpu.writes[0].Data, 272)
	assert.Equal(t, 0, gpu.writes[0].Binding)
	assert.Equal(t, []string{"spin"}, gpu.draws)
	assert.Equal(t, uint64(1), c.Frames())
}

func TestBeginFrameResizesLazily(t *testing.T) {
	gpu := newFakeGPU()
	s := newTestScene(t, gpu)

	require.NoError(t, s.BeginFrame())
	assert.Empty(t, gpu.resizes)

	s.SetFramebufferSize(800, 600)
	require.NoError(t, s.EndFrame())
	require.NoError(t, s.BeginFrame())
	assert.Equal(t, [][2]int{{800, 600}}, gpu.resizes)
}

func TestBeginFrameSkips(t *testing.T) {
	gpu := newFakeGPU()
	s := newTestScene(t, gpu)

	s.SetFramebufferSize(0, 720)
	assert.ErrorIs(t, s.BeginFrame(), composer.ErrFrameSkipped)
	assert.Empty(t, gpu.calls)

	s.SetFramebufferSize(1280, 720)
	gpu.beginErr = renderer.ErrSurfaceUnavailable
	err := s.BeginFrame()
	assert.ErrorIs(t, err, composer.ErrFrameSkipped)
	assert.ErrorIs(t, err, renderer.ErrSurfaceUnavailable)

	gpu.beginErr = errors.New("device lost")
	err = s.BeginFrame()
	require.Error(t, err)
	assert.NotErrorIs(t, err, composer.ErrFrameSkipped)
}

func TestDrawRejectsStateMismatch(t *testing.T) {
	s := newTestScene(t, newFakeGPU())

	err := s.Draw(composer.DrawCall{State: composer.RenderState{DepthTest: composer.DepthTestAlways}})
	assert.ErrorIs(t, err, ErrRenderStateMismatch)
	assert.NoError(t, s.Draw(composer.DrawCall{State: composer.DefaultRenderState()}))
}

func TestWriteUniformsChecksSize(t *testing.T) {
	s := newTestScene(t, newFakeGPU())
	assert.ErrorIs(t, s.WriteUniforms(make([]byte, 64)), ErrUniformSize)
	assert.NoError(t, s.WriteUniforms(make([]byte, 272)))
}

func TestReleaseIsIdempotent(t *testing.T) {
	gpu := newFakeGPU()
	s := newTestScene(t, gpu)
	require.NoError(t, s.BeginFrame())

	require.NoError(t, s.Release())
	require.NoError(t, s.Release())
	assert.Equal(t, []string{"begin", "end"}, gpu.calls)
	assert.ErrorIs(t, s.BeginFrame(), ErrReleased)
	assert.ErrorIs(t, s.Draw(composer.DrawCall{State: composer.DefaultRenderState()}), ErrReleased)
}
