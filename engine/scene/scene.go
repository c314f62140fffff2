package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/spinner/engine/composer"
	"github.com/Carmen-Shannon/spinner/engine/model"
	"github.com/Carmen-Shannon/spinner/engine/renderer"
	"github.com/Carmen-Shannon/spinner/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/spinner/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/spinner/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/rs/zerolog/log"
)

var (
	// ErrRenderStateMismatch is returned by Draw when the requested state differs from the state
	// the scene's pipeline was built with.
	ErrRenderStateMismatch = errors.New("draw render state does not match pipeline")

	// ErrUnsupportedRenderState is returned by NewScene for a depth test or cull mode with no
	// pipeline equivalent.
	ErrUnsupportedRenderState = errors.New("unsupported render state")

	// ErrUniformLayout is returned by NewScene when the shaders do not declare the frame uniform
	// buffer at group 0 with the size of composer.GPUUniformBundle.
	ErrUniformLayout = errors.New("frame uniform layout mismatch")

	// ErrUniformSize is returned by WriteUniforms for a payload of the wrong length.
	ErrUniformSize = errors.New("uniform payload size mismatch")

	// ErrReleased is returned by frame calls after Release.
	ErrReleased = errors.New("scene released")
)

// GPU is the part of renderer.Renderer the scene drives.
type GPU interface {
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	Pipeline(key string) pipeline.Pipeline
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexStreams [][]byte, indexData []byte, indexCount int) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error
	WriteBuffers(writes []bind_group_provider.BufferWrite) error
	Resize(width, height int) error
	SurfaceSize() (width, height int)
	BeginFrame() error
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error
	EndFrame() error
	Present() error
}

var _ GPU = renderer.Renderer(nil)

// scene is the implementation of the Scene interface.
type scene struct {
	name        string
	pipelineKey string
	uniformVar  string
	state       composer.RenderState

	gpu      GPU
	mesh     bind_group_provider.BindGroupProvider
	uniforms bind_group_provider.BindGroupProvider

	uniformBinding int
	uniformSize    int

	width, height int
	inFrame       bool
	released      bool
	releaseOnce   sync.Once
}

// Scene is the single drawable object bound to the GPU: one mesh, one pipeline and one frame
// uniform buffer. It is the draw target the composer renders each frame onto.
//
// All calls happen on the loop thread.
type Scene interface {
	composer.Target

	// Name returns the scene's label, used for GPU object labels and log fields.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// PipelineKey returns the key of the registered render pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// RenderState returns the state the pipeline was built with. Draw rejects any other.
	//
	// Returns:
	//   - composer.RenderState: the pipeline's state
	RenderState() composer.RenderState

	// SetFramebufferSize records the window's framebuffer size. The surface is reconfigured at
	// the next BeginFrame when it differs from the configured size; a zero dimension skips frames
	// until a usable size arrives.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	SetFramebufferSize(width, height int)

	// Release frees the mesh and uniform buffers. The pipeline belongs to the renderer.
	// Safe to call more than once.
	//
	// Returns:
	//   - error: always nil; the signature matches the loop driver's releaser
	Release() error
}

var _ Scene = &scene{}

// NewScene builds the render pipeline for the shaders and uploads the mesh.
//
// Parameters:
//   - gpu: the renderer
//   - mesh: a validated static mesh
//   - vertexShader: the vertex stage declaring the frame uniform buffer at group 0
//   - fragmentShader: the fragment stage
//   - options: functional options for name, pipeline key and render state
//
// Returns:
//   - Scene: the scene, ready to be set as the composer's target
//   - error: an error if the mesh, the render state or the shader layout is unusable, or a GPU
//     resource could not be created
func NewScene(gpu GPU, mesh model.Model, vertexShader, fragmentShader shader.Shader, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		name:        "scene",
		pipelineKey: "spin",
		uniformVar:  "frame",
		state:       composer.DefaultRenderState(),
		gpu:         gpu,
	}
	for _, option := range options {
		option(s)
	}

	if mesh == nil {
		return nil, fmt.Errorf("scene %s: %w", s.name, model.ErrEmptyMesh)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.name, err)
	}

	pipeOpts, err := PipelineOptions(s.state)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.name, err)
	}
	p, err := pipeline.NewPipeline(s.pipelineKey, vertexShader, fragmentShader, pipeOpts...)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.name, err)
	}

	descriptor, err := s.resolveUniformLayout(p, vertexShader)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", s.name, err)
	}

	if err := gpu.RegisterPipelines(p); err != nil {
		return nil, fmt.Errorf("scene %s: register pipeline: %w", s.name, err)
	}

	s.mesh = bind_group_provider.NewBindGroupProvider(s.name + " mesh")
	streams := [][]byte{mesh.PositionData(), mesh.NormalData()}
	if err := gpu.InitMeshBuffers(s.mesh, streams, mesh.IndexData(), mesh.IndexCount()); err != nil {
		s.mesh.Release()
		return nil, fmt.Errorf("scene %s: upload mesh: %w", s.name, err)
	}

	s.uniforms = bind_group_provider.NewBindGroupProvider(s.name + " uniforms")
	if err := gpu.InitBindGroup(s.uniforms, descriptor, nil); err != nil {
		s.mesh.Release()
		s.uniforms.Release()
		return nil, fmt.Errorf("scene %s: uniform bind group: %w", s.name, err)
	}

	s.width, s.height = gpu.SurfaceSize()

	log.Info().
		Str("scene", s.name).
		Str("pipeline", s.pipelineKey).
		Int("vertices", mesh.VertexCount()).
		Int("indices", mesh.IndexCount()).
		Int("uniformBytes", s.uniformSize).
		Msg("scene ready")
	return s, nil
}

// resolveUniformLayout finds the frame uniform binding in group 0 of the merged layout and checks
// it is a uniform buffer sized for composer.GPUUniformBundle.
func (s *scene) resolveUniformLayout(p pipeline.Pipeline, vertexShader shader.Shader) (wgpu.BindGroupLayoutDescriptor, error) {
	descriptor, ok := p.BindGroupLayoutDescriptors()[0]
	if !ok {
		return descriptor, fmt.Errorf("%w: no group 0", ErrUniformLayout)
	}
	binding, ok := vertexShader.BindGroupFromVarName(0, s.uniformVar)
	if !ok {
		return descriptor, fmt.Errorf("%w: no %q in group 0", ErrUniformLayout, s.uniformVar)
	}

	want := (&composer.GPUUniformBundle{}).Size()
	for _, entry := range descriptor.Entries {
		if int(entry.Binding) != binding {
			continue
		}
		if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
			return descriptor, fmt.Errorf("%w: %q is not a uniform buffer", ErrUniformLayout, s.uniformVar)
		}
		if int(entry.Buffer.MinBindingSize) != want {
			return descriptor, fmt.Errorf("%w: %q is %d bytes, want %d", ErrUniformLayout, s.uniformVar, entry.Buffer.MinBindingSize, want)
		}
		s.uniformBinding = binding
		s.uniformSize = want
		return descriptor, nil
	}
	return descriptor, fmt.Errorf("%w: binding %d missing from layout", ErrUniformLayout, binding)
}

// PipelineOptions maps a composer render state to pipeline options.
// Culling is expressed in screen-space winding: CullClockwise keeps counter-clockwise triangles
// as front faces and discards back faces.
//
// Parameters:
//   - state: the render state
//
// Returns:
//   - []pipeline.PipelineBuilderOption: the depth and rasterizer options
//   - error: ErrUnsupportedRenderState for an unknown depth test or cull mode
func PipelineOptions(state composer.RenderState) ([]pipeline.PipelineBuilderOption, error) {
	var opts []pipeline.PipelineBuilderOption

	switch state.DepthTest {
	case composer.DepthTestLess:
		opts = append(opts, pipeline.WithDepthCompare(wgpu.CompareFunctionLess))
	case composer.DepthTestAlways:
		opts = append(opts, pipeline.WithDepthCompare(wgpu.CompareFunctionAlways))
	default:
		return nil, fmt.Errorf("%w: depth test %d", ErrUnsupportedRenderState, state.DepthTest)
	}
	opts = append(opts, pipeline.WithDepthWriteEnabled(state.DepthWrite))

	switch state.Cull {
	case composer.CullNone:
		opts = append(opts, pipeline.WithCullMode(wgpu.CullModeNone))
	case composer.CullClockwise:
		opts = append(opts, pipeline.WithFrontFace(wgpu.FrontFaceCCW), pipeline.WithCullMode(wgpu.CullModeBack))
	case composer.CullCounterClockwise:
		opts = append(opts, pipeline.WithFrontFace(wgpu.FrontFaceCW), pipeline.WithCullMode(wgpu.CullModeBack))
	default:
		return nil, fmt.Errorf("%w: cull mode %d", ErrUnsupportedRenderState, state.Cull)
	}
	return opts, nil
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) PipelineKey() string {
	return s.pipelineKey
}

func (s *scene) RenderState() composer.RenderState {
	return s.state
}

func (s *scene) SetFramebufferSize(width, height int) {
	s.width, s.height = width, height
}

func (s *scene) BeginFrame() error {
	if s.released {
		return ErrReleased
	}
	if s.width <= 0 || s.height <= 0 {
		return composer.ErrFrameSkipped
	}
	if w, h := s.gpu.SurfaceSize(); w != s.width || h != s.height {
		if err := s.gpu.Resize(s.width, s.height); err != nil {
			return fmt.Errorf("resize to %dx%d: %w", s.width, s.height, err)
		}
		log.Debug().Str("scene", s.name).Int("width", s.width).Int("height", s.height).Msg("surface resized")
	}
	if err := s.gpu.BeginFrame(); err != nil {
		if errors.Is(err, renderer.ErrSurfaceUnavailable) {
			return fmt.Errorf("%w: %w", composer.ErrFrameSkipped, err)
		}
		return err
	}
	s.inFrame = true
	return nil
}

func (s *scene) WriteUniforms(data []byte) error {
	if s.released {
		return ErrReleased
	}
	if len(data) != s.uniformSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrUniformSize, len(data), s.uniformSize)
	}
	return s.gpu.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.uniforms,
		Binding:  s.uniformBinding,
		Offset:   0,
		Data:     data,
	}})
}

func (s *scene) Draw(call composer.DrawCall) error {
	if s.released {
		return ErrReleased
	}
	if call.State != s.state {
		return fmt.Errorf("%w: got %+v, pipeline %+v", ErrRenderStateMismatch, call.State, s.state)
	}
	return s.gpu.DrawCall(s.pipelineKey, s.mesh, []bind_group_provider.BindGroupProvider{s.uniforms})
}

func (s *scene) EndFrame() error {
	if s.released {
		return ErrReleased
	}
	s.inFrame = false
	return s.gpu.EndFrame()
}

func (s *scene) Present() error {
	if s.released {
		return ErrReleased
	}
	return s.gpu.Present()
}

func (s *scene) Release() error {
	s.releaseOnce.Do(func() {
		if s.inFrame {
			// close the open pass so the renderer does not hold references to released buffers
			if err := s.gpu.EndFrame(); err != nil {
				log.Warn().Err(err).Str("scene", s.name).Msg("end frame on release")
			}
			s.inFrame = false
		}
		s.uniforms.Release()
		s.mesh.Release()
		s.released = true
	})
	return nil
}
