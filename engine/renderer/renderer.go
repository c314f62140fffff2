package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/spinner/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/spinner/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceSource is what the renderer needs from a window: a surface to present into and
// its initial framebuffer size.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount

	releaseOnce sync.Once
}

// Renderer is the GPU facade used by the scene: it owns the device and the surface, caches
// render pipelines by key, uploads mesh and uniform buffers and records one render pass per frame.
//
// A frame is BeginFrame, any number of DrawCall, EndFrame, then Present.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU render pipeline for each description and caches it by
	// PipelineKey. Keys already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface and its depth and MSAA targets for a new framebuffer size.
	// A zero dimension is ignored; the surface keeps its previous configuration.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if a target could not be recreated
	Resize(width, height int) error

	// SurfaceSize returns the size the surface is currently configured for.
	//
	// Returns:
	//   - width, height: the configured size in pixels
	SurfaceSize() (width, height int)

	// InitMeshBuffers uploads immutable per-attribute vertex buffers and a uint32 index buffer
	// and stores them on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexStreams: raw bytes per vertex attribute in slot order
	//   - indexData: the raw index data bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexStreams [][]byte, indexData []byte, indexCount int) error

	// InitBindGroup creates the buffers and the bind group described by a layout descriptor and
	// stores them on the provider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferSizeOverrides: custom buffer sizes keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// WriteBuffers queues buffer writes on the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	//
	// Returns:
	//   - error: an error if a write has no target buffer
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the swapchain image and begins the main render pass.
	//
	// Returns:
	//   - error: ErrSurfaceUnavailable if no image was available this frame, or another error
	BeginFrame() error

	// DrawCall encodes one indexed draw within the current render pass.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - bindGroups: providers whose bind groups are set at group indices 0..n-1
	//
	// Returns:
	//   - error: ErrPipelineNotFound or ErrNoFrame
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the command buffer.
	//
	// Returns:
	//   - error: ErrNoFrame or a submission error
	EndFrame() error

	// Present displays the frame.
	//
	// Returns:
	//   - error: ErrNoFrame if no image is held
	Present() error

	// SetPresentMode changes the present mode; it takes effect at the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Release frees every cached pipeline, then the device and the surface.
	// Buffers owned by providers must be released by their owners first.
	// Safe to call more than once.
	//
	// Returns:
	//   - error: always nil; the signature matches the loop driver's releaser
	Release() error
}

var _ Renderer = &renderer{}

// NewRenderer creates the GPU device for the window's surface and configures the surface at the
// window's current size.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - window: the surface source, usually the engine window
//   - options: functional options for present mode, MSAA and adapter selection
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if no adapter or device is available or the surface cannot be configured
func NewRenderer(backendType RendererBackendType, window SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		msaa:          MSAA4x,
	}

	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(window.Width(), window.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("configure surface: %w", err)
	}
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SurfaceSize() (width, height int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexStreams [][]byte, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexStreams, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferSizeOverrides)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	return r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, pipelineKey)
	}
	return r.backend.DrawCall(p, meshProvider, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() error {
	return r.backend.Present()
}

func (r *renderer) Release() error {
	r.releaseOnce.Do(func() {
		r.mu.Lock()
		for key, p := range r.pipelineCache {
			p.Release()
			delete(r.pipelineCache, key)
		}
		r.mu.Unlock()
		r.backend.Release()
	})
	return nil
}
