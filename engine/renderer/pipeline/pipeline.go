package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/spinner/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrShaderStage is returned by NewPipeline when a shader is missing or bound to the wrong stage.
var ErrShaderStage = errors.New("pipeline shader stage mismatch")

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// bindGroupLayouts merges both stages' declarations; set once in NewPipeline.
	bindGroupLayouts map[int]wgpu.BindGroupLayoutDescriptor

	// renderPipeline is nil until the renderer registers this pipeline.
	renderPipeline *wgpu.RenderPipeline

	depthCompare      wgpu.CompareFunction
	depthWriteEnabled bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
}

// Pipeline describes a render pipeline: a vertex and fragment shader pair plus the fixed
// function state (depth, culling, winding, topology) it is created with.
// The GPU object is created by the renderer and stored back with SetRenderPipeline.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader bound to the given stage.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader for that stage, or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayoutDescriptors returns the bind group layouts of both stages merged by group and
	// binding. A binding declared by both stages is visible to both.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: merged descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// RenderPipeline returns the GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the created pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// DepthCompare returns the depth comparison function. CompareFunctionAlways disables the test.
	//
	// Returns:
	//   - wgpu.CompareFunction: the depth comparison
	DepthCompare() wgpu.CompareFunction

	// DepthWriteEnabled returns whether fragments that pass the depth test write their depth.
	//
	// Returns:
	//   - bool: true if depth writing is enabled
	DepthWriteEnabled() bool

	// CullMode returns which faces are discarded.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the winding order that counts as front facing.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// SetRenderPipeline stores the GPU pipeline created by the renderer.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the GPU pipeline. Safe to call more than once.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. Defaults are a triangle list with a Less
// depth test, depth writes, counter-clockwise front faces and no culling.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - vertexShader: a shader parsed as ShaderTypeVertex
//   - fragmentShader: a shader parsed as ShaderTypeFragment
//   - opts: functional options overriding the fixed function state
//
// Returns:
//   - Pipeline: the pipeline description
//   - error: ErrShaderStage if a shader is nil or of the wrong type
func NewPipeline(pipelineKey string, vertexShader, fragmentShader shader.Shader, opts ...PipelineBuilderOption) (Pipeline, error) {
	if vertexShader == nil || vertexShader.ShaderType() != shader.ShaderTypeVertex {
		return nil, fmt.Errorf("pipeline %s: vertex: %w", pipelineKey, ErrShaderStage)
	}
	if fragmentShader == nil || fragmentShader.ShaderType() != shader.ShaderTypeFragment {
		return nil, fmt.Errorf("pipeline %s: fragment: %w", pipelineKey, ErrShaderStage)
	}

	p := &pipeline{
		pipelineKey:       pipelineKey,
		vertexShader:      vertexShader,
		fragmentShader:    fragmentShader,
		depthCompare:      wgpu.CompareFunctionLess,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bindGroupLayouts = mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	return p, nil
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayouts
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}

// mergeBindGroupLayouts combines per-stage layouts. Entries sharing a group and binding are
// merged into one entry whose visibility is the union of both stages and whose minimum buffer
// size is the larger of the two.
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	entries := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	labels := make(map[int]string)

	for _, stage := range []map[int]wgpu.BindGroupLayoutDescriptor{vertexLayouts, fragmentLayouts} {
		for g, desc := range stage {
			if entries[g] == nil {
				entries[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
				labels[g] = desc.Label
			}
			for _, e := range desc.Entries {
				if existing, ok := entries[g][e.Binding]; ok {
					existing.Visibility |= e.Visibility
					existing.Buffer.MinBindingSize = max(existing.Buffer.MinBindingSize, e.Buffer.MinBindingSize)
					entries[g][e.Binding] = existing
					continue
				}
				entries[g][e.Binding] = e
			}
		}
	}

	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, byBinding := range entries {
		flat := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
		for _, e := range byBinding {
			flat = append(flat, e)
		}
		sort.Slice(flat, func(i, j int) bool {
			return flat[i].Binding < flat[j].Binding
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   labels[g],
			Entries: flat,
		}
	}
	return merged
}
