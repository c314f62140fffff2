package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a wgpu vertex format with its size in bytes.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout is the size and alignment of a WGSL host-shareable type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one member of a WGSL struct. location is -1 when the member has no @location.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}
