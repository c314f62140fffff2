package model

import (
	"fmt"
)

// model is the implementation of the Model interface.
type model struct {
	name      string
	positions [][3]float32
	normals   [][3]float32
	indices   []uint32

	boundingRadius float32
	bounds         Bounds
}

// Model is a static indexed triangle mesh in model space: one position and one normal per vertex
// and a uint32 triangle list. It is immutable once built and holds no GPU resources; the scene
// uploads its byte streams once at startup.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Positions retrieves the vertex positions.
	//
	// Returns:
	//   - [][3]float32: one position per vertex
	Positions() [][3]float32

	// Normals retrieves the vertex normals.
	//
	// Returns:
	//   - [][3]float32: one unit normal per vertex
	Normals() [][3]float32

	// Indices retrieves the triangle list.
	//
	// Returns:
	//   - []uint32: three indices per triangle
	Indices() []uint32

	// VertexCount returns the number of vertices.
	VertexCount() int

	// IndexCount returns the number of indices.
	IndexCount() int

	// BoundingRadius returns the largest distance of any vertex from the model origin.
	BoundingRadius() float32

	// Bounds returns the axis-aligned box enclosing the mesh.
	Bounds() Bounds

	// PositionData returns the positions packed as a Float32x3 vertex stream.
	PositionData() []byte

	// NormalData returns the normals packed as a Float32x3 vertex stream.
	NormalData() []byte

	// IndexData returns the indices packed for a uint32 index buffer.
	IndexData() []byte

	// Validate checks the mesh is drawable: non-empty, one normal per position, whole triangles,
	// and every index inside the vertex range.
	//
	// Returns:
	//   - error: ErrEmptyMesh, ErrAttributeMismatch, ErrPartialTriangle or ErrIndexOutOfRange
	Validate() error
}

var _ Model = &model{}

// NewModel creates a Model from the provided options. Normals are derived from the triangles when
// none were supplied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the new model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, option := range options {
		option(m)
	}
	if len(m.normals) == 0 && len(m.positions) > 0 {
		m.normals = ComputeSmoothNormals(m.positions, m.indices)
	}
	m.boundingRadius = ComputeBoundingRadius(m.positions)
	m.bounds = ComputeBounds(m.positions)
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Positions() [][3]float32 {
	return m.positions
}

func (m *model) Normals() [][3]float32 {
	return m.normals
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) VertexCount() int {
	return len(m.positions)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Bounds() Bounds {
	return m.bounds
}

func (m *model) PositionData() []byte {
	return MarshalVec3Stream(m.positions)
}

func (m *model) NormalData() []byte {
	return MarshalVec3Stream(m.normals)
}

func (m *model) IndexData() []byte {
	return MarshalIndices(m.indices)
}

func (m *model) Validate() error {
	if len(m.positions) == 0 || len(m.indices) == 0 {
		return fmt.Errorf("%s: %w", m.name, ErrEmptyMesh)
	}
	if len(m.normals) != len(m.positions) {
		return fmt.Errorf("%s: %d normals for %d positions: %w", m.name, len(m.normals), len(m.positions), ErrAttributeMismatch)
	}
	if len(m.indices)%3 != 0 {
		return fmt.Errorf("%s: %d indices: %w", m.name, len(m.indices), ErrPartialTriangle)
	}
	count := uint32(len(m.positions))
	for i, idx := range m.indices {
		if idx >= count {
			return fmt.Errorf("%s: index %d at %d, vertex count %d: %w", m.name, idx, i, count, ErrIndexOutOfRange)
		}
	}
	return nil
}
