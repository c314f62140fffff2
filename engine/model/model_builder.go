package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPositions is an option builder that sets the vertex positions of the Model.
//
// Parameters:
//   - positions: one model-space position per vertex
//
// Returns:
//   - ModelBuilderOption: a function that applies the positions option to a model
func WithPositions(positions [][3]float32) ModelBuilderOption {
	return func(m *model) {
		m.positions = positions
	}
}

// WithNormals is an option builder that sets the vertex normals of the Model.
// When omitted, smooth normals are computed from the triangles.
//
// Parameters:
//   - normals: one unit normal per vertex
//
// Returns:
//   - ModelBuilderOption: a function that applies the normals option to a model
func WithNormals(normals [][3]float32) ModelBuilderOption {
	return func(m *model) {
		m.normals = normals
	}
}

// WithIndices is an option builder that sets the triangle list of the Model.
//
// Parameters:
//   - indices: three indices per triangle
//
// Returns:
//   - ModelBuilderOption: a function that applies the indices option to a model
func WithIndices(indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.indices = indices
	}
}
