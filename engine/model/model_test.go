package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quad is a unit square in the XY plane, wound counter-clockwise on screen for a camera at -Z
// looking down +Z, so its front face points at -Z.
func quad() []ModelBuilderOption {
	return []ModelBuilderOption{
		WithName("quad"),
		WithPositions([][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}),
		WithIndices([]uint32{0, 1, 2, 0, 2, 3}),
	}
}

func TestNewModelComputesNormals(t *testing.T) {
	m := NewModel(quad()...)
	require.NoError(t, m.Validate())

	require.Len(t, m.Normals(), 4)
	for _, n := range m.Normals() {
		assert.InDelta(t, 0, n[0], 1e-6)
		assert.InDelta(t, 0, n[1], 1e-6)
		assert.InDelta(t, -1, n[2], 1e-6)
	}
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 6, m.IndexCount())
	assert.InDelta(t, math.Sqrt2, m.BoundingRadius(), 1e-6)
	assert.Equal(t, Bounds{Max: [3]float32{1, 1, 0}}, m.Bounds())
	assert.Equal(t, [3]float32{0.5, 0.5, 0}, m.Bounds().Center())
}

func TestNewModelKeepsSuppliedNormals(t *testing.T) {
	normals := [][3]float32{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}, {1, 0, 0}}
	m := NewModel(append(quad(), WithNormals(normals))...)
	assert.Equal(t, normals, m.Normals())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ModelBuilderOption
		wantErr error
	}{
		{"empty", nil, ErrEmptyMesh},
		{"no indices", []ModelBuilderOption{WithPositions([][3]float32{{0, 0, 0}})}, ErrEmptyMesh},
		{"partial triangle", []ModelBuilderOption{
			WithPositions([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
			WithIndices([]uint32{0, 1}),
		}, ErrPartialTriangle},
		{"index out of range", []ModelBuilderOption{
			WithPositions([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
			WithIndices([]uint32{0, 1, 3}),
		}, ErrIndexOutOfRange},
		{"normal count", []ModelBuilderOption{
			WithPositions([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
			WithNormals([][3]float32{{0, 0, 1}}),
			WithIndices([]uint32{0, 1, 2}),
		}, ErrAttributeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModel(tt.opts...).Validate()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStreams(t *testing.T) {
	m := NewModel(quad()...)

	pos := m.PositionData()
	require.Len(t, pos, 4*Vec3StreamStride)
	// vertex 2 is (1, 1, 0)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(pos[24:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(pos[28:])))
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(pos[32:])))

	assert.Len(t, m.NormalData(), 4*Vec3StreamStride)

	idx := m.IndexData()
	require.Len(t, idx, 24)
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(idx[20:]))
}

func TestComputeSmoothNormalsDegenerate(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {5, 5, 5}}
	normals := ComputeSmoothNormals(positions, []uint32{0, 1, 2, 0, 1, 9})
	for _, n := range normals {
		assert.Equal(t, [3]float32{0, 1, 0}, n)
	}
}

func TestComputeBoundsEmpty(t *testing.T) {
	assert.Equal(t, Bounds{}, ComputeBounds(nil))
}
