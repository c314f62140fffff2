package model

import "errors"

var (
	// ErrEmptyMesh is returned by Validate when the mesh has no vertices or no triangles.
	ErrEmptyMesh = errors.New("mesh has no geometry")

	// ErrIndexOutOfRange is returned by Validate when an index refers past the vertex count.
	ErrIndexOutOfRange = errors.New("mesh index out of range")

	// ErrAttributeMismatch is returned by Validate when normals and positions differ in count.
	ErrAttributeMismatch = errors.New("mesh attribute count mismatch")

	// ErrPartialTriangle is returned by Validate when the index count is not a multiple of three.
	ErrPartialTriangle = errors.New("mesh index count is not a multiple of 3")
)

// Bounds is an axis-aligned bounding box in model space.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) * 0.5,
		(b.Min[1] + b.Max[1]) * 0.5,
		(b.Min[2] + b.Max[2]) * 0.5,
	}
}

// Extent returns the size of the box along each axis.
func (b Bounds) Extent() [3]float32 {
	return [3]float32{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}
