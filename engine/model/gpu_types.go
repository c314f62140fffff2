package model

import (
	"encoding/binary"
	"math"
)

// Vec3StreamStride is the byte stride of one vec3<f32> vertex attribute in a tightly packed stream.
const Vec3StreamStride = 12

// MarshalVec3Stream packs vec3 attributes into a little-endian float32 stream, 12 bytes per element.
// The result matches a vertex buffer layout of Float32x3 at offset 0.
//
// Parameters:
//   - values: the attribute values in vertex order
//
// Returns:
//   - []byte: the packed stream
func MarshalVec3Stream(values [][3]float32) []byte {
	buf := make([]byte, len(values)*Vec3StreamStride)
	for i, v := range values {
		off := i * Vec3StreamStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v[2]))
	}
	return buf
}

// MarshalIndices packs uint32 indices little-endian for an IndexFormatUint32 buffer.
//
// Parameters:
//   - indices: the triangle list indices
//
// Returns:
//   - []byte: the packed index buffer
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// ComputeBoundingRadius returns the largest distance of any position from the model origin.
//
// Parameters:
//   - positions: the vertex positions
//
// Returns:
//   - float32: the bounding sphere radius around the origin
func ComputeBoundingRadius(positions [][3]float32) float32 {
	var maxDistSq float32
	for _, p := range positions {
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}

// ComputeBounds returns the axis-aligned box enclosing every position.
// An empty slice yields the zero box.
func ComputeBounds(positions [][3]float32) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		for axis := range 3 {
			b.Min[axis] = min(b.Min[axis], p[axis])
			b.Max[axis] = max(b.Max[axis], p[axis])
		}
	}
	return b
}

// ComputeSmoothNormals derives per-vertex normals by accumulating the area-weighted face normal of
// every triangle that references the vertex. Front faces are counter-clockwise on screen under the
// left-handed view (+X right, +Y up, +Z forward), so the face normal is edge2 x edge1.
// Vertices touched only by degenerate triangles, or by none, receive +Y.
// Out-of-range triangles are skipped.
//
// Parameters:
//   - positions: the vertex positions
//   - indices: the triangle list indices
//
// Returns:
//   - [][3]float32: one unit normal per position
func ComputeSmoothNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	n := len(positions)
	accum := make([][3]float32, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}

		p0, p1, p2 := positions[i0], positions[i1], positions[i2]
		edge1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		edge2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}

		// length proportional to triangle area
		face := [3]float32{
			edge2[1]*edge1[2] - edge2[2]*edge1[1],
			edge2[2]*edge1[0] - edge2[0]*edge1[2],
			edge2[0]*edge1[1] - edge2[1]*edge1[0],
		}

		for _, idx := range [3]uint32{i0, i1, i2} {
			accum[idx][0] += face[0]
			accum[idx][1] += face[1]
			accum[idx][2] += face[2]
		}
	}

	normals := make([][3]float32, n)
	for i, a := range accum {
		length := float32(math.Sqrt(float64(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])))
		if length < 1e-6 {
			normals[i] = [3]float32{0, 1, 0}
			continue
		}
		inv := 1 / length
		normals[i] = [3]float32{a[0] * inv, a[1] * inv, a[2] * inv}
	}
	return normals
}
