package common

import (
	"math"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// SignedDistance returns the distance of p from the plane, positive on the normal's side.
// Only meaningful for a normalized plane.
func (p Plane) SignedDistance(point [3]float32) float32 {
	return p.Normal[0]*point[0] + p.Normal[1]*point[1] + p.Normal[2]*point[2] + p.Distance
}

// Frustum represents the six planes of a view frustum.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts the frustum planes of a row-major clip matrix (Gribb/Hartmann).
// Pass Projection*View for world-space planes, or Projection*View*Model for model-space planes.
//
// Parameters:
//   - clip: the combined matrix mapping points to clip space
//   - depth: the clip-space depth convention the projection was built with
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(clip Mat4, depth DepthRange) Frustum {
	var f Frustum
	r0, r1, r2, r3 := clip[0], clip[1], clip[2], clip[3]

	f.Planes[FrustumLeft] = planeFromRow(addRow(r3, r0))
	f.Planes[FrustumRight] = planeFromRow(subRow(r3, r0))
	f.Planes[FrustumBottom] = planeFromRow(addRow(r3, r1))
	f.Planes[FrustumTop] = planeFromRow(subRow(r3, r1))
	if depth == DepthNegOneToOne {
		f.Planes[FrustumNear] = planeFromRow(addRow(r3, r2))
	} else {
		// z_clip >= 0
		f.Planes[FrustumNear] = planeFromRow(r2)
	}
	f.Planes[FrustumFar] = planeFromRow(subRow(r3, r2))

	for i := range f.Planes {
		f.normalizePlane(i)
	}
	return f
}

// IntersectsSphere reports whether any part of the sphere lies inside the frustum.
// Spheres near a frustum corner may be reported as intersecting when they are just outside.
//
// Parameters:
//   - center: the sphere center in the frustum's space
//   - radius: the sphere radius
//
// Returns:
//   - bool: false only when the sphere is entirely behind one plane
func (f Frustum) IntersectsSphere(center [3]float32, radius float32) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(center) < -radius {
			return false
		}
	}
	return true
}

func addRow(a, b [4]float32) [4]float32 {
	return [4]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func subRow(a, b [4]float32) [4]float32 {
	return [4]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func planeFromRow(r [4]float32) Plane {
	return Plane{Normal: [3]float32{r[0], r[1], r[2]}, Distance: r[3]}
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := float32(math.Sqrt(float64(
		p.Normal[0]*p.Normal[0] +
			p.Normal[1]*p.Normal[1] +
			p.Normal[2]*p.Normal[2],
	)))

	if length > 0 {
		invLen := 1.0 / length
		p.Normal[0] *= invLen
		p.Normal[1] *= invLen
		p.Normal[2] *= invLen
		p.Distance *= invLen
	}
}
