package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat4 is a 4x4 homogeneous transform stored row-major: m[row][col].
// Vectors are treated as columns, so a point p is transformed as M·p and
// A.Mul(B) applies B first, then A.
//
// WGSL expects mat4x4<f32> column by column; use ColumnMajor when uploading.
type Mat4 [4][4]float32

// DepthRange selects the clip-space depth convention produced by PerspectiveRange.
type DepthRange int

const (
	// DepthZeroToOne maps the near plane to 0 and the far plane to 1 (WebGPU, Vulkan, D3D).
	DepthZeroToOne DepthRange = iota

	// DepthNegOneToOne maps the near plane to -1 and the far plane to 1 (OpenGL).
	DepthNegOneToOne
)

// parallelEpsilon is the squared cross-product length below which two directions are
// treated as parallel by LookAt.
const parallelEpsilon = 1e-12

// Identity returns the 4x4 identity matrix.
//
// Returns:
//   - Mat4: the identity matrix
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul multiplies two matrices and returns m·o.
//
// Parameters:
//   - o: right-hand matrix (applied first to a column vector)
//
// Returns:
//   - Mat4: the product m·o
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[row][k] * o[k][col]
			}
			out[row][col] = sum
		}
	}
	return out
}

// MulVec4 transforms the column vector v by m.
//
// Parameters:
//   - v: homogeneous column vector
//
// Returns:
//   - [4]float32: the transformed vector m·v
func (m Mat4) MulVec4(v [4]float32) [4]float32 {
	var out [4]float32
	for row := 0; row < 4; row++ {
		out[row] = m[row][0]*v[0] + m[row][1]*v[1] + m[row][2]*v[2] + m[row][3]*v[3]
	}
	return out
}

// Transpose returns the transpose of m.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col][row] = m[row][col]
		}
	}
	return out
}

// ColumnMajor flattens m column by column, the layout WGSL uses for mat4x4<f32>.
//
// Returns:
//   - [16]float32: the flattened matrix, element (row, col) at index col*4+row
func (m Mat4) ColumnMajor() [16]float32 {
	var out [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = m[row][col]
		}
	}
	return out
}

// ApproxEqual reports whether every element of m is within eps of the matching element of o.
//
// Parameters:
//   - o: the matrix to compare against
//   - eps: absolute per-element tolerance
//
// Returns:
//   - bool: true if all 16 elements are within tolerance
func (m Mat4) ApproxEqual(o Mat4, eps float32) bool {
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			d := m[row][col] - o[row][col]
			if d > eps || d < -eps {
				return false
			}
		}
	}
	return true
}

// RotationBlock returns m with its translation column and projective row reset, leaving
// only the upper-left 3x3 block.
func (m Mat4) RotationBlock() Mat4 {
	out := Identity()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row][col] = m[row][col]
		}
	}
	return out
}

// SinCos returns the sine and cosine of angle in single precision.
func SinCos(angle float32) (sin, cos float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}

// RotationX returns the right-hand-rule rotation of angle radians about the X axis (pitch).
func RotationX(angle float32) Mat4 {
	return RotationXSinCos(SinCos(angle))
}

// RotationY returns the right-hand-rule rotation of angle radians about the Y axis (yaw).
func RotationY(angle float32) Mat4 {
	return RotationYSinCos(SinCos(angle))
}

// RotationZ returns the right-hand-rule rotation of angle radians about the Z axis (roll).
func RotationZ(angle float32) Mat4 {
	return RotationZSinCos(SinCos(angle))
}

// RotationXSinCos builds the X-axis rotation from a precomputed sine/cosine pair.
func RotationXSinCos(s, c float32) Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotationYSinCos builds the Y-axis rotation from a precomputed sine/cosine pair.
func RotationYSinCos(s, c float32) Mat4 {
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotationZSinCos builds the Z-axis rotation from a precomputed sine/cosine pair.
func RotationZSinCos(s, c float32) Mat4 {
	return Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// ScaleAndTranslate returns a matrix that scales uniformly by s about the local origin and
// then offsets the result by (dx, dy, dz). ScaleAndTranslate(0, 0, 0, 1) is exactly Identity().
//
// Parameters:
//   - dx, dy, dz: world-space translation
//   - s: uniform scale factor
//
// Returns:
//   - Mat4: the combined scale-then-translate matrix
func ScaleAndTranslate(dx, dy, dz, s float32) Mat4 {
	return Mat4{
		{s, 0, 0, dx},
		{0, s, 0, dy},
		{0, 0, s, dz},
		{0, 0, 0, 1},
	}
}

// LookAt builds a view matrix for a camera at eye facing along direction.
// Camera space is +X right, +Y up, +Z forward.
//
// direction does not need to be unit length. If up is parallel to direction the right
// vector is undefined; in that case a substitute up axis is used so the result stays finite.
// A zero direction is treated as +Z.
//
// Parameters:
//   - eye: camera position in world space
//   - direction: forward direction in world space
//   - up: up hint, must not be parallel to direction
//
// Returns:
//   - Mat4: the world-to-camera transform
func LookAt(eye, direction, up mgl32.Vec3) Mat4 {
	if direction.LenSqr() == 0 {
		direction = mgl32.Vec3{0, 0, 1}
	}
	f := direction.Normalize()

	right := up.Cross(f)
	if right.LenSqr() < parallelEpsilon {
		right = fallbackUp(f).Cross(f)
	}
	r := right.Normalize()
	u := f.Cross(r)

	return Mat4{
		{r[0], r[1], r[2], -r.Dot(eye)},
		{u[0], u[1], u[2], -u.Dot(eye)},
		{f[0], f[1], f[2], -f.Dot(eye)},
		{0, 0, 0, 1},
	}
}

// fallbackUp picks the world axis least aligned with f.
func fallbackUp(f mgl32.Vec3) mgl32.Vec3 {
	ax, ay, az := abs32(f[0]), abs32(f[1]), abs32(f[2])
	switch {
	case ax <= ay && ax <= az:
		return mgl32.Vec3{1, 0, 0}
	case ay <= az:
		return mgl32.Vec3{0, 1, 0}
	default:
		return mgl32.Vec3{0, 0, 1}
	}
}

// Perspective returns a symmetric-frustum projection for a +Z-forward camera with clip-space
// depth in [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: framebuffer width / height; non-positive or non-finite values are clamped to 1
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	return PerspectiveRange(fovY, aspect, near, far, DepthZeroToOne)
}

// PerspectiveRange is Perspective with an explicit clip-space depth convention.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: framebuffer width / height; non-positive or non-finite values are clamped to 1
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//   - depth: the depth range to map [near, far] onto
//
// Returns:
//   - Mat4: the projection matrix
func PerspectiveRange(fovY, aspect, near, far float32, depth DepthRange) Mat4 {
	aspect = ClampAspect(aspect)
	f := float32(1.0 / math.Tan(float64(fovY)/2.0))

	var zScale, zOffset float32
	switch depth {
	case DepthNegOneToOne:
		zScale = (far + near) / (far - near)
		zOffset = -2 * far * near / (far - near)
	default:
		zScale = far / (far - near)
		zOffset = -near * far / (far - near)
	}

	return Mat4{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, zScale, zOffset},
		{0, 0, 1, 0},
	}
}

// ClampAspect returns aspect, or 1 if it is not a positive finite number.
func ClampAspect(aspect float32) float32 {
	a := float64(aspect)
	if a <= 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return 1
	}
	return aspect
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
