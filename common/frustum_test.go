package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestExtractFrustumSpheres(t *testing.T) {
	view := LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})

	tests := []struct {
		name   string
		depth  DepthRange
		center [3]float32
		radius float32
		want   bool
	}{
		{"ahead", DepthZeroToOne, [3]float32{0, 0, 5}, 1, true},
		{"behind", DepthZeroToOne, [3]float32{0, 0, -5}, 1, false},
		{"past far", DepthZeroToOne, [3]float32{0, 0, 200}, 1, false},
		{"straddles far", DepthZeroToOne, [3]float32{0, 0, 100.5}, 1, true},
		{"off to the side", DepthZeroToOne, [3]float32{50, 0, 5}, 1, false},
		{"gl ahead", DepthNegOneToOne, [3]float32{0, 0, 5}, 1, true},
		{"gl behind", DepthNegOneToOne, [3]float32{0, 0, -5}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj := PerspectiveRange(math.Pi/2, 1, 0.1, 100, tt.depth)
			f := ExtractFrustum(proj.Mul(view), tt.depth)
			assert.Equal(t, tt.want, f.IntersectsSphere(tt.center, tt.radius))
		})
	}
}

func TestExtractFrustumNearPlane(t *testing.T) {
	view := LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustum(Perspective(math.Pi/3, 16.0/9.0, 0.5, 50).Mul(view), DepthZeroToOne)

	near := f.Planes[FrustumNear]
	assert.InDelta(t, 0, near.SignedDistance([3]float32{0, 0, 0.5}), 1e-5)
	assert.InDelta(t, 1, near.SignedDistance([3]float32{0, 0, 1.5}), 1e-5)

	far := f.Planes[FrustumFar]
	assert.InDelta(t, 0, far.SignedDistance([3]float32{0, 0, 50}), 1e-3)
}
