package composer

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUUniformBundle is the GPU-aligned representation of the per-frame uniform buffer.
// Matches the WGSL FrameUniforms struct in the vertex shader.
// Size: 272 bytes (vec3 padded to 16).
type GPUUniformBundle struct {
	Model       [16]float32 // offset   0: model matrix, column-major (mat4x4<f32>)
	Rotation    [16]float32 // offset  64: rotation-only matrix for normals (mat4x4<f32>)
	View        [16]float32 // offset 128: view matrix (mat4x4<f32>)
	Perspective [16]float32 // offset 192: projection matrix (mat4x4<f32>)
	Light       [3]float32  // offset 256: light direction (vec3<f32>)
	_pad        float32     // offset 268: padding to 272 bytes
}

// Size returns the size of the GPUUniformBundle struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (272)
func (g *GPUUniformBundle) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUniformBundle into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUUniformBundle) Marshal() []byte {
	buf := make([]byte, g.Size())
	mats := [4]*[16]float32{&g.Model, &g.Rotation, &g.View, &g.Perspective}
	for m, mat := range mats {
		for i := range 16 {
			binary.LittleEndian.PutUint32(buf[m*64+i*4:], math.Float32bits(mat[i]))
		}
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[256+i*4:], math.Float32bits(g.Light[i]))
	}
	binary.LittleEndian.PutUint32(buf[268:], 0) // _pad
	return buf
}
