package loader

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/spinner/assets"
	"github.com/Carmen-Shannon/spinner/engine/animator"
	"github.com/Carmen-Shannon/spinner/engine/camera"
	"github.com/Carmen-Shannon/spinner/engine/composer"
	"github.com/Carmen-Shannon/spinner/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeGLB builds a binary glTF holding one triangle primitive, with normals only when given.
func encodeGLB(t *testing.T, positions [][3]float32, normals [][3]float32, indices []uint32) []byte {
	t.Helper()
	doc := gltf.NewDocument()
	attrs := map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)}
	if normals != nil {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
	}
	prim := &gltf.Primitive{Attributes: attrs}
	if indices != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{prim}}}
	return encodeDoc(t, doc)
}

func encodeDoc(t *testing.T, doc *gltf.Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

func TestLoadEmbeddedMesh(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	m, err := l.Load("torus", assets.MeshGLB)
	require.NoError(t, err)

	require.NoError(t, m.Validate())
	assert.Equal(t, 1152, m.VertexCount())
	assert.Equal(t, 6912, m.IndexCount())
	assert.Len(t, m.Normals(), m.VertexCount())
	assert.Greater(t, m.BoundingRadius(), float32(0))

	again, err := l.Load("torus", nil)
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestLoadGeneratesMissingNormals(t *testing.T) {
	data := encodeGLB(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, []uint32{0, 1, 2})

	m, err := NewLoader(BackendTypeGLTF).Load("tri", data)
	require.NoError(t, err)
	require.Len(t, m.Normals(), 3)
	for _, n := range m.Normals() {
		assert.InDelta(t, 1, n[2], 1e-6)
	}
	// winding reversed for the left-handed view; the normal keeps the asset's orientation
	assert.Equal(t, []uint32{0, 2, 1}, m.Indices())
}

func TestLoadKeepsNormalsAndNonIndexed(t *testing.T) {
	normals := [][3]float32{{0, 0, -1}, {0, 0, -1}, {0, 0, -1}}
	data := encodeGLB(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, normals, nil)

	m, err := NewLoader(BackendTypeGLTF).Load("tri", data)
	require.NoError(t, err)
	assert.Equal(t, normals, m.Normals())
	assert.Equal(t, []uint32{0, 2, 1}, m.Indices())
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	_, err := l.Load("garbage", []byte("not a gltf"))
	assert.Error(t, err)

	_, err = l.Load("empty", encodeDoc(t, gltf.NewDocument()))
	assert.ErrorIs(t, err, ErrNoPrimitives)

	assert.Nil(t, l.Get("garbage"))
	assert.Nil(t, l.Get("empty"))
}

func TestLoadAll(t *testing.T) {
	tri := encodeGLB(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, []uint32{0, 1, 2})
	l := NewLoader(BackendTypeGLTF, WithWorkers(2))

	models, err := l.LoadAll(
		Request{Name: "torus", Data: assets.MeshGLB},
		Request{Name: "tri", Data: tri},
	)
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "torus", models[0].Name())
	assert.Equal(t, "tri", models[1].Name())
	assert.Len(t, l.Models(), 2)

	_, err = l.LoadAll(Request{Name: "bad", Data: []byte{0x00}})
	assert.Error(t, err)
}

// windingCounts projects every triangle of m whose vertex normals face the eye and counts how
// many land counter-clockwise and clockwise in NDC. Grazing triangles are skipped.
func windingCounts(m model.Model, b composer.UniformBundle, eye mgl32.Vec3) (ccw, cw int) {
	clip := b.Projection.Mul(b.View).Mul(b.Model)
	pos, norm, idx := m.Positions(), m.Normals(), m.Indices()

	for i := 0; i+2 < len(idx); i += 3 {
		tri := [3]uint32{idx[i], idx[i+1], idx[i+2]}

		var centroid, normal mgl32.Vec3
		var ndc [3]mgl32.Vec2
		behind := false
		for k, v := range tri {
			p := pos[v]
			w := b.Model.MulVec4([4]float32{p[0], p[1], p[2], 1})
			centroid = centroid.Add(mgl32.Vec3{w[0], w[1], w[2]}.Mul(1.0 / 3))
			n := b.Rotation.MulVec4([4]float32{norm[v][0], norm[v][1], norm[v][2], 0})
			normal = normal.Add(mgl32.Vec3{n[0], n[1], n[2]})

			c := clip.MulVec4([4]float32{p[0], p[1], p[2], 1})
			if c[3] <= 0 {
				behind = true
			}
			ndc[k] = mgl32.Vec2{c[0] / c[3], c[1] / c[3]}
		}
		if behind || normal.Len() == 0 {
			continue
		}
		if normal.Normalize().Dot(eye.Sub(centroid).Normalize()) < 0.2 {
			continue
		}

		e1, e2 := ndc[1].Sub(ndc[0]), ndc[2].Sub(ndc[0])
		area := e1[0]*e2[1] - e1[1]*e2[0]
		switch {
		case area > 1e-9:
			ccw++
		case area < -1e-9:
			cw++
		}
	}
	return ccw, cw
}

func TestEmbeddedMeshFrontFacesSurviveClockwiseCulling(t *testing.T) {
	m, err := NewLoader(BackendTypeGLTF).Load("torus", assets.MeshGLB)
	require.NoError(t, err)
	require.Equal(t, composer.CullClockwise, composer.DefaultRenderState().Cull)

	tests := []struct {
		name      string
		eye       mgl32.Vec3
		direction mgl32.Vec3
		elapsed   float64
	}{
		{"default camera", mgl32.Vec3{0, 1.5, -3}, mgl32.Vec3{0, -0.5, 1}, 0},
		{"default camera mid spin", mgl32.Vec3{0, 1.5, -3}, mgl32.Vec3{0, -0.5, 1}, 0.37},
		{"from +z", mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 0, -1}, 0},
		{"from the side", mgl32.Vec3{4, 0.5, 0}, mgl32.Vec3{-1, -0.1, 0}, 1.1},
		{"from above", mgl32.Vec3{0, 5, 0.1}, mgl32.Vec3{0, -1, -0.02}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := composer.NewComposer(
				composer.WithAnimator(animator.NewAnimator(animator.WithAngularRate(6.5))),
				composer.WithCamera(camera.NewCamera(
					camera.WithEye(tt.eye),
					camera.WithDirection(tt.direction),
					camera.WithUp(mgl32.Vec3{0, 1, 0}),
				)),
			)
			ccw, cw := windingCounts(m, c.Bundle(tt.elapsed, 1280, 720), tt.eye)
			assert.Greater(t, ccw, 0)
			assert.Zero(t, cw)
		})
	}
}

func TestEmbeddedMeshGeneratedNormalsMatchStored(t *testing.T) {
	m, err := NewLoader(BackendTypeGLTF).Load("torus", assets.MeshGLB)
	require.NoError(t, err)

	generated := model.ComputeSmoothNormals(m.Positions(), m.Indices())
	stored := m.Normals()
	for i := range stored {
		assert.Greater(t, mgl32.Vec3(generated[i]).Dot(mgl32.Vec3(stored[i])), float32(0.9), "vertex %d", i)
	}
}

func TestGeneratedNormalsFaceTheCamera(t *testing.T) {
	tri := encodeGLB(t, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, nil, []uint32{0, 1, 2})
	m, err := NewLoader(BackendTypeGLTF).Load("tri", tri)
	require.NoError(t, err)

	eye := mgl32.Vec3{0.3, 0.3, 3}
	c := composer.NewComposer(composer.WithCamera(camera.NewCamera(
		camera.WithEye(eye),
		camera.WithDirection(mgl32.Vec3{0, 0, -1}),
		camera.WithUp(mgl32.Vec3{0, 1, 0}),
	)))
	ccw, cw := windingCounts(m, c.Bundle(0, 800, 600), eye)
	assert.Equal(t, 1, ccw)
	assert.Zero(t, cw)
}
