package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/Carmen-Shannon/spinner/engine/model"
	"github.com/qmuntal/gltf"
)

// ErrNoPrimitives is returned when an asset holds no triangle primitive with positions.
var ErrNoPrimitives = errors.New("asset has no triangle primitives")

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB streams.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB data
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Decode(name string, r io.Reader) (model.Model, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	geom, err := extractGeometry(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	opts := []model.ModelBuilderOption{
		model.WithName(name),
		model.WithPositions(geom.positions),
		model.WithIndices(geom.indices),
	}
	// any primitive without normals forces regeneration for the whole mesh
	if geom.hasNormals {
		opts = append(opts, model.WithNormals(geom.normals))
	}

	m := model.NewModel(opts...)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
