package loader

import (
	"io"

	"github.com/Carmen-Shannon/spinner/engine/model"
)

// loaderBackend defines the generic interface for decoding a mesh from a stream.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Decode reads one asset from the reader and flattens every triangle primitive into a model.
	//
	// Parameters:
	//   - name: the name given to the resulting model
	//   - r: the reader providing the asset bytes
	//
	// Returns:
	//   - model.Model: the decoded mesh, already validated
	//   - error: error if decoding fails or the mesh is not drawable
	Decode(name string, r io.Reader) (model.Model, error)
}
