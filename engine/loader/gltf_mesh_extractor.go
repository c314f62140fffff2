package loader

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// geometry is every triangle primitive of a document merged into one indexed list.
type geometry struct {
	positions  [][3]float32
	normals    [][3]float32
	indices    []uint32
	hasNormals bool
}

// extractGeometry walks every mesh and primitive of the document, skipping non-triangle modes
// and primitives without positions, and rebases each primitive's indices onto the merged
// vertex list. Non-indexed primitives are read as sequential triangles.
//
// glTF is right-handed while the view built by common.LookAt is left-handed (+Z forward), so
// every triangle's winding is reversed: glTF front faces stay counter-clockwise on screen and
// survive CullClockwise. Positions and normals are left as stored.
func extractGeometry(doc *gltf.Document) (*geometry, error) {
	g := &geometry{hasNormals: true}
	primitives := 0

	for meshIdx, mesh := range doc.Meshes {
		for primIdx, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			if err := g.appendPrimitive(doc, prim, posIdx); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIdx, primIdx, err)
			}
			primitives++
		}
	}

	if primitives == 0 {
		return nil, ErrNoPrimitives
	}
	if !g.hasNormals {
		g.normals = nil
	}
	return g, nil
}

func (g *geometry) appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, posIdx int) error {
	if posIdx < 0 || posIdx >= len(doc.Accessors) {
		return fmt.Errorf("position accessor %d out of range", posIdx)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok && normIdx >= 0 && normIdx < len(doc.Accessors) {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}
	if len(normals) != len(positions) {
		g.hasNormals = false
	}

	var indices []uint32
	if prim.Indices != nil {
		if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
			return fmt.Errorf("index accessor %d out of range", *prim.Indices)
		}
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions)-len(positions)%3)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	base := uint32(len(g.positions))
	g.positions = append(g.positions, positions...)
	if g.hasNormals {
		g.normals = append(g.normals, normals...)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		g.indices = append(g.indices, base+indices[i], base+indices[i+2], base+indices[i+1])
	}
	// a trailing partial triangle is kept so Validate reports it
	for _, idx := range indices[len(indices)-len(indices)%3:] {
		g.indices = append(g.indices, base+idx)
	}
	return nil
}
