package tetra

import (
	"errors"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// WriteGLB writes the boundary surface of the mesh as a binary glTF scene.
func (m *Mesh) WriteGLB(w io.Writer) error {
	tris := m.BoundaryTriangles()
	if len(tris) == 0 {
		return errors.New("empty triangle slice")
	}
	positions := make([][3]float32, len(m.Nodes))
	for i, n := range m.Nodes {
		positions[i] = vec32(n)
		if badVec32(positions[i]) {
			return errors.New("non finite node position")
		}
	}
	indices := make([]uint32, 0, 3*len(tris))
	for _, t := range tris {
		indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "gridtet"
	posAccessor := modeler.WritePosition(doc, positions)
	indicesAccessor := modeler.WriteIndices(doc, indices)
	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{0.8, 0.8, 0.8, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	doc.Materials = []*gltf.Material{{Name: "boundary", PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque, DoubleSided: true}}
	doc.Meshes = []*gltf.Mesh{{Name: "boundary", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "mesh", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(doc)
}
