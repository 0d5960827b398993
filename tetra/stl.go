package tetra

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

// stlTriangle is a triangle as stored in a binary STL file.
type stlTriangle struct {
	Normal, Vertex1, Vertex2, Vertex3 [3]float32
	_                                 uint16 // Attribute byte count
}

// WriteSTL writes the boundary surface of the mesh in binary STL format.
func (m *Mesh) WriteSTL(w io.Writer) error {
	tris := m.BoundaryTriangles()
	if len(tris) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{
		Count: uint32(len(tris)),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	d := make([]stlTriangle, len(tris))
	for i, t := range tris {
		a, b, c := m.Nodes[t[0]], m.Nodes[t[1]], m.Nodes[t[2]]
		d[i] = stlTriangle{
			Normal:  vec32(r3.Unit(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))),
			Vertex1: vec32(a),
			Vertex2: vec32(b),
			Vertex3: vec32(c),
		}
		if badVec32(d[i].Vertex1) || badVec32(d[i].Vertex2) || badVec32(d[i].Vertex3) {
			return errors.New("non finite vertex in boundary triangle")
		}
	}
	return binary.Write(w, binary.LittleEndian, d)
}

func vec32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func badVec32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}
