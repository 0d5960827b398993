// Package tetra builds conforming tetrahedral meshes from balanced octrees
// and writes them in mesh exchange formats.
package tetra

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/soypat/gridtet"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an unstructured tetrahedral mesh.
type Mesh struct {
	// Nodes are vertex positions.
	Nodes []r3.Vec
	// Keys are the octree lattice coordinates of Nodes in half units.
	Keys []gridtet.V3i
	// Tetras index into Nodes and are positively oriented.
	Tetras [][4]int
	// Refs holds one reference per tetrahedron. Tetrahedra of cells
	// touching the field have reference 1, others 0.
	Refs []int
	// Sol holds the field value at every node. It is nil when the mesh
	// was built without a field.
	Sol []float64
}

// Validate checks index ranges, slice lengths and that every tetrahedron
// has positive volume.
func (m *Mesh) Validate() error {
	if len(m.Refs) != len(m.Tetras) {
		return fmt.Errorf("%d references for %d tetrahedra", len(m.Refs), len(m.Tetras))
	}
	if m.Keys != nil && len(m.Keys) != len(m.Nodes) {
		return fmt.Errorf("%d lattice keys for %d nodes", len(m.Keys), len(m.Nodes))
	}
	if m.Sol != nil && len(m.Sol) != len(m.Nodes) {
		return fmt.Errorf("%d solution values for %d nodes", len(m.Sol), len(m.Nodes))
	}
	for i, tet := range m.Tetras {
		for _, v := range tet {
			if v < 0 || v >= len(m.Nodes) {
				return fmt.Errorf("tetrahedron %d: node index %d out of range", i, v)
			}
		}
		if vol := m.tetVolume(tet); !(vol > 0) {
			return fmt.Errorf("tetrahedron %d: non positive volume %g", i, vol)
		}
	}
	return nil
}

func (m *Mesh) tetVolume(tet [4]int) float64 {
	a := m.Nodes[tet[0]]
	b := r3.Sub(m.Nodes[tet[1]], a)
	c := r3.Sub(m.Nodes[tet[2]], a)
	d := r3.Sub(m.Nodes[tet[3]], a)
	return r3.Dot(b, r3.Cross(c, d)) / 6
}

// Volume returns the summed volume of all tetrahedra.
func (m *Mesh) Volume() float64 {
	var vol float64
	for _, tet := range m.Tetras {
		vol += m.tetVolume(tet)
	}
	return vol
}

// tetFaces lists the faces of a positively oriented tetrahedron with
// outward facing normals.
var tetFaces = [4][3]int{
	{0, 2, 1},
	{0, 1, 3},
	{0, 3, 2},
	{1, 2, 3},
}

func sortedTri(t [3]int) [3]int {
	sort.Ints(t[:])
	return t
}

// Faces counts how many tetrahedra share every triangle.
func (m *Mesh) Faces() map[[3]int]int {
	count := make(map[[3]int]int, 2*len(m.Tetras))
	for _, tet := range m.Tetras {
		for _, f := range tetFaces {
			k := sortedTri([3]int{tet[f[0]], tet[f[1]], tet[f[2]]})
			count[k]++
		}
	}
	return count
}

// BoundaryTriangles returns the triangles belonging to a single
// tetrahedron, oriented with outward normals.
func (m *Mesh) BoundaryTriangles() [][3]int {
	count := m.Faces()
	var tris [][3]int
	for _, tet := range m.Tetras {
		for _, f := range tetFaces {
			t := [3]int{tet[f[0]], tet[f[1]], tet[f[2]]}
			if count[sortedTri(t)] == 1 {
				tris = append(tris, t)
			}
		}
	}
	return tris
}

// Checksum returns a hash of node positions, tetrahedra and references.
// Meshes built from the same tree and grid have equal checksums.
func (m *Mesh) Checksum() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		d.Write(buf[:])
	}
	put(uint64(len(m.Nodes)))
	for _, n := range m.Nodes {
		put(math.Float64bits(n.X))
		put(math.Float64bits(n.Y))
		put(math.Float64bits(n.Z))
	}
	put(uint64(len(m.Tetras)))
	for i, tet := range m.Tetras {
		for _, v := range tet {
			put(uint64(v))
		}
		put(uint64(m.Refs[i]))
	}
	return d.Sum64()
}

// ErrEmptyMesh is returned when there are no interior cells to mesh.
var ErrEmptyMesh = errors.New("no interior cells to mesh")
