package tetra

import (
	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/grid"
	"github.com/soypat/gridtet/octree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tetrahedralize meshes the interior leaves of o. Every leaf is split into
// pyramids from its center to its faces and every face is fanned from its
// center over all cell corners lying on its edges, so hanging nodes of
// finer neighbours are part of the fan. A face whose same sized neighbour
// is subdivided is split in four and each quarter treated alike, which
// makes both sides of every face agree. Exterior leaves are skipped.
//
// Nodes are positioned with g and f, if not nil, is sampled at every node.
// The point indices of o are reset and reused as node indices.
func Tetrahedralize(o *octree.Octree, g grid.Grid, f gridtet.Field) (*Mesh, error) {
	b := builder{
		o:       o,
		dm:      o.DepthMax(),
		corners: make(map[gridtet.V3i]struct{}),
		mesh:    &Mesh{},
	}
	var leaves []*octree.Cell
	for _, c := range o.Leaves() {
		if !o.Interior(c) {
			continue
		}
		leaves = append(leaves, c)
		for i := octree.Octant(0); i < 8; i++ {
			b.corners[c.Corner(i, b.dm)] = struct{}{}
		}
	}
	if len(leaves) == 0 {
		return nil, ErrEmptyMesh
	}
	o.ResetPoints()
	for _, c := range leaves {
		b.leaf(c)
	}
	m := b.mesh
	m.Nodes = make([]r3.Vec, len(m.Keys))
	for i, k := range m.Keys {
		m.Nodes[i] = g.Node(k)
	}
	if f != nil {
		m.Sol = make([]float64, len(m.Nodes))
		for i, p := range m.Nodes {
			m.Sol[i] = f.Evaluate(p)
		}
	}
	return m, nil
}

type builder struct {
	o       *octree.Octree
	dm      int
	corners map[gridtet.V3i]struct{}
	mesh    *Mesh
	ref     int
	center  int
}

// square is an axis aligned cell face in half units.
type square struct {
	axis  int         // normal axis
	dir   int         // -1 or 1, side of the cell the face is on
	min   gridtet.V3i // lower corner
	side  int
	depth int // depth of the cells the square is a full face of
}

func (b *builder) node(k gridtet.V3i) int {
	idx := b.o.PointIndex(k)
	if idx == len(b.mesh.Keys) {
		b.mesh.Keys = append(b.mesh.Keys, k)
	} else if idx > len(b.mesh.Keys) {
		panic("bad mesh operation detected")
	}
	return idx
}

func (b *builder) leaf(c *octree.Cell) {
	b.ref = 0
	if c.TouchesField {
		b.ref = 1
	}
	b.center = b.node(c.Center(b.dm))
	side := 2 * c.Size(b.dm)
	lo := c.Origin.Scale(2)
	for axis := 0; axis < 3; axis++ {
		for _, dir := range [2]int{-1, 1} {
			sq := square{axis: axis, dir: dir, min: lo, side: side, depth: c.Depth}
			if dir > 0 {
				sq.min[axis] += side
			}
			b.face(sq)
		}
	}
}

// face meshes square sq, splitting it while the cell across is subdivided.
func (b *builder) face(sq square) {
	if b.crossIsSplit(sq) {
		half := sq.side / 2
		u, v := (sq.axis+1)%3, (sq.axis+2)%3
		for i := 0; i < 4; i++ {
			q := sq
			q.side = half
			q.depth++
			q.min[u] += half * (i & 1)
			q.min[v] += half * (i >> 1)
			b.face(q)
		}
		return
	}
	b.fan(sq)
}

// crossIsSplit reports whether the cell of the same size on the other side
// of sq is internal and not exterior.
func (b *builder) crossIsSplit(sq square) bool {
	size := sq.side / 2
	var q gridtet.V3i
	for i := range q {
		q[i] = sq.min[i] / 2
	}
	if sq.dir < 0 {
		q[sq.axis] -= size
	}
	n := b.o.Locate(q, sq.depth)
	return n != nil && n.Depth == sq.depth && !n.IsLeaf() && !b.o.Exterior(n)
}

// fan adds one tetrahedron per boundary segment of sq, joining the cell
// center, the face center and the segment.
func (b *builder) fan(sq square) {
	u, v := (sq.axis+1)%3, (sq.axis+2)%3
	fc := sq.min
	fc[u] += sq.side / 2
	fc[v] += sq.side / 2
	ring := b.ring(sq, u, v)
	if len(ring) < 4 {
		panic("bad mesh operation detected")
	}
	center := b.mesh.Keys[b.center]
	ifc := b.node(fc)
	for i := range ring {
		p0, p1 := ring[i], ring[(i+1)%len(ring)]
		if orient(center, fc, p0, p1) < 0 {
			p0, p1 = p1, p0
		}
		b.mesh.Tetras = append(b.mesh.Tetras, [4]int{b.center, ifc, b.node(p0), b.node(p1)})
		b.mesh.Refs = append(b.mesh.Refs, b.ref)
	}
}

// ring returns the cell corners on the boundary of sq in cyclic order.
func (b *builder) ring(sq square, u, v int) []gridtet.V3i {
	var ring []gridtet.V3i
	// Walk the four edges counter clockwise in the (u, v) plane.
	walks := [4]struct{ start, step gridtet.V3i }{
		{start: sq.min, step: unit(u)},
		{start: sq.min.Add(unit(u).Scale(sq.side)), step: unit(v)},
		{start: sq.min.Add(unit(u).Add(unit(v)).Scale(sq.side)), step: unit(u).Scale(-1)},
		{start: sq.min.Add(unit(v).Scale(sq.side)), step: unit(v).Scale(-1)},
	}
	for _, w := range walks {
		p := w.start
		// Lattice corners sit at even half unit coordinates.
		for i := 0; i < sq.side; i += 2 {
			if _, ok := b.corners[p]; ok {
				ring = append(ring, p)
			}
			p = p.Add(w.step.Scale(2))
		}
	}
	return ring
}

func unit(axis int) (v gridtet.V3i) {
	v[axis] = 1
	return v
}

// orient returns six times the signed volume of tetrahedron (a, b, c, d).
func orient(a, b, c, d gridtet.V3i) int {
	u, v, w := b.Sub(a), c.Sub(a), d.Sub(a)
	return u[0]*(v[1]*w[2]-v[2]*w[1]) -
		u[1]*(v[0]*w[2]-v[2]*w[0]) +
		u[2]*(v[0]*w[1]-v[1]*w[0])
}
