// Package octree implements a pointer based octree over the dual of a
// structured grid. Cells are addressed with integer coordinates in finest
// grid units, the root spans [0, 2^depthMax) along every axis.
//
// Refinement resolves a scalar field by keeping cells fine near its zero
// set. Coarsening merges sibling leaves wherever the field needs no
// resolution and 2:1 balance allows it.
package octree

import (
	"errors"
	"fmt"

	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/grid"
)

var (
	// ErrAllocation is returned when a tree would grow beyond its cell budget.
	ErrAllocation = errors.New("octree cell budget exceeded")
	// ErrBalanceViolation reports two face or edge adjacent leaves more
	// than one level apart.
	ErrBalanceViolation = errors.New("2:1 balance violated")
)

// Octree is a tree of cells covering a cube of side 2^depthMax finest
// units. The part of the cube outside the grid extent is exterior and is
// not meshed.
type Octree struct {
	root     Cell
	depthMax int
	extent   gridtet.V3i
	points   map[gridtet.V3i]int
}

// New returns an octree with a single leaf root. extent is the number of
// dual grid cells along each axis and must fit in the root cube.
func New(depthMax int, extent gridtet.V3i) (*Octree, error) {
	if depthMax < 0 || depthMax > grid.MaxDepth {
		return nil, fmt.Errorf("depth %d out of range [0, %d]", depthMax, grid.MaxDepth)
	}
	side := 1 << depthMax
	for i, n := range extent {
		if n < 0 || n > side {
			return nil, fmt.Errorf("extent %d along axis %d does not fit in root of side %d", n, i, side)
		}
	}
	return &Octree{
		depthMax: depthMax,
		extent:   extent,
		points:   make(map[gridtet.V3i]int),
	}, nil
}

// Root returns the root cell.
func (o *Octree) Root() *Cell { return &o.root }

// DepthMax returns the depth of the finest cells.
func (o *Octree) DepthMax() int { return o.depthMax }

// Extent returns the number of dual grid cells along each axis.
func (o *Octree) Extent() gridtet.V3i { return o.extent }

// Side returns the root side in finest units.
func (o *Octree) Side() int { return 1 << o.depthMax }

// Interior reports whether c lies entirely inside the grid extent.
func (o *Octree) Interior(c *Cell) bool {
	s := c.Size(o.depthMax)
	for i := range c.Origin {
		if c.Origin[i]+s > o.extent[i] {
			return false
		}
	}
	return true
}

// Exterior reports whether c lies entirely outside the grid extent.
func (o *Octree) Exterior(c *Cell) bool {
	for i := range c.Origin {
		if c.Origin[i] >= o.extent[i] {
			return true
		}
	}
	return false
}

// straddles reports whether c is partially inside the grid extent.
func (o *Octree) straddles(c *Cell) bool {
	return !o.Interior(c) && !o.Exterior(c)
}

// inRoot reports whether p in finest units lies inside the root cube.
func (o *Octree) inRoot(p gridtet.V3i) bool {
	return p.InRange(0, o.Side())
}

// PointIndex returns the index of lattice point k. Points are numbered in
// order of first request starting at zero.
func (o *Octree) PointIndex(k gridtet.V3i) int {
	idx, ok := o.points[k]
	if !ok {
		idx = len(o.points)
		o.points[k] = idx
	}
	return idx
}

// NumPoints returns the number of indexed lattice points.
func (o *Octree) NumPoints() int { return len(o.points) }

// ResetPoints discards all point indices. Indices handed out before a
// structural change of the tree must not be used afterwards.
func (o *Octree) ResetPoints() {
	o.points = make(map[gridtet.V3i]int)
}

// Locate descends from the root towards p, in finest units, and returns the
// deepest cell on the path whose depth does not exceed depth. Use depth
// DepthMax() to find the leaf containing p. Locate returns nil if p lies
// outside the root.
func (o *Octree) Locate(p gridtet.V3i, depth int) *Cell {
	if !o.inRoot(p) {
		return nil
	}
	c := &o.root
	rel := p
	half := o.Side() / 2
	for !c.IsLeaf() && c.Depth < depth {
		var oct Octant
		oct, rel = OctantOf(rel, half)
		parent := c
		c = c.Child(oct)
		if c.Origin != parent.Origin.Add(octantOffset(oct, half)) {
			panic("octant mismatch during descent")
		}
		half /= 2
	}
	return c
}

// leafAt returns the leaf containing p or nil if p is outside the root.
func (o *Octree) leafAt(p gridtet.V3i) *Cell {
	return o.Locate(p, o.depthMax)
}

// Walk visits cells depth first in octant order starting at the root.
// Children of a cell are skipped when fn returns false for it.
func (o *Octree) Walk(fn func(c *Cell) bool) {
	walk(&o.root, fn)
}

func walk(c *Cell, fn func(c *Cell) bool) {
	if !fn(c) || c.IsLeaf() {
		return
	}
	for i := range c.children {
		walk(&c.children[i], fn)
	}
}

// Leaves returns all leaves in traversal order.
func (o *Octree) Leaves() []*Cell {
	var leaves []*Cell
	o.Walk(func(c *Cell) bool {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
		return true
	})
	return leaves
}

// Stats holds cell counts of a tree.
type Stats struct {
	Cells    int
	Leaves   int
	Interior int // interior leaves
	Field    int // leaves touching the field
	ByDepth  []int
}

// Stats counts the cells of the tree.
func (o *Octree) Stats() Stats {
	st := Stats{ByDepth: make([]int, o.depthMax+1)}
	o.Walk(func(c *Cell) bool {
		st.Cells++
		if !c.IsLeaf() {
			return true
		}
		st.Leaves++
		st.ByDepth[c.Depth]++
		if o.Interior(c) {
			st.Interior++
		}
		if c.TouchesField {
			st.Field++
		}
		return true
	})
	return st
}

// Validate checks the structural invariants of the tree: children depth is
// one more than their parent's, children sit at their octant origin, no
// cell is deeper than depthMax and every origin lies inside the root.
func (o *Octree) Validate() (err error) {
	if o.root.Depth != 0 || o.root.Origin != (gridtet.V3i{}) {
		return errors.New("root must have depth 0 at the origin")
	}
	o.Walk(func(c *Cell) bool {
		if err != nil {
			return false
		}
		switch {
		case c.Depth > o.depthMax:
			err = fmt.Errorf("cell %v at depth %d exceeds maximum depth %d", c.Origin, c.Depth, o.depthMax)
		case !o.inRoot(c.Origin):
			err = fmt.Errorf("cell origin %v outside root of side %d", c.Origin, o.Side())
		case c.Origin[0]%c.Size(o.depthMax) != 0 || c.Origin[1]%c.Size(o.depthMax) != 0 || c.Origin[2]%c.Size(o.depthMax) != 0:
			err = fmt.Errorf("cell origin %v not aligned to depth %d", c.Origin, c.Depth)
		}
		if err != nil || c.IsLeaf() {
			return err == nil
		}
		half := c.Size(o.depthMax) / 2
		for i := range c.children {
			ch := &c.children[i]
			if ch.Depth != c.Depth+1 {
				err = fmt.Errorf("child depth %d of cell at depth %d", ch.Depth, c.Depth)
			} else if want := c.Origin.Add(octantOffset(Octant(i), half)); ch.Origin != want {
				err = fmt.Errorf("child %d origin %v, want %v", i, ch.Origin, want)
			}
		}
		return err == nil
	})
	return err
}

// CheckBalance returns ErrBalanceViolation if a leaf shares a face or an
// edge with a leaf more than one level coarser.
func (o *Octree) CheckBalance() error {
	for _, c := range o.Leaves() {
		if n := o.coarseNeighbour(c); n != nil {
			return fmt.Errorf("%w: leaf %v at depth %d next to leaf %v at depth %d",
				ErrBalanceViolation, c.Origin, c.Depth, n.Origin, n.Depth)
		}
	}
	return nil
}

// coarseNeighbour returns a face or edge neighbour leaf of c more than one
// level coarser than c, or nil if there is none.
func (o *Octree) coarseNeighbour(c *Cell) *Cell {
	s := c.Size(o.depthMax)
	for _, off := range neighbourOffsets {
		n := o.leafAt(c.Origin.Add(off.Scale(s)))
		if n != nil && n.Depth < c.Depth-1 {
			return n
		}
	}
	return nil
}
