package octree

import (
	"fmt"

	"github.com/soypat/gridtet"
)

// Cell is a node of the octree. A cell owns either no children (leaf) or
// exactly eight, stored in octant order.
type Cell struct {
	// Origin is the lower corner of the cell in finest grid units.
	Origin gridtet.V3i
	// Depth is 0 at the root and depthMax at the finest level.
	Depth int
	// TouchesField is set when the field's zero set may pass
	// through the cell, in which case it must not be coarsened.
	TouchesField bool

	children *[8]Cell
}

// IsLeaf reports whether the cell has no children.
func (c *Cell) IsLeaf() bool { return c.children == nil }

// Child returns the child in octant i. It panics if c is a leaf.
func (c *Cell) Child(i Octant) *Cell {
	if c.children == nil {
		panic("child of leaf cell")
	}
	return &c.children[i]
}

// Size returns the side of the cell in finest grid units.
func (c *Cell) Size(depthMax int) int {
	return 1 << (depthMax - c.Depth)
}

// Corner returns corner i of the cell in half units. Corners are numbered
// like octants.
func (c *Cell) Corner(i Octant, depthMax int) gridtet.V3i {
	s := c.Size(depthMax)
	return c.Origin.Scale(2).Add(octantOffset(i, 2*s))
}

// Center returns the cell center in half units.
func (c *Cell) Center(depthMax int) gridtet.V3i {
	return c.Origin.Scale(2).AddScalar(c.Size(depthMax))
}

// Contains reports whether p, in finest units, lies inside the cell.
func (c *Cell) Contains(p gridtet.V3i, depthMax int) bool {
	return p.Sub(c.Origin).InRange(0, c.Size(depthMax))
}

// split gives a leaf eight children which inherit its field flag.
func (c *Cell) split(depthMax int) {
	if c.children != nil {
		panic("split of internal cell")
	}
	if c.Depth >= depthMax {
		panic("split beyond maximum depth")
	}
	half := c.Size(depthMax) / 2
	c.children = new([8]Cell)
	for i := range c.children {
		c.children[i] = Cell{
			Origin:       c.Origin.Add(octantOffset(Octant(i), half)),
			Depth:        c.Depth + 1,
			TouchesField: c.TouchesField,
		}
	}
}

// Split subdivides leaf c of o into eight children inheriting its field flag.
// Point indices of o are reset.
func (o *Octree) Split(c *Cell) error {
	switch {
	case !c.IsLeaf():
		return fmt.Errorf("split of internal cell %v at depth %d", c.Origin, c.Depth)
	case c.Depth >= o.depthMax:
		return fmt.Errorf("split of finest cell %v", c.Origin)
	}
	c.split(o.depthMax)
	o.ResetPoints()
	return nil
}

// merge drops the children of c, turning it into a leaf.
func (c *Cell) merge() {
	c.children = nil
}

// childrenAreLeaves reports whether c is internal with eight leaf children.
func (c *Cell) childrenAreLeaves() bool {
	if c.children == nil {
		return false
	}
	for i := range c.children {
		if !c.children[i].IsLeaf() {
			return false
		}
	}
	return true
}
