package octree

// Coarsen merges sibling leaves bottom up wherever the field does not touch
// them and CanMerge allows it. It returns the number of merges; a second
// call returns zero.
//
// Cells straddling the grid extent are kept on purpose: every leaf handed to
// the tetrahedralizer lies wholly inside or wholly outside the grid. A grid
// with no field and an extent that is not a power of two, such as the dual
// of [7,5,5], therefore never collapses to the root.
//
// Levels are swept from the finest internal level towards the root so that
// every merge decision sees the final state of all deeper levels. The
// result does not depend on octant order. Point indices are reset if any
// merge happened.
func (o *Octree) Coarsen() int {
	gatherField(&o.root)
	merged := 0
	for level := o.depthMax - 1; level >= 0; level-- {
		merged += o.coarsenLevel(&o.root, level)
	}
	if merged > 0 {
		o.ResetPoints()
	}
	return merged
}

// coarsenLevel visits the internal cells at depth level below c.
func (o *Octree) coarsenLevel(c *Cell, level int) int {
	if c.IsLeaf() {
		return 0
	}
	if c.Depth < level {
		merged := 0
		for i := range c.children {
			merged += o.coarsenLevel(&c.children[i], level)
		}
		return merged
	}
	if o.mergeable(c) {
		c.merge()
		return 1
	}
	return 0
}

func (o *Octree) mergeable(c *Cell) bool {
	return c.childrenAreLeaves() && !c.TouchesField &&
		!o.straddles(c) && o.CanMerge(c)
}

// gatherField sets the field flag of every internal cell to the OR of its
// children's and returns the flag of c.
func gatherField(c *Cell) bool {
	if c.IsLeaf() {
		return c.TouchesField
	}
	touches := false
	for i := range c.children {
		// No short circuit, every subtree must be updated.
		if gatherField(&c.children[i]) {
			touches = true
		}
	}
	c.TouchesField = touches
	return touches
}
