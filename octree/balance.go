package octree

import "github.com/soypat/gridtet"

// CanMerge reports whether turning the internal cell c into a leaf keeps
// every face and edge neighbour leaf within one level of it. Neighbour
// regions outside the root do not constrain the merge.
func (o *Octree) CanMerge(c *Cell) bool {
	s := c.Size(o.depthMax)
	for _, off := range neighbourOffsets {
		q := c.Origin.Add(off.Scale(s))
		n := o.leafAt(q)
		if n == nil {
			continue
		}
		if n.Depth < c.Depth {
			return false
		}
		if !o.shallowAlong(c, off) {
			return false
		}
	}
	return true
}

// shallowAlong reports whether the leaves across the face or edge of c in
// direction off are at most one level deeper than c.
func (o *Octree) shallowAlong(c *Cell, off gridtet.V3i) bool {
	s := c.Size(o.depthMax)
	half := s / 2
	if half == 0 {
		return true
	}
	// Probe the child sized cubes adjacent to c along off. Axes with a zero
	// offset span two probes, the others one.
	var probes [2][3]int
	var nprobe [3]int
	for axis, d := range off {
		switch d {
		case -1:
			probes[0][axis] = c.Origin[axis] - half
			nprobe[axis] = 1
		case 1:
			probes[0][axis] = c.Origin[axis] + s
			nprobe[axis] = 1
		default:
			probes[0][axis] = c.Origin[axis]
			probes[1][axis] = c.Origin[axis] + half
			nprobe[axis] = 2
		}
	}
	for i := 0; i < nprobe[0]; i++ {
		for j := 0; j < nprobe[1]; j++ {
			for k := 0; k < nprobe[2]; k++ {
				p := gridtet.V3i{probes[i][0], probes[j][1], probes[k][2]}
				n := o.leafAt(p)
				if n != nil && n.Depth > c.Depth+1 {
					return false
				}
			}
		}
	}
	return true
}

// Balance splits leaves until no leaf shares a face or an edge with a leaf
// more than one level finer. It returns the number of splits. A uniformly
// refined tree is left untouched.
func Balance(o *Octree) int {
	splits := 0
	for {
		var coarse []*Cell
		seen := make(map[*Cell]bool)
		for _, c := range o.Leaves() {
			n := o.coarseNeighbour(c)
			if n != nil && !seen[n] {
				seen[n] = true
				coarse = append(coarse, n)
			}
		}
		if len(coarse) == 0 {
			break
		}
		for _, c := range coarse {
			c.split(o.depthMax)
		}
		splits += len(coarse)
		o.ResetPoints()
	}
	return splits
}
