package octree

import "github.com/soypat/gridtet"

// Octant identifies one of the eight children of a cell. Each axis owns one
// bit which is set when the child lies in the high half along that axis.
type Octant uint8

// Octant bits. x is the most significant so that the concatenation of
// octants from root to leaf is the Morton code of the leaf's origin.
const (
	OctantZ Octant = 1 << iota
	OctantY
	OctantX
)

// octantTable maps an axis index to its octant bit.
var octantTable = [3]Octant{OctantX, OctantY, OctantZ}

// OctantOf returns the octant containing p in a cell of side 2*half whose
// origin is at zero, and p relative to the origin of that octant.
func OctantOf(p gridtet.V3i, half int) (Octant, gridtet.V3i) {
	var o Octant
	for axis, bit := range octantTable {
		if p[axis] >= half {
			o |= bit
			p[axis] -= half
		}
	}
	return o, p
}

// octantOffset returns the origin of octant o relative to the parent
// origin for a parent of side 2*half.
func octantOffset(o Octant, half int) gridtet.V3i {
	var off gridtet.V3i
	for axis, bit := range octantTable {
		if o&bit != 0 {
			off[axis] = half
		}
	}
	return off
}

// neighbourOffsets are the 6 face and 12 edge directions of a cube.
var neighbourOffsets = func() (offs [18]gridtet.V3i) {
	n := 0
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			for k := -1; k <= 1; k++ {
				nz := abs(i) + abs(j) + abs(k)
				if nz == 1 || nz == 2 {
					offs[n] = gridtet.V3i{i, j, k}
					n++
				}
			}
		}
	}
	return offs
}()

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
