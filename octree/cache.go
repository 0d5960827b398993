package octree

import (
	"math"

	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/grid"
	"gonum.org/v1/gonum/spatial/r3"
)

// fieldCache evaluates a field at lattice points given in half units and
// remembers the results. Neighbouring cells share centers of their parents
// and corners, so a good part of lookups hit.
type fieldCache struct {
	cache map[gridtet.V3i]float64
	g     grid.Grid
	f     gridtet.Field
	hdiag []float64 // half diagonal of a cell by depth, physical units
}

func newFieldCache(g grid.Grid, f gridtet.Field, depthMax int) *fieldCache {
	fc := fieldCache{
		cache: make(map[gridtet.V3i]float64),
		g:     g,
		f:     f,
		hdiag: make([]float64, depthMax+1),
	}
	// build a lut for cell half diagonal lengths.
	for depth := range fc.hdiag {
		s := r3.Scale(float64(int(1)<<(depthMax-depth)), g.Spacing)
		fc.hdiag[depth] = 0.5 * r3.Norm(s)
	}
	return &fc
}

// Evaluate returns the field value at lattice point k.
func (fc *fieldCache) Evaluate(k gridtet.V3i) float64 {
	d, found := fc.cache[k]
	if found {
		return d
	}
	d = fc.f.Evaluate(fc.g.Node(k))
	fc.cache[k] = d
	return d
}

// farFrom reports whether no point of cell c lies within dist of the zero set.
// Exact for distance fields, a heuristic otherwise.
func (fc *fieldCache) farFrom(c *Cell, depthMax int, dist float64) bool {
	d := fc.Evaluate(c.Center(depthMax))
	return math.Abs(d) >= fc.hdiag[c.Depth]+dist
}

// touches reports whether the field at the center of c is within dist.
func (fc *fieldCache) touches(c *Cell, depthMax int, dist float64) bool {
	return math.Abs(fc.Evaluate(c.Center(depthMax))) <= dist
}
