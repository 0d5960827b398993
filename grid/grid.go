// Package grid describes the structured input grid an octree is built over.
//
// Grid cells hold samples at their centroids. The octree is built over the
// dual grid whose nodes are those centroids, so it has one cell less than
// the input grid along each axis.
package grid

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrInvalidGrid is returned for degenerate grids where the octree depth is
// not defined, such as a grid with fewer than 2 cells along every axis.
var ErrInvalidGrid = errors.New("invalid grid")

// Grid is an axis aligned structured grid.
type Grid struct {
	// Cells is the number of cells along each axis.
	Cells [3]int
	// Origin is the position of the grid's lower corner.
	Origin r3.Vec
	// Spacing is the size of a single cell along each axis.
	Spacing r3.Vec
}

// Validate checks the grid can be converted into an octree.
func (g Grid) Validate() error {
	for i, n := range g.Cells {
		if n < 1 {
			return fmt.Errorf("%w: %d cells along axis %d", ErrInvalidGrid, n, i)
		}
	}
	if !d3.IsFinite(g.Origin) {
		return fmt.Errorf("%w: non finite origin %v", ErrInvalidGrid, g.Origin)
	}
	if d3.LTEZero(g.Spacing) || !d3.IsFinite(g.Spacing) {
		return fmt.Errorf("%w: spacing must be positive, got %v", ErrInvalidGrid, g.Spacing)
	}
	_, err := DepthMax(g.Cells)
	return err
}

// DepthMax returns the maximum octree depth for the grid. See [DepthMax].
func (g Grid) DepthMax() (int, error) {
	return DepthMax(g.Cells)
}

// DepthMax computes the depth of an octree covering the dual grid of a grid
// with the given cell counts: the largest dual dimension max(cells)-1 is rounded up to the
// next power of two P and the depth is log2(P).
//
//	[5,5,5]  -> n=4, P=4  -> 2
//	[9,5,5]  -> n=8, P=8  -> 3
//	[10,5,5] -> n=9, P=16 -> 4
func DepthMax(cells [3]int) (int, error) {
	n := gridtet.V3i(cells).Max() - 1
	if n < 1 {
		return 0, fmt.Errorf("%w: need at least 2 cells along one axis, got %v", ErrInvalidGrid, cells)
	}
	// Number of bits needed to represent n-1 is the exponent of the
	// smallest power of two greater or equal to n.
	depth := bits.Len(uint(n - 1))
	if depth > MaxDepth {
		return 0, fmt.Errorf("%w: depth %d exceeds limit %d", ErrInvalidGrid, depth, MaxDepth)
	}
	return depth, nil
}

// MaxDepth is the deepest octree a grid may require. It keeps lattice
// coordinates in half units well within int32 range.
const MaxDepth = 24

// DualCells returns the number of dual grid cells along each axis.
func (g Grid) DualCells() gridtet.V3i {
	var n gridtet.V3i
	for i, c := range g.Cells {
		if c > 1 {
			n[i] = c - 1
		}
	}
	return n
}

// Node returns the physical position of a dual grid lattice point k given in half units,
// that is, k = 2 corresponds to the second grid centroid along an axis.
func (g Grid) Node(k gridtet.V3i) r3.Vec {
	// Half unit lattice to centroid index space: k/2 + 0.5.
	u := r3.Scale(0.5, k.AddScalar(1).ToV3())
	return r3.Add(g.Origin, d3.MulElem(u, g.Spacing))
}

// Centroid returns the position of the centroid of grid cell idx.
func (g Grid) Centroid(idx gridtet.V3i) r3.Vec {
	return g.Node(idx.Scale(2))
}

// Bounds returns the box spanned by the grid centroids, which is the dual grid's extent.
func (g Grid) Bounds() r3.Box {
	n := g.DualCells()
	return r3.Box{Min: g.Node(gridtet.V3i{}), Max: g.Node(n.Scale(2))}
}

// MaxDistance returns the half diagonal of a grid cell, which is the
// largest distance from a cell's centroid to any point inside the cell.
func (g Grid) MaxDistance() float64 {
	h := r3.Scale(0.5, g.Spacing)
	return math.Sqrt(h.X*h.X + h.Y*h.Y + h.Z*h.Z)
}

// LegacyMaxDistance returns the distance threshold as historically computed
// by mmg's grid conversion, sqrt((dx/2)^2 + (dy/2)^2 + (dx/2)*(dz/2)).
// It equals MaxDistance only when dx == dz.
func (g Grid) LegacyMaxDistance() float64 {
	h := r3.Scale(0.5, g.Spacing)
	return math.Sqrt(h.X*h.X + h.Y*h.Y + h.X*h.Z)
}
