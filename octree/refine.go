package octree

import (
	"fmt"

	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/grid"
)

// Strategy selects how Refine subdivides cells.
type Strategy int

const (
	// RefineFull subdivides every cell down to the finest level.
	RefineFull Strategy = iota
	// RefineNarrowBand subdivides only cells the field's zero set may pass
	// through, plus cells straddling the grid extent. The result usually
	// needs Balance before coarsening.
	RefineNarrowBand
)

func (s Strategy) String() string {
	switch s {
	case RefineFull:
		return "full"
	case RefineNarrowBand:
		return "narrowband"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// DefaultMaxCells is the cell budget used when RefineConfig.MaxCells is zero.
const DefaultMaxCells = 1 << 24

// RefineConfig configures Refine.
type RefineConfig struct {
	Strategy Strategy
	// MaxDistance is the distance from a finest cell's center within which
	// the cell is considered to touch the field. Zero selects the grid's
	// MaxDistance.
	MaxDistance float64
	// MaxCells is the largest number of cells the tree may hold.
	MaxCells int
}

// Refine subdivides the leaves of o over grid g and flags the finest leaves
// lying within the distance threshold of f. Exterior finest leaves are never
// flagged. It returns ErrAllocation if the tree would exceed its cell budget,
// leaving o partially refined.
func Refine(o *Octree, g grid.Grid, f gridtet.Field, cfg RefineConfig) error {
	if f == nil {
		panic("nil field")
	}
	dist := cfg.MaxDistance
	if dist == 0 {
		dist = g.MaxDistance()
	}
	if dist < 0 {
		return fmt.Errorf("negative distance threshold %g", dist)
	}
	budget := cfg.MaxCells
	if budget == 0 {
		budget = DefaultMaxCells
	}
	r := refiner{
		o:      o,
		fc:     newFieldCache(g, f, o.depthMax),
		dist:   dist,
		strat:  cfg.Strategy,
		cells:  o.Stats().Cells,
		budget: budget,
	}
	return r.refine(&o.root)
}

type refiner struct {
	o      *Octree
	fc     *fieldCache
	dist   float64
	strat  Strategy
	cells  int
	budget int
}

func (r *refiner) refine(c *Cell) error {
	dm := r.o.depthMax
	if c.IsLeaf() {
		if c.Depth == dm {
			c.TouchesField = !r.o.Exterior(c) && r.fc.touches(c, dm, r.dist)
			return nil
		}
		if !r.wantSplit(c) {
			c.TouchesField = false
			return nil
		}
		if r.cells+8 > r.budget {
			return fmt.Errorf("%w: %d cells at depth %d", ErrAllocation, r.cells, c.Depth)
		}
		c.split(dm)
		r.cells += 8
	}
	for i := range c.children {
		if err := r.refine(&c.children[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *refiner) wantSplit(c *Cell) bool {
	switch r.strat {
	case RefineFull:
		return true
	case RefineNarrowBand:
		if r.o.Exterior(c) {
			return false
		}
		return r.o.straddles(c) || !r.fc.farFrom(c, r.o.depthMax, r.dist)
	}
	panic("unknown refine strategy " + r.strat.String())
}
