// Package pipeline converts a structured grid and a scalar field into a
// tetrahedral mesh: octree creation, coarsening and tetrahedralization.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/grid"
	"github.com/soypat/gridtet/octree"
	"github.com/soypat/gridtet/tetra"
	"go.uber.org/zap"
)

// Stage errors. Errors returned by Convert wrap one of these and the
// underlying cause.
var (
	ErrOctreeInit         = errors.New("octree creation failed")
	ErrOctreeCoarsen      = errors.New("octree coarsening failed")
	ErrTetrahedralization = errors.New("tetrahedralization failed")
)

// Config holds conversion settings.
type Config struct {
	Strategy octree.Strategy
	// LegacyDistance selects grid.LegacyMaxDistance as threshold.
	LegacyDistance bool
	// MaxCells bounds the octree size, zero selects octree.DefaultMaxCells.
	MaxCells int
}

// Convert builds a balanced octree over g resolving f, coarsens it and
// tetrahedralizes the result. On failure no mesh is returned and the error
// names the failed stage. A nil log discards output.
func Convert(g grid.Grid, f gridtet.Field, cfg Config, log *zap.Logger) (*tetra.Mesh, error) {
	log = orNop(log)
	start := time.Now()
	o, err := BuildOctree(g, f, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := Coarsen(o, log); err != nil {
		return nil, err
	}
	m, err := Mesh(o, g, f, log)
	if err != nil {
		return nil, err
	}
	log.Info("grid converted",
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("tetrahedra", len(m.Tetras)),
		zap.Duration("elapsed", time.Since(start)))
	return m, nil
}

// BuildOctree creates the octree over g and refines it around f.
// Adaptive refinement is followed by balancing.
func BuildOctree(g grid.Grid, f gridtet.Field, cfg Config, log *zap.Logger) (*octree.Octree, error) {
	log = orNop(log)
	log.Debug("** OCTREE CREATION")
	o, err := buildOctree(g, f, cfg)
	if err != nil {
		log.Error("octree creation", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrOctreeInit, err)
	}
	st := o.Stats()
	log.Debug("octree created",
		zap.Int("depth", o.DepthMax()),
		zap.Stringer("strategy", cfg.Strategy),
		zap.Int("cells", st.Cells),
		zap.Int("leaves", st.Leaves),
		zap.Int("field_leaves", st.Field))
	return o, nil
}

func buildOctree(g grid.Grid, f gridtet.Field, cfg Config) (*octree.Octree, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	depth, err := g.DepthMax()
	if err != nil {
		return nil, err
	}
	o, err := octree.New(depth, g.DualCells())
	if err != nil {
		return nil, err
	}
	rcfg := octree.RefineConfig{
		Strategy:    cfg.Strategy,
		MaxDistance: g.MaxDistance(),
		MaxCells:    cfg.MaxCells,
	}
	if cfg.LegacyDistance {
		rcfg.MaxDistance = g.LegacyMaxDistance()
	}
	if err := octree.Refine(o, g, f, rcfg); err != nil {
		return nil, err
	}
	if cfg.Strategy != octree.RefineFull {
		octree.Balance(o)
	}
	return o, nil
}

// Coarsen coarsens o and verifies the result is a valid balanced tree.
func Coarsen(o *octree.Octree, log *zap.Logger) error {
	log = orNop(log)
	log.Debug("** OCTREE COARSENING")
	merged := o.Coarsen()
	err := o.Validate()
	if err == nil {
		err = o.CheckBalance()
	}
	if err != nil {
		log.Error("octree coarsening", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrOctreeCoarsen, err)
	}
	st := o.Stats()
	log.Debug("octree coarsened",
		zap.Int("merged", merged),
		zap.Int("leaves", st.Leaves),
		zap.Int("interior_leaves", st.Interior),
		zap.Ints("leaves_by_depth", st.ByDepth))
	return nil
}

// Mesh tetrahedralizes the interior leaves of o.
func Mesh(o *octree.Octree, g grid.Grid, f gridtet.Field, log *zap.Logger) (*tetra.Mesh, error) {
	log = orNop(log)
	log.Debug("** TETRAHEDRALIZATION")
	m, err := tetra.Tetrahedralize(o, g, f)
	if err == nil {
		err = m.Validate()
	}
	if err != nil {
		log.Error("tetrahedralization", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTetrahedralization, err)
	}
	log.Debug("mesh built", zap.Int("nodes", len(m.Nodes)), zap.Int("tetrahedra", len(m.Tetras)))
	return m, nil
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
