package config

import (
	"fmt"
	"os"

	"github.com/soypat/gridtet"
	"github.com/soypat/gridtet/grid"
	"github.com/soypat/gridtet/octree"
	"github.com/soypat/gridtet/pipeline"
	"gonum.org/v1/gonum/spatial/r3"
)

func vec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

// GridDescriptor returns the configured grid.
func (c *Config) GridDescriptor() grid.Grid {
	return grid.Grid{
		Cells:   c.Grid.Cells,
		Origin:  vec(c.Grid.Origin),
		Spacing: vec(c.Grid.Spacing),
	}
}

// BuildField returns the configured field. Sampled fields are read from
// Field.Path and must match g.
func (c *Config) BuildField(g grid.Grid) (gridtet.Field, error) {
	fc := c.Field
	var f gridtet.Field
	switch fc.Type {
	case "sphere":
		f = gridtet.Sphere(fc.Radius)
	case "box":
		f = gridtet.Box(vec(fc.Size), fc.Radius)
	case "plane":
		return gridtet.Plane(vec(fc.Center), vec(fc.Normal)), nil
	case "sampled":
		fp, err := os.Open(fc.Path)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		values, err := grid.ReadValues(fp, g)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fc.Path, err)
		}
		return grid.NewSampled(g, values)
	default:
		return nil, fmt.Errorf("unknown field type %q", fc.Type)
	}
	if fc.Center != [3]float64{} {
		f = gridtet.Translate(f, vec(fc.Center))
	}
	return f, nil
}

// PipelineConfig returns the conversion settings.
func (c *Config) PipelineConfig() pipeline.Config {
	cfg := pipeline.Config{
		Strategy:       octree.RefineNarrowBand,
		LegacyDistance: c.Refine.LegacyDistance,
		MaxCells:       c.Refine.MaxCells,
	}
	if c.Refine.Strategy == "full" {
		cfg.Strategy = octree.RefineFull
	}
	return cfg
}
