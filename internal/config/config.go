// Package config handles grid2tet configuration loading and validation.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config holds all conversion settings.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Field   FieldConfig   `yaml:"field"`
	Refine  RefineConfig  `yaml:"refine"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// GridConfig describes the structured input grid.
type GridConfig struct {
	Cells   [3]int     `yaml:"cells"`
	Origin  [3]float64 `yaml:"origin"`
	Spacing [3]float64 `yaml:"spacing"`
}

// FieldConfig selects the scalar field whose zero set is resolved.
type FieldConfig struct {
	// Type is one of sphere, box, plane or sampled.
	Type   string     `yaml:"type"`
	Center [3]float64 `yaml:"center"`
	Radius float64    `yaml:"radius"` // sphere radius, box corner rounding
	Size   [3]float64 `yaml:"size"`   // box size
	Normal [3]float64 `yaml:"normal"` // plane normal
	// Path to whitespace separated centroid values for sampled fields.
	Path string `yaml:"path"`
}

// RefineConfig holds octree refinement settings.
type RefineConfig struct {
	// Strategy is full or narrowband.
	Strategy string `yaml:"strategy"`
	// LegacyDistance selects the historical distance threshold formula.
	LegacyDistance bool `yaml:"legacy_distance"`
	MaxCells       int  `yaml:"max_cells"`
}

// OutputConfig holds mesh output settings.
type OutputConfig struct {
	// Path of the mesh file. The extension selects the format and a
	// trailing .zst compresses it.
	Path string `yaml:"path"`
	// Sol writes the field at the nodes next to a Medit mesh.
	Sol bool `yaml:"sol"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config meshing a sphere in a 33^3 unit grid.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Cells:   [3]int{33, 33, 33},
			Origin:  [3]float64{-16.5, -16.5, -16.5},
			Spacing: [3]float64{1, 1, 1},
		},
		Field: FieldConfig{
			Type:   "sphere",
			Radius: 10,
			Normal: [3]float64{0, 0, 1},
		},
		Refine: RefineConfig{
			Strategy: "narrowband",
		},
		Output: OutputConfig{
			Path: "out.mesh",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	for i, n := range c.Grid.Cells {
		if n < 1 {
			err = multierr.Append(err, fmt.Errorf("grid.cells[%d] must be positive, got %d", i, n))
		}
	}
	for i, s := range c.Grid.Spacing {
		if !(s > 0) {
			err = multierr.Append(err, fmt.Errorf("grid.spacing[%d] must be positive, got %g", i, s))
		}
	}
	switch c.Field.Type {
	case "sphere":
		if !(c.Field.Radius > 0) {
			err = multierr.Append(err, fmt.Errorf("field.radius must be positive, got %g", c.Field.Radius))
		}
	case "box":
		for i, s := range c.Field.Size {
			if !(s > 0) {
				err = multierr.Append(err, fmt.Errorf("field.size[%d] must be positive, got %g", i, s))
			}
		}
		if c.Field.Radius < 0 {
			err = multierr.Append(err, fmt.Errorf("field.radius must not be negative, got %g", c.Field.Radius))
		}
	case "plane":
		if c.Field.Normal == [3]float64{} {
			err = multierr.Append(err, fmt.Errorf("field.normal must not be zero"))
		}
	case "sampled":
		if c.Field.Path == "" {
			err = multierr.Append(err, fmt.Errorf("field.path required for sampled field"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown field.type %q", c.Field.Type))
	}
	switch c.Refine.Strategy {
	case "full", "narrowband":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown refine.strategy %q", c.Refine.Strategy))
	}
	if c.Refine.MaxCells < 0 {
		err = multierr.Append(err, fmt.Errorf("refine.max_cells must not be negative, got %d", c.Refine.MaxCells))
	}
	if c.Output.Path == "" {
		err = multierr.Append(err, fmt.Errorf("output.path required"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}
	return err
}
