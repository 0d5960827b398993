// Command grid2tet converts a structured grid and a scalar field into a
// tetrahedral mesh through a balanced, coarsened octree.
//
//	grid2tet -config grid.yaml -o out.mesh
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/soypat/gridtet/internal/config"
	"github.com/soypat/gridtet/internal/logger"
	"github.com/soypat/gridtet/pipeline"
	"github.com/soypat/gridtet/tetra"
	"go.uber.org/zap"
)

var (
	flagConfig = flag.String("config", "", "Path to YAML config file")
	flagOutput = flag.String("o", "", "Output mesh file (.mesh, .stl, .glb, optionally .zst)")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagSol    = flag.Bool("sol", false, "Write field values to a .sol file next to a .mesh output")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "grid2tet:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	g := cfg.GridDescriptor()
	f, err := cfg.BuildField(g)
	if err != nil {
		return err
	}
	m, err := pipeline.Convert(g, f, cfg.PipelineConfig(), log)
	if err != nil {
		return err
	}
	if err := m.SaveFile(cfg.Output.Path); err != nil {
		return err
	}
	log.Info("mesh written", zap.String("path", cfg.Output.Path), zap.Uint64("checksum", m.Checksum()))
	if !cfg.Output.Sol {
		return nil
	}
	solPath, ok := solName(cfg.Output.Path)
	if !ok {
		log.Warn("solution output requires a .mesh file", zap.String("path", cfg.Output.Path))
		return nil
	}
	fp, err := tetra.CreateFile(solPath)
	if err != nil {
		return err
	}
	if err := m.WriteSol(fp); err != nil {
		fp.Close()
		return err
	}
	log.Info("solution written", zap.String("path", solPath))
	return fp.Close()
}

// applyFlags applies command line overrides to the config.
func applyFlags(cfg *config.Config) {
	if *flagOutput != "" {
		cfg.Output.Path = *flagOutput
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSol {
		cfg.Output.Sol = true
	}
}

// solName returns the solution file name for a Medit mesh file name.
func solName(meshPath string) (string, bool) {
	zst := strings.HasSuffix(meshPath, ".zst")
	base := strings.TrimSuffix(meshPath, ".zst")
	if !strings.HasSuffix(base, ".mesh") {
		return "", false
	}
	name := strings.TrimSuffix(base, ".mesh") + ".sol"
	if zst {
		name += ".zst"
	}
	return name, true
}
