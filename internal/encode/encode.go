// Package encode serializes an assembled particle set. Encoders are
// selected by the output configuration; all of them consume the engine's
// source-major record order unchanged.
package encode

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/partseed/partseed/internal/config"
	"github.com/partseed/partseed/pkg/core"
)

// Encoder writes one complete particle set.
type Encoder interface {
	Encode(particles []core.Particle, summary *core.RunSummary) error
}

// New creates an encoder based on configuration.
func New(cfg *config.Config, log zerolog.Logger) (Encoder, error) {
	switch cfg.Output.Type {
	case "dat":
		return &DatEncoder{Path: cfg.Output.Path, Compress: cfg.Output.Compress}, nil
	case "csv":
		return &CSVEncoder{Path: cfg.Output.Path, Compress: cfg.Output.Compress}, nil
	case "vtk":
		return &VTKEncoder{Path: cfg.Output.Path}, nil
	case "database":
		return NewDatabaseEncoder(cfg, log)
	default:
		return nil, fmt.Errorf("unknown output type: %s", cfg.Output.Type)
	}
}
