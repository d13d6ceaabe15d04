package encode

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/partseed/partseed/pkg/core"
)

// DatEncoder writes the tab-separated text format most particle-tracking
// solvers ingest directly: one row per particle,
// x y z u v w start_time diameter density id.
type DatEncoder struct {
	Path     string
	Compress bool
}

// Encode writes the particle set to Path, gzip-compressed when Compress is
// set.
func (e *DatEncoder) Encode(particles []core.Particle, _ *core.RunSummary) error {
	f, err := os.Create(e.Path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if e.Compress {
		gz = gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "# location velocity \"start time\" diameter  density\n")
	fmt.Fprint(bw, "# x y z       u v w\n")
	for _, p := range particles {
		fmt.Fprintf(bw, "%.15f\t%.15f\t%.15f\t%g\t%g\t%g\t%7.3f\t%g\t%g\t%d\n",
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Velocity.X, p.Velocity.Y, p.Velocity.Z,
			p.InjectionTime, p.Diameter, p.Density, p.ID)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	return nil
}
