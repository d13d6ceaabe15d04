package encode

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/partseed/partseed/pkg/core"
)

// CSVEncoder writes a headed CSV for spreadsheet and post-processing use.
type CSVEncoder struct {
	Path     string
	Compress bool
}

var csvHeader = []string{
	"id", "x", "y", "z", "u", "v", "w",
	"injection_time", "diameter", "density", "source_id",
}

// Encode writes the particle set to Path.
func (e *CSVEncoder) Encode(particles []core.Particle, _ *core.RunSummary) error {
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

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(csvHeader))
	for _, p := range particles {
		row[0] = strconv.FormatUint(p.ID, 10)
		row[1] = strconv.FormatFloat(p.Position.X, 'g', -1, 64)
		row[2] = strconv.FormatFloat(p.Position.Y, 'g', -1, 64)
		row[3] = strconv.FormatFloat(p.Position.Z, 'g', -1, 64)
		row[4] = strconv.FormatFloat(p.Velocity.X, 'g', -1, 64)
		row[5] = strconv.FormatFloat(p.Velocity.Y, 'g', -1, 64)
		row[6] = strconv.FormatFloat(p.Velocity.Z, 'g', -1, 64)
		row[7] = strconv.FormatFloat(p.InjectionTime, 'g', -1, 64)
		row[8] = strconv.FormatFloat(p.Diameter, 'g', -1, 64)
		row[9] = strconv.FormatFloat(p.Density, 'g', -1, 64)
		row[10] = p.SourceID
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	return nil
}
