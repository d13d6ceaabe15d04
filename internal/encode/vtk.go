package encode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/partseed/partseed/pkg/core"
)

// VTKEncoder saves the particle set as a legacy binary *.vtk file for
// visualization: one VTK_VERTEX cell per particle, with diameter and
// injection time as point scalars.
type VTKEncoder struct {
	Path string
}

// Encode writes the particle set to Path.
func (e *VTKEncoder) Encode(particles []core.Particle, _ *core.RunSummary) error {
	buf, endi, np := new(bytes.Buffer), binary.BigEndian, len(particles)

	binary.Write(buf, endi, []byte("# vtk DataFile Version 3.0\n"))
	binary.Write(buf, endi, []byte(fmt.Sprintf("Particle initial conditions: %d vertices, %s\n",
		np, time.Now().Format("2006-01-02 15:04:05"))))
	binary.Write(buf, endi, []byte("BINARY\n"))
	binary.Write(buf, endi, []byte("DATASET UNSTRUCTURED_GRID\n"))

	binary.Write(buf, endi, []byte(fmt.Sprintf("POINTS %d float\n", np)))
	for _, p := range particles {
		binary.Write(buf, endi, float32(p.Position.X))
		binary.Write(buf, endi, float32(p.Position.Y))
		binary.Write(buf, endi, float32(p.Position.Z))
	}

	binary.Write(buf, endi, []byte(fmt.Sprintf("\nCELLS %d %d\n", np, 2*np)))
	for i := range particles {
		binary.Write(buf, endi, int32(1))
		binary.Write(buf, endi, int32(i))
	}

	binary.Write(buf, endi, []byte(fmt.Sprintf("\nCELL_TYPES %d\n", np)))
	for range particles {
		binary.Write(buf, endi, int32(1)) // VTK_VERTEX
	}

	binary.Write(buf, endi, []byte(fmt.Sprintf("\nPOINT_DATA %d\n", np)))
	binary.Write(buf, endi, []byte("SCALARS diameter float\nLOOKUP_TABLE default\n"))
	for _, p := range particles {
		binary.Write(buf, endi, float32(p.Diameter))
	}
	binary.Write(buf, endi, []byte("\nSCALARS injection_time float\nLOOKUP_TABLE default\n"))
	for _, p := range particles {
		binary.Write(buf, endi, float32(p.InjectionTime))
	}

	if err := os.WriteFile(e.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write vtk file: %w", err)
	}
	return nil
}
