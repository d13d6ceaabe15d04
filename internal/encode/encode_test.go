package encode

import (
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partseed/partseed/internal/config"
	"github.com/partseed/partseed/pkg/core"
)

func testParticles() []core.Particle {
	return []core.Particle{
		{
			ID:            0,
			Position:      core.Vec3{X: 0.0015, Y: 3.371, Z: 1.683},
			InjectionTime: 0,
			Diameter:      10e-6,
			Density:       977,
			SourceID:      "mouth",
		},
		{
			ID:            1,
			Position:      core.Vec3{X: 0.00573, Y: -0.00875, Z: 1.71177},
			Velocity:      core.Vec3{X: 0.1, Y: -0.2, Z: 1.5},
			InjectionTime: 2.495,
			Diameter:      10e-6,
			Density:       977,
			SourceID:      "nostril-left",
		},
	}
}

func testSummary() *core.RunSummary {
	return &core.RunSummary{Seed: 42, Sources: 2, Particles: 2}
}

func TestNewSelectsEncoder(t *testing.T) {
	tests := []struct {
		outType string
		want    any
	}{
		{"dat", &DatEncoder{}},
		{"csv", &CSVEncoder{}},
		{"vtk", &VTKEncoder{}},
	}
	for _, tt := range tests {
		t.Run(tt.outType, func(t *testing.T) {
			cfg := &config.Config{Output: config.OutputConfig{Type: tt.outType, Path: "out"}}
			enc, err := New(cfg, zerolog.Nop())
			require.NoError(t, err)
			assert.IsType(t, tt.want, enc)
		})
	}

	_, err := New(&config.Config{Output: config.OutputConfig{Type: "yaml"}}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output type")
}

func TestDatEncoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ParticleInitial.dat")
	enc := &DatEncoder{Path: path}
	require.NoError(t, enc.Encode(testParticles(), testSummary()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, `# location velocity "start time" diameter  density`, lines[0])
	assert.Equal(t, "# x y z       u v w", lines[1])

	first := strings.Fields(lines[2])
	require.Len(t, first, 10)
	assert.Equal(t, "0.001500000000000", first[0])
	assert.Equal(t, "3.371000000000000", first[1])
	assert.Equal(t, "0", first[3])
	assert.Equal(t, "0.000", first[6])
	assert.Equal(t, "1e-05", first[7])
	assert.Equal(t, "977", first[8])
	assert.Equal(t, "0", first[9])

	second := strings.Fields(lines[3])
	assert.Equal(t, "2.495", second[6])
	assert.Equal(t, "1", second[9])
}

func TestDatEncoderCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ParticleInitial.dat.gz")
	enc := &DatEncoder{Path: path, Compress: true}
	require.NoError(t, enc.Encode(testParticles(), testSummary()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = buf.ReadFrom(zr)
	require.NoError(t, err)

	plainPath := filepath.Join(t.TempDir(), "plain.dat")
	require.NoError(t, (&DatEncoder{Path: plainPath}).Encode(testParticles(), testSummary()))
	plain, err := os.ReadFile(plainPath)
	require.NoError(t, err)
	assert.Equal(t, plain, buf.Bytes())
}

func TestCSVEncoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.csv")
	enc := &CSVEncoder{Path: path}
	require.NoError(t, enc.Encode(testParticles(), testSummary()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])

	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "0.0015", rows[1][1])
	assert.Equal(t, "977", rows[1][9])
	assert.Equal(t, "mouth", rows[1][10])

	assert.Equal(t, "1", rows[2][0])
	assert.Equal(t, "2.495", rows[2][7])
	assert.Equal(t, "nostril-left", rows[2][10])
}

func TestVTKEncoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "particles.vtk")
	enc := &VTKEncoder{Path: path}
	require.NoError(t, enc.Encode(testParticles(), testSummary()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# vtk DataFile Version 3.0\n"))
	assert.Contains(t, text, "BINARY\n")
	assert.Contains(t, text, "DATASET UNSTRUCTURED_GRID\n")
	assert.Contains(t, text, "POINTS 2 float\n")
	assert.Contains(t, text, "CELLS 2 4\n")
	assert.Contains(t, text, "CELL_TYPES 2\n")
	assert.Contains(t, text, "POINT_DATA 2\n")
	assert.Contains(t, text, "SCALARS diameter float\n")
	assert.Contains(t, text, "SCALARS injection_time float\n")

	// 2 points × 3 float32 coordinates follow the POINTS header
	idx := strings.Index(text, "POINTS 2 float\n") + len("POINTS 2 float\n")
	require.GreaterOrEqual(t, len(data), idx+24)
}
