package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partseed/partseed/pkg/core"
)

func TestNewPlane(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"valid", 0.04, 0.01, false},
		{"zero width", 0, 1, true},
		{"negative height", 1, -2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewPlane(tt.width, tt.height)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindPlane, s.Kind())
			assert.True(t, s.ClosedForm())
			assert.InDelta(t, tt.width*tt.height, s.Area(), 1e-15)
		})
	}
}

func TestNewDisk(t *testing.T) {
	_, err := NewDisk(0)
	require.ErrorIs(t, err, ErrInvalidShape)

	s, err := NewDisk(0.001875)
	require.NoError(t, err)
	assert.Equal(t, KindDisk, s.Kind())
	assert.True(t, s.ClosedForm())
}

func TestNewPolygon(t *testing.T) {
	tests := []struct {
		name    string
		ring    [][2]float64
		wantErr bool
	}{
		{"open triangle", [][2]float64{{0, 0}, {1, 0}, {0, 1}}, false},
		{"closed square", [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}, false},
		{"too few vertices", [][2]float64{{0, 0}, {1, 0}}, true},
		{"self intersecting", [][2]float64{{0, 0}, {1, 1}, {1, 0}, {0, 1}}, true},
		{"zero area", [][2]float64{{0, 0}, {1, 0}, {2, 0}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewPolygon(tt.ring)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindPolygon, s.Kind())
			assert.False(t, s.ClosedForm())
		})
	}
}

func TestShapeContains(t *testing.T) {
	plane, err := NewPlane(2, 1)
	require.NoError(t, err)
	disk, err := NewDisk(1)
	require.NoError(t, err)
	poly, err := NewPolygon([][2]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		shape Shape
		p     core.Vec3
		want  bool
	}{
		{"plane inside", plane, core.Vec3{X: 0.9, Y: 0.4}, true},
		{"plane boundary", plane, core.Vec3{X: 1, Y: 0.5}, true},
		{"plane outside", plane, core.Vec3{X: 1.01, Y: 0}, false},
		{"disk inside", disk, core.Vec3{X: 0.5, Y: 0.5}, true},
		{"disk outside", disk, core.Vec3{X: 0.8, Y: 0.8}, false},
		{"polygon inside", poly, core.Vec3{X: 1, Y: 1}, true},
		{"polygon outside", poly, core.Vec3{X: 3, Y: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.shape.Contains(tt.p))
		})
	}
}

func TestShapeBounds(t *testing.T) {
	poly, err := NewPolygon([][2]float64{{-1, 0}, {2, 0}, {2, 3}, {-1, 3}})
	require.NoError(t, err)

	min, max := poly.Bounds()
	assert.Equal(t, core.Vec3{X: -1, Y: 0}, min)
	assert.Equal(t, core.Vec3{X: 2, Y: 3}, max)

	disk, err := NewDisk(0.5)
	require.NoError(t, err)
	min, max = disk.Bounds()
	assert.Equal(t, core.Vec3{X: -0.5, Y: -0.5}, min)
	assert.Equal(t, core.Vec3{X: 0.5, Y: 0.5}, max)
}
