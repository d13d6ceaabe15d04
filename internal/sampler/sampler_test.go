package sampler

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partseed/partseed/internal/geometry"
	"github.com/partseed/partseed/internal/transform"
	"github.com/partseed/partseed/pkg/core"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 0))
}

func TestPositionsClosedFormCount(t *testing.T) {
	disk, err := geometry.NewDisk(0.01)
	require.NoError(t, err)

	pts, err := Positions("nostril-left", disk, transform.Identity(), 250, 0, testRand(), nil)
	require.NoError(t, err)
	require.Len(t, pts, 250)
	for _, p := range pts {
		assert.LessOrEqual(t, p.X*p.X+p.Y*p.Y, 0.01*0.01)
		assert.Zero(t, p.Z)
	}
}

func TestPositionsAppliesTransform(t *testing.T) {
	disk, err := geometry.NewDisk(1)
	require.NoError(t, err)
	tr := transform.Identity().Translated(core.Vec3{X: 10, Y: -5, Z: 2})

	pts, err := Positions("shifted", disk, tr, 100, 0, testRand(), nil)
	require.NoError(t, err)
	for _, p := range pts {
		dx, dy := p.X-10, p.Y-(-5)
		assert.LessOrEqual(t, dx*dx+dy*dy, 1.0+1e-12)
		assert.InDelta(t, 2, p.Z, 1e-15)
	}
}

func TestPositionsRejectionContainment(t *testing.T) {
	poly, err := geometry.NewPolygon([][2]float64{{0, 0}, {2, 0}, {1, 1.5}})
	require.NoError(t, err)

	var stats Stats
	rng := testRand()
	pts, err := Positions("triangle", poly, transform.Identity(), 500, 0, rng, &stats)
	require.NoError(t, err)
	require.Len(t, pts, 500)

	for _, p := range pts {
		assert.True(t, poly.Contains(p), "accepted point outside shape: %+v", p)
	}
	assert.GreaterOrEqual(t, stats.Drawn, stats.Kept)
	assert.Equal(t, uint64(500), stats.Kept)
}

func TestPositionsDeterminism(t *testing.T) {
	poly, err := geometry.NewPolygon([][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	require.NoError(t, err)

	a, err := Positions("sq", poly, transform.Identity(), 200, 0, testRand(), nil)
	require.NoError(t, err)
	b, err := Positions("sq", poly, transform.Identity(), 200, 0, testRand(), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// A sliver along the bounding-box diagonal has a vanishing area fraction,
// so the attempt budget trips instead of looping forever.
func TestPositionsExhaustion(t *testing.T) {
	sliver, err := geometry.NewPolygon([][2]float64{{0, 0}, {1, 1}, {1, 1 + 1e-9}})
	require.NoError(t, err)

	var stats Stats
	_, err = Positions("sliver", sliver, transform.Identity(), 10, 5, testRand(), &stats)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrExhausted)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "sliver", exhausted.SourceID)
	assert.Equal(t, 10, exhausted.Requested)
	assert.Equal(t, uint64(50), exhausted.Attempts)
	assert.Less(t, exhausted.Accepted, 10)
}

func TestPositionsNegativeCount(t *testing.T) {
	disk, err := geometry.NewDisk(1)
	require.NoError(t, err)
	_, err = Positions("bad", disk, transform.Identity(), -1, 0, testRand(), nil)
	require.Error(t, err)
}
