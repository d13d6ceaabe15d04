package geometry

import (
	"math"
	"math/rand/v2"

	"github.com/partseed/partseed/pkg/core"
)

// SamplePlane returns n points uniformly distributed over a width×height
// rectangle centered on the local origin, z=0.
func SamplePlane(width, height float64, n int, rng *rand.Rand) []core.Vec3 {
	pts := make([]core.Vec3, n)
	for i := range pts {
		pts[i] = core.Vec3{
			X: (rng.Float64() - 0.5) * width,
			Y: (rng.Float64() - 0.5) * height,
		}
	}
	return pts
}

// SampleDisk returns n points uniformly distributed over a disk of the given
// radius centered on the local origin, z=0. The radial coordinate is drawn
// as radius·√u; a linear draw would bias density toward the center.
func SampleDisk(radius float64, n int, rng *rand.Rand) []core.Vec3 {
	pts := make([]core.Vec3, n)
	for i := range pts {
		r := radius * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		pts[i] = core.Vec3{
			X: r * math.Cos(theta),
			Y: r * math.Sin(theta),
		}
	}
	return pts
}

// SampleClosedForm returns n uniform local-frame points for shapes with a
// closed-form sampler. ok is false for shapes that require rejection
// sampling (polygons).
func (s Shape) SampleClosedForm(n int, rng *rand.Rand) (pts []core.Vec3, ok bool) {
	switch s.kind {
	case KindPlane:
		return SamplePlane(s.width, s.height, n, rng), true
	case KindDisk:
		return SampleDisk(s.radius, n, rng), true
	default:
		return nil, false
	}
}
