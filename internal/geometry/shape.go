// Package geometry defines the source shape descriptors and their samplers.
// Shapes are a tagged variant (plane, disk, polygon); planes and disks have
// closed-form uniform samplers, polygons are sampled by rejection against
// the Contains predicate.
package geometry

import (
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/partseed/partseed/pkg/core"
)

// ErrInvalidShape is returned when shape parameters fail validation.
var ErrInvalidShape = errors.New("invalid shape parameters")

// Kind identifies the shape variant.
type Kind int

const (
	KindPlane Kind = iota
	KindDisk
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindDisk:
		return "disk"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Shape is an immutable source cross-section in its local frame. All shapes
// lie in the local z=0 plane, centered per their constructor.
type Shape struct {
	kind Kind

	// plane
	width, height float64

	// disk
	radius float64

	// polygon
	poly                   geom.Polygon
	minX, minY, maxX, maxY float64
}

// NewPlane creates a width×height rectangle centered on the local origin.
func NewPlane(width, height float64) (Shape, error) {
	if width <= 0 || height <= 0 {
		return Shape{}, fmt.Errorf("%w: plane dimensions must be positive, got %gx%g",
			ErrInvalidShape, width, height)
	}
	return Shape{kind: KindPlane, width: width, height: height}, nil
}

// NewDisk creates a disk of the given radius centered on the local origin.
func NewDisk(radius float64) (Shape, error) {
	if radius <= 0 {
		return Shape{}, fmt.Errorf("%w: disk radius must be positive, got %g",
			ErrInvalidShape, radius)
	}
	return Shape{kind: KindDisk, radius: radius}, nil
}

// NewPolygon creates a shape bounded by the given ring of [x,y] vertices in
// the local z=0 plane. The ring may be given open; it is closed implicitly.
// Self-intersecting or degenerate rings are rejected.
func NewPolygon(ring [][2]float64) (Shape, error) {
	if len(ring) < 3 {
		return Shape{}, fmt.Errorf("%w: polygon needs at least 3 vertices, got %d",
			ErrInvalidShape, len(ring))
	}

	closed := ring
	if ring[0] != ring[len(ring)-1] {
		closed = append(append([][2]float64{}, ring...), ring[0])
	}

	flat := make([]float64, 0, len(closed)*2)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range closed {
		flat = append(flat, v[0], v[1])
		minX = math.Min(minX, v[0])
		minY = math.Min(minY, v[1])
		maxX = math.Max(maxX, v[0])
		maxY = math.Max(maxY, v[1])
	}

	seq := geom.NewSequence(flat, geom.DimXY)
	poly := geom.NewPolygon([]geom.LineString{geom.NewLineString(seq)})
	if err := poly.Validate(); err != nil {
		return Shape{}, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if poly.Area() <= 0 {
		return Shape{}, fmt.Errorf("%w: polygon has zero area", ErrInvalidShape)
	}

	return Shape{
		kind: KindPolygon,
		poly: poly,
		minX: minX, minY: minY,
		maxX: maxX, maxY: maxY,
	}, nil
}

// Kind returns the shape variant tag.
func (s Shape) Kind() Kind { return s.kind }

// ClosedForm reports whether a closed-form uniform sampler exists for s.
func (s Shape) ClosedForm() bool { return s.kind != KindPolygon }

// Area returns the shape's area in the local frame.
func (s Shape) Area() float64 {
	switch s.kind {
	case KindPlane:
		return s.width * s.height
	case KindDisk:
		return math.Pi * s.radius * s.radius
	default:
		return s.poly.Area()
	}
}

// Bounds returns the axis-aligned bounding box of s in the local frame.
// The box is degenerate in z (all shapes lie in the z=0 plane).
func (s Shape) Bounds() (min, max core.Vec3) {
	switch s.kind {
	case KindPlane:
		return core.Vec3{X: -s.width / 2, Y: -s.height / 2},
			core.Vec3{X: s.width / 2, Y: s.height / 2}
	case KindDisk:
		return core.Vec3{X: -s.radius, Y: -s.radius},
			core.Vec3{X: s.radius, Y: s.radius}
	default:
		return core.Vec3{X: s.minX, Y: s.minY},
			core.Vec3{X: s.maxX, Y: s.maxY}
	}
}

// Contains reports whether the local-frame point p lies inside s (boundary
// inclusive). This is the predicate the rejection sampler tests against.
func (s Shape) Contains(p core.Vec3) bool {
	switch s.kind {
	case KindPlane:
		return math.Abs(p.X) <= s.width/2 && math.Abs(p.Y) <= s.height/2
	case KindDisk:
		return p.X*p.X+p.Y*p.Y <= s.radius*s.radius
	default:
		pt := geom.NewPoint(geom.Coordinates{
			XY:   geom.XY{X: p.X, Y: p.Y},
			Type: geom.DimXY,
		})
		return geom.Intersects(s.poly.AsGeometry(), pt.AsGeometry())
	}
}
