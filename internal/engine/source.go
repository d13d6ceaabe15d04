package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/partseed/partseed/internal/config"
	"github.com/partseed/partseed/internal/geo"
	"github.com/partseed/partseed/internal/geometry"
	"github.com/partseed/partseed/internal/property"
	"github.com/partseed/partseed/internal/schedule"
	"github.com/partseed/partseed/internal/transform"
	"github.com/partseed/partseed/pkg/core"
)

// Source is one validated, immutable particle-emission unit. All
// configuration errors surface here, at construction; the sampling loop
// never sees an invalid source.
type Source struct {
	ID          string
	Shape       geometry.Shape
	Transform   transform.Transform
	Pattern     schedule.Pattern
	Velocity    [3]property.Policy
	Diameter    property.Policy
	Density     property.Policy
	MaxAttempts int
}

// BuildSource validates one source configuration. index names anonymous
// sources and doubles as the source's RNG stream index.
func BuildSource(cfg config.SourceConfig, index int) (Source, error) {
	id := cfg.ID
	if id == "" {
		id = fmt.Sprintf("source-%d", index)
	}
	fail := func(err error) (Source, error) {
		return Source{}, fmt.Errorf("source %q: %w", id, err)
	}

	shape, err := buildShape(cfg.Shape)
	if err != nil {
		return fail(err)
	}

	tr, err := buildTransform(cfg.Transform)
	if err != nil {
		return fail(err)
	}
	if cfg.Anchor != nil {
		offset, err := geo.Anchor3857(cfg.Anchor.Lon, cfg.Anchor.Lat)
		if err != nil {
			return fail(err)
		}
		tr = tr.Translated(offset)
	}

	pattern, err := buildPattern(cfg.Release)
	if err != nil {
		return fail(err)
	}
	if err := pattern.Validate(); err != nil {
		return fail(err)
	}

	var vel [3]property.Policy
	for i, pc := range []config.PolicyConfig{cfg.Velocity.U, cfg.Velocity.V, cfg.Velocity.W} {
		p, err := buildPolicy(pc)
		if err != nil {
			return fail(fmt.Errorf("velocity: %w", err))
		}
		vel[i] = p
	}

	diameter, err := buildPolicy(cfg.Diameter)
	if err != nil {
		return fail(fmt.Errorf("diameter: %w", err))
	}
	density, err := buildPolicy(cfg.Density)
	if err != nil {
		return fail(fmt.Errorf("density: %w", err))
	}

	return Source{
		ID:          id,
		Shape:       shape,
		Transform:   tr,
		Pattern:     pattern,
		Velocity:    vel,
		Diameter:    diameter,
		Density:     density,
		MaxAttempts: cfg.MaxAttempts,
	}, nil
}

func buildShape(cfg config.ShapeConfig) (geometry.Shape, error) {
	switch strings.ToLower(cfg.Type) {
	case "plane":
		return geometry.NewPlane(cfg.Width, cfg.Height)
	case "disk", "circle":
		return geometry.NewDisk(cfg.Radius)
	case "polygon":
		ring := make([][2]float64, 0, len(cfg.Ring))
		for i, v := range cfg.Ring {
			if len(v) < 2 {
				return geometry.Shape{}, fmt.Errorf("%w: ring vertex %d has %d coordinates",
					geometry.ErrInvalidShape, i, len(v))
			}
			ring = append(ring, [2]float64{v[0], v[1]})
		}
		return geometry.NewPolygon(ring)
	default:
		return geometry.Shape{}, fmt.Errorf("%w: unknown shape type %q",
			geometry.ErrInvalidShape, cfg.Type)
	}
}

func buildTransform(cfg config.TransformConfig) (transform.Transform, error) {
	var t core.Vec3
	if len(cfg.Translation) > 0 {
		if len(cfg.Translation) != 3 {
			return transform.Transform{}, fmt.Errorf("%w: translation needs 3 components, got %d",
				transform.ErrDegenerateRotation, len(cfg.Translation))
		}
		t = core.Vec3{X: cfg.Translation[0], Y: cfg.Translation[1], Z: cfg.Translation[2]}
	}

	forms := 0
	if len(cfg.Matrix) > 0 {
		forms++
	}
	if len(cfg.EulerDeg) > 0 {
		forms++
	}
	if len(cfg.Axis) > 0 {
		forms++
	}
	if forms > 1 {
		return transform.Transform{}, fmt.Errorf("%w: give at most one of matrix, eulerDeg, axis",
			transform.ErrDegenerateRotation)
	}

	switch {
	case len(cfg.Matrix) > 0:
		if len(cfg.Matrix) != 3 || len(cfg.Matrix[0]) != 3 || len(cfg.Matrix[1]) != 3 || len(cfg.Matrix[2]) != 3 {
			return transform.Transform{}, fmt.Errorf("%w: rotation matrix must be 3x3",
				transform.ErrDegenerateRotation)
		}
		var r [3][3]float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				r[i][j] = cfg.Matrix[i][j]
			}
		}
		return transform.New(r, t)
	case len(cfg.EulerDeg) > 0:
		if len(cfg.EulerDeg) != 3 {
			return transform.Transform{}, fmt.Errorf("%w: eulerDeg needs 3 angles, got %d",
				transform.ErrDegenerateRotation, len(cfg.EulerDeg))
		}
		const d2r = math.Pi / 180
		return transform.FromEuler(
			cfg.EulerDeg[0]*d2r, cfg.EulerDeg[1]*d2r, cfg.EulerDeg[2]*d2r, t), nil
	case len(cfg.Axis) > 0:
		if len(cfg.Axis) != 3 {
			return transform.Transform{}, fmt.Errorf("%w: axis needs 3 components, got %d",
				transform.ErrDegenerateRotation, len(cfg.Axis))
		}
		axis := core.Vec3{X: cfg.Axis[0], Y: cfg.Axis[1], Z: cfg.Axis[2]}
		return transform.FromAxisAngle(axis, cfg.AngleDeg*math.Pi/180, t)
	default:
		return transform.Identity().Translated(t), nil
	}
}

func buildPattern(cfg config.ReleaseConfig) (schedule.Pattern, error) {
	end := cfg.End
	if end == 0 && cfg.Period > 0 {
		end = math.Inf(1)
	}

	var rate *property.Policy
	if cfg.Rate != nil {
		p, err := buildPolicy(*cfg.Rate)
		if err != nil {
			return schedule.Pattern{}, fmt.Errorf("rate: %w", err)
		}
		rate = &p
	}

	return schedule.Pattern{
		Start:    cfg.Start,
		End:      end,
		Period:   cfg.Period,
		Count:    cfg.Count,
		Rate:     rate,
		Cycle:    cfg.Cycle,
		Window:   cfg.Window,
		Jitter:   cfg.Jitter,
		Truncate: cfg.Truncate,
	}, nil
}

func buildPolicy(cfg config.PolicyConfig) (property.Policy, error) {
	var p property.Policy
	switch strings.ToLower(cfg.Type) {
	case "", "fixed":
		p = property.Fixed(cfg.Value)
	case "uniform":
		p = property.Uniform(cfg.Min, cfg.Max)
	case "normal":
		p = property.Normal(cfg.Mean, cfg.Sigma)
	case "lognormal":
		p = property.LogNormal(cfg.Mean, cfg.Sigma)
	default:
		return property.Policy{}, fmt.Errorf("%w: unknown policy type %q",
			property.ErrInvalidPolicy, cfg.Type)
	}
	return p, p.Validate()
}
