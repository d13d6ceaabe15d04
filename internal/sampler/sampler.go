// Package sampler produces world-frame particle positions for a source
// shape: closed-form shapes delegate to their geometry sampler, everything
// else is rejection-sampled inside the shape's bounding box.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/partseed/partseed/internal/geometry"
	"github.com/partseed/partseed/internal/transform"
	"github.com/partseed/partseed/pkg/core"
)

// DefaultMaxAttempts is the per-point rejection budget used when a source
// does not configure one: sampling n points may draw at most
// DefaultMaxAttempts·n candidates before failing.
const DefaultMaxAttempts = 1000

// ErrExhausted is returned when rejection sampling hits its attempt budget
// before producing the requested number of points. This indicates a shape
// whose area fraction within its bounding box is degenerate.
var ErrExhausted = errors.New("rejection sampling exhausted")

// ExhaustedError carries the context a caller needs to adjust the
// configuration: which source failed, how far it got, and the acceptance
// rate that was observed.
type ExhaustedError struct {
	SourceID  string
	Requested int
	Accepted  int
	Attempts  uint64
}

func (e *ExhaustedError) Error() string {
	rate := 0.0
	if e.Attempts > 0 {
		rate = float64(e.Accepted) / float64(e.Attempts)
	}
	return fmt.Sprintf(
		"source %q: rejection sampling exhausted after %d attempts (%d/%d accepted, rate %.2e)",
		e.SourceID, e.Attempts, e.Accepted, e.Requested, rate)
}

func (e *ExhaustedError) Unwrap() error { return ErrExhausted }

// Stats accumulates candidate counts across one source's sampling.
type Stats struct {
	Drawn uint64
	Kept  uint64
}

// Positions returns exactly n world-frame points uniformly distributed over
// the shape, placed by tr. For rejection-sampled shapes maxAttempts bounds
// the candidate budget per requested point (0 selects DefaultMaxAttempts).
// Given the same rng state the output is bit-for-bit reproducible.
func Positions(
	sourceID string,
	shape geometry.Shape,
	tr transform.Transform,
	n int,
	maxAttempts int,
	rng *rand.Rand,
	stats *Stats,
) ([]core.Vec3, error) {
	if n < 0 {
		return nil, fmt.Errorf("source %q: negative position count %d", sourceID, n)
	}

	local, ok := shape.SampleClosedForm(n, rng)
	if !ok {
		var err error
		local, err = reject(sourceID, shape, n, maxAttempts, rng, stats)
		if err != nil {
			return nil, err
		}
	}

	world := make([]core.Vec3, len(local))
	for i, p := range local {
		world[i] = tr.Apply(p)
	}
	return world, nil
}

// reject draws candidates uniformly within the shape's local bounding box
// and keeps those the shape contains.
func reject(
	sourceID string,
	shape geometry.Shape,
	n int,
	maxAttempts int,
	rng *rand.Rand,
	stats *Stats,
) ([]core.Vec3, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	budget := uint64(maxAttempts) * uint64(n)

	min, max := shape.Bounds()
	dx, dy := max.X-min.X, max.Y-min.Y

	pts := make([]core.Vec3, 0, n)
	var attempts uint64
	attrs := metric.WithAttributes(attribute.String("source", sourceID))

	for len(pts) < n {
		if attempts >= budget {
			recordCandidates(attrs, attempts, uint64(len(pts)))
			if stats != nil {
				stats.Drawn += attempts
				stats.Kept += uint64(len(pts))
			}
			return nil, &ExhaustedError{
				SourceID:  sourceID,
				Requested: n,
				Accepted:  len(pts),
				Attempts:  attempts,
			}
		}
		attempts++

		p := core.Vec3{
			X: min.X + rng.Float64()*dx,
			Y: min.Y + rng.Float64()*dy,
		}
		if shape.Contains(p) {
			pts = append(pts, p)
		}
	}

	recordCandidates(attrs, attempts, uint64(n))
	if stats != nil {
		stats.Drawn += attempts
		stats.Kept += uint64(n)
	}
	return pts, nil
}

func recordCandidates(attrs metric.MeasurementOption, drawn, kept uint64) {
	ctx := context.Background()
	candidatesDrawn.Add(ctx, int64(drawn), attrs)
	candidatesKept.Add(ctx, int64(kept), attrs)
}
