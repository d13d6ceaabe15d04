// Package schedule expands a source's release pattern into the ordered
// sequence of injection timestamps and per-timestamp particle counts.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/partseed/partseed/internal/property"
)

// ErrInvalidPattern is returned when release pattern parameters fail
// validation.
var ErrInvalidPattern = errors.New("invalid release pattern")

// Pattern describes when and how many particles a source injects.
//
// Period == 0 declares a single pulse at Start; End is ignored for pulses.
// Otherwise releases occur at Start + k·Period for k = 0, 1, … while the
// timestamp does not exceed the pattern end (End, or the run horizon when
// End is infinite).
//
// Cycle and Window optionally gate a periodic pattern: a release at t is
// emitted only while (t - Start) mod Cycle < Window. This models breathing-
// style emission, where droplets leave the source only during the exhale
// part of each respiratory cycle.
type Pattern struct {
	Start float64 // seconds
	End   float64 // seconds; +Inf to run until the engine horizon
	Period float64

	Count int              // particles per release
	Rate  *property.Policy // optional: per-release count drawn from a distribution

	Cycle  float64 // outer gating cycle length; 0 disables gating
	Window float64 // active fraction of the cycle, in seconds

	// Jitter perturbs each timestamp by a uniform offset bounded by
	// Jitter·Period/2, clamped so releases never cross into an adjacent
	// cycle's slot. 0 disables jitter, 1 allows the full half-period.
	Jitter float64

	// Truncate pro-rates the count of a final cycle cut short by End.
	// When false the final cycle emits its full nominal count.
	Truncate bool
}

// Release is one scheduled injection: Count particles at Time.
type Release struct {
	Time  float64
	Count int
}

// Validate checks pattern invariants.
func (p Pattern) Validate() error {
	if math.IsNaN(p.Start) || math.IsInf(p.Start, 0) {
		return fmt.Errorf("%w: start must be finite", ErrInvalidPattern)
	}
	if p.Period > 0 && !math.IsInf(p.End, 1) && p.End < p.Start {
		return fmt.Errorf("%w: end %g precedes start %g", ErrInvalidPattern, p.End, p.Start)
	}
	if p.Period < 0 {
		return fmt.Errorf("%w: period must be >= 0, got %g", ErrInvalidPattern, p.Period)
	}
	if p.Count < 0 {
		return fmt.Errorf("%w: count must be >= 0, got %d", ErrInvalidPattern, p.Count)
	}
	if p.Rate != nil {
		if err := p.Rate.Validate(); err != nil {
			return fmt.Errorf("%w: rate: %v", ErrInvalidPattern, err)
		}
	}
	if p.Jitter < 0 || p.Jitter > 1 {
		return fmt.Errorf("%w: jitter must be in [0, 1], got %g", ErrInvalidPattern, p.Jitter)
	}
	if p.Cycle < 0 || p.Window < 0 {
		return fmt.Errorf("%w: cycle and window must be >= 0", ErrInvalidPattern)
	}
	if p.Window > 0 && p.Cycle <= 0 {
		return fmt.Errorf("%w: window requires a positive cycle", ErrInvalidPattern)
	}
	if p.Cycle > 0 && p.Window > p.Cycle {
		return fmt.Errorf("%w: window %g exceeds cycle %g", ErrInvalidPattern, p.Window, p.Cycle)
	}
	return nil
}

// Schedule expands the pattern into its ordered release sequence. horizon
// bounds patterns with an infinite End; it is ignored when End is finite.
// Timestamps are monotonically non-decreasing, jitter included.
func (p Pattern) Schedule(horizon float64, rng *rand.Rand) ([]Release, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if p.Period == 0 {
		return []Release{{Time: p.Start, Count: p.releaseCount(rng)}}, nil
	}

	end := p.End
	if math.IsInf(end, 1) {
		end = horizon
	}
	if math.IsInf(end, 1) || math.IsNaN(end) {
		return nil, fmt.Errorf("%w: periodic pattern without end requires a finite horizon",
			ErrInvalidPattern)
	}

	var out []Release
	for k := 0; ; k++ {
		t := p.Start + float64(k)*p.Period
		if t > end {
			break
		}

		// cycle gating
		if p.Cycle > 0 && p.Window > 0 {
			if math.Mod(t-p.Start, p.Cycle) >= p.Window {
				continue
			}
		}

		count := p.releaseCount(rng)
		if p.Truncate && t+p.Period > end {
			frac := (end - t) / p.Period
			count = int(math.Round(float64(count) * frac))
		}

		rt := t
		if p.Jitter > 0 {
			off := (2*rng.Float64() - 1) * p.Jitter * p.Period / 2
			rt = t + off
			if rt < p.Start {
				rt = p.Start
			}
		}

		out = append(out, Release{Time: rt, Count: count})
	}
	return out, nil
}

// TotalCount returns the total number of particles across all releases.
func TotalCount(releases []Release) int {
	total := 0
	for _, r := range releases {
		total += r.Count
	}
	return total
}

func (p Pattern) releaseCount(rng *rand.Rand) int {
	if p.Rate == nil {
		return p.Count
	}
	n := int(math.Round(p.Rate.Draw(rng)))
	if n < 0 {
		return 0
	}
	return n
}
