// Package property implements per-particle property policies: a value that
// is either fixed or drawn i.i.d. from a declared distribution.
package property

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrInvalidPolicy is returned when a policy's parameters fail validation.
var ErrInvalidPolicy = errors.New("invalid property policy")

// Kind identifies the policy variant.
type Kind int

const (
	KindFixed Kind = iota
	KindUniform
	KindNormal
	KindLogNormal
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindUniform:
		return "uniform"
	case KindNormal:
		return "normal"
	case KindLogNormal:
		return "lognormal"
	default:
		return "unknown"
	}
}

// Policy describes how one scalar property is assigned. Fixed policies
// return Value; the distribution variants draw from the stream passed to
// Draw. For LogNormal, Mean and Sigma are the parameters of the underlying
// normal in log space.
type Policy struct {
	Kind  Kind
	Value float64 // fixed
	Min   float64 // uniform
	Max   float64 // uniform
	Mean  float64 // normal, lognormal
	Sigma float64 // normal, lognormal
}

// Fixed returns a policy that always yields v.
func Fixed(v float64) Policy {
	return Policy{Kind: KindFixed, Value: v}
}

// Uniform returns a policy drawing uniformly from [min, max).
func Uniform(min, max float64) Policy {
	return Policy{Kind: KindUniform, Min: min, Max: max}
}

// Normal returns a policy drawing from N(mean, sigma²).
func Normal(mean, sigma float64) Policy {
	return Policy{Kind: KindNormal, Mean: mean, Sigma: sigma}
}

// LogNormal returns a policy drawing exp(N(mean, sigma²)).
func LogNormal(mean, sigma float64) Policy {
	return Policy{Kind: KindLogNormal, Mean: mean, Sigma: sigma}
}

// Validate checks the policy parameters.
func (p Policy) Validate() error {
	switch p.Kind {
	case KindFixed:
		return nil
	case KindUniform:
		if p.Min >= p.Max {
			return fmt.Errorf("%w: uniform requires min < max, got [%g, %g)",
				ErrInvalidPolicy, p.Min, p.Max)
		}
		return nil
	case KindNormal, KindLogNormal:
		if p.Sigma <= 0 {
			return fmt.Errorf("%w: %s requires sigma > 0, got %g",
				ErrInvalidPolicy, p.Kind, p.Sigma)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidPolicy, p.Kind)
	}
}

// Draw returns one value per the policy, consuming rng only for the
// distribution variants.
func (p Policy) Draw(rng *rand.Rand) float64 {
	switch p.Kind {
	case KindFixed:
		return p.Value
	case KindUniform:
		return p.Min + rng.Float64()*(p.Max-p.Min)
	case KindNormal:
		return p.Mean + p.Sigma*rng.NormFloat64()
	case KindLogNormal:
		return math.Exp(p.Mean + p.Sigma*rng.NormFloat64())
	default:
		return p.Value
	}
}
