// Package core holds the plain domain types shared between the generation
// engine and the output encoders.
package core

import (
	"math"
	"time"
)

// Vec3 represents a 3D coordinate or velocity without GIS dependencies.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns s·v.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{s * v.X, s * v.Y, s * v.Z}
}

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Particle is one fully populated initial-condition record. Particles are
// created once by the engine and never mutated afterwards.
type Particle struct {
	ID            uint64  `json:"id"`
	Position      Vec3    `json:"position"`
	Velocity      Vec3    `json:"velocity"`
	InjectionTime float64 `json:"injectionTime"` // seconds
	Diameter      float64 `json:"diameter"`      // meters
	Density       float64 `json:"density"`       // kg/m^3
	SourceID      string  `json:"sourceId"`
}

// RunSummary aggregates generation statistics for one engine run.
type RunSummary struct {
	Seed            uint64        `json:"seed"`
	Sources         int           `json:"sources"`
	Particles       int           `json:"particles"`
	CandidatesDrawn uint64        `json:"candidatesDrawn"`
	CandidatesKept  uint64        `json:"candidatesKept"`
	Elapsed         time.Duration `json:"elapsed"`
}

// AcceptanceRate returns the fraction of rejection-sampling candidates that
// were kept, or 1 when no candidates were drawn (closed-form only runs).
func (s *RunSummary) AcceptanceRate() float64 {
	if s.CandidatesDrawn == 0 {
		return 1
	}
	return float64(s.CandidatesKept) / float64(s.CandidatesDrawn)
}
