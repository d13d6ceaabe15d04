package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Ops(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -1, Y: 0.5, Z: 2}

	assert.Equal(t, Vec3{X: 0, Y: 2.5, Z: 5}, a.Add(b))
	assert.Equal(t, Vec3{X: 2, Y: 1.5, Z: 1}, a.Sub(b))
	assert.Equal(t, Vec3{X: 2, Y: 4, Z: 6}, a.Scale(2))
	assert.Equal(t, 6.0, a.Dot(b))
	assert.Equal(t, 5.0, Vec3{X: 3, Y: 4}.Norm())
}

func TestAcceptanceRate(t *testing.T) {
	s := RunSummary{}
	assert.Equal(t, 1.0, s.AcceptanceRate())

	s = RunSummary{CandidatesDrawn: 200, CandidatesKept: 157}
	assert.Equal(t, 0.785, s.AcceptanceRate())
}
