package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamIsReproducible(t *testing.T) {
	reg := New(42)

	a := reg.Stream(3)
	b := reg.Stream(3)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	reg := New(42)

	a := reg.Stream(0)
	b := reg.Stream(1)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Zero(t, same, "distinct streams should not collide")
}

func TestSeedChangesStreams(t *testing.T) {
	a := New(1).Stream(0)
	b := New(2).Stream(0)
	assert.NotEqual(t, a.Uint64(), b.Uint64())
}
