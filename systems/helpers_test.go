package systems

import (
	"math/rand/v2"
	"testing"
)

// scriptedRand returns a fixed sequence of draws and fails the test when
// more draws are requested than scripted.
type scriptedRand struct {
	t      *testing.T
	values []float64
	next   int
}

func script(t *testing.T, values ...float64) *scriptedRand {
	return &scriptedRand{t: t, values: values}
}

func (r *scriptedRand) Float64() float64 {
	if r.next >= len(r.values) {
		r.t.Fatalf("scriptedRand: draw %d requested, only %d scripted", r.next+1, len(r.values))
	}
	v := r.values[r.next]
	r.next++
	return v
}

func (r *scriptedRand) used() int {
	return r.next
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}
