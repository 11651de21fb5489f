// Package randsrc provides RNG backends for pkg/noise's NoiseGenerator:
// a stdlib math/rand/v2 backend, and the recycling-ring-buffer generator
// recovered from original_source/aux/inc/WireCellAux/RandTools.h, which
// the spec's distillation dropped but which the original carries as a
// documented ~2x speedup over drawing fresh random numbers every call.
package randsrc

import (
	"math"
	"math/rand/v2"
)

// MathRand implements pkg/noise.RNG using math/rand/v2.
type MathRand struct {
	r *rand.Rand
}

// NewMathRand returns a MathRand seeded from seed1/seed2 (use
// rand.Uint64() twice for nondeterministic seeding).
func NewMathRand(seed1, seed2 uint64) *MathRand {
	return &MathRand{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (m *MathRand) Uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = m.r.Float64()
	}
	return out
}

func (m *MathRand) Normal(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = m.r.NormFloat64()
	}
	return out
}

// scalarGen draws one sample from some distribution.
type scalarGen func() float64

// Fresh draws a fresh sample from gen every call, the trivial passthrough
// baseline from RandTools.h's Fresh.
type Fresh struct {
	gen scalarGen
}

// NewFresh wraps gen (any func() float64, e.g. rand.NormFloat64) as a Fresh generator.
func NewFresh(gen func() float64) *Fresh { return &Fresh{gen: scalarGen(gen)} }

func (f *Fresh) Draw() float64 { return f.gen() }

func (f *Fresh) DrawN(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f.gen()
	}
	return out
}

// Recycling draws most samples from a fixed-size ring buffer, refreshing
// only a coprime-strided subset of ring slots on each draw, trading exact
// independence for roughly a 1/replacementFraction reduction in random
// draws. Grounded on RandTools.cxx's Recycling.
type Recycling struct {
	gen     scalarGen // fills ring slots
	uni     scalarGen // randomizes the starting cursor on a vector draw
	repfrac float64

	ring            []float64
	cursor, replace int
	nreplace        int
}

// NewRecycling builds a ring of the given capacity, filled from gen, with
// replacementFraction controlling the refresh stride (smaller means more
// frequent refreshes; RandTools.cxx default is 0.04).
func NewRecycling(gen, uni func() float64, capacity int, replacementFraction float64) *Recycling {
	r := &Recycling{gen: scalarGen(gen), uni: scalarGen(uni), repfrac: replacementFraction}
	r.Resize(capacity)
	return r
}

// Resize grows the ring to capacity, filling new slots from gen and
// recomputing the coprime replacement stride, matching Recycling::resize.
func (r *Recycling) Resize(capacity int) {
	old := len(r.ring)
	if capacity > old {
		grown := make([]float64, capacity)
		copy(grown, r.ring)
		for i := old; i < capacity; i++ {
			grown[i] = r.gen()
		}
		r.ring = grown
	} else {
		r.ring = r.ring[:capacity]
	}
	jump := int(1 / r.repfrac)
	if jump < 1 {
		jump = 1
	}
	if jump > capacity-1 {
		jump = capacity - 1
	}
	if jump < 1 {
		jump = 1
	}
	r.nreplace = nearestCoprime(capacity, jump)
	r.replace = r.nreplace
}

// Draw returns the next ring value, refreshing the slot at the replace
// cursor first if the read cursor has caught up to it. The cursor always
// advances by exactly one per call; wraparound avoids a modulus, matching
// Recycling::operator()()'s documented speedup.
func (r *Recycling) Draw() float64 {
	size := len(r.ring)
	if r.cursor == r.replace {
		r.ring[r.cursor] = r.gen()
		r.replace += r.nreplace
		for r.replace >= size {
			r.replace -= size
		}
	}
	ret := r.ring[r.cursor]
	r.cursor++
	if r.cursor == size {
		r.cursor = 0
	}
	return ret
}

// DrawN randomizes the starting cursor (using uni) and then returns n
// consecutive Draw() results, matching Recycling::operator()(size_t).
func (r *Recycling) DrawN(n int) []float64 {
	size := len(r.ring)
	cursor := int(r.uni() * float64(size-1))
	cursor = ((cursor % size) + size) % size
	r.cursor = cursor
	r.replace = cursor

	out := make([]float64, n)
	for i := range out {
		out[i] = r.Draw()
	}
	return out
}

// nearestCoprime returns the integer nearest to start (searching
// outward, preferring the larger candidate on ties) that is coprime with
// modulus.
func nearestCoprime(modulus, start int) int {
	if modulus <= 1 {
		return start
	}
	for delta := 0; delta < modulus; delta++ {
		for _, cand := range []int{start + delta, start - delta} {
			if cand <= 0 || cand >= modulus {
				continue
			}
			if gcd(cand, modulus) == 1 {
				return cand
			}
		}
	}
	return start
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return int(math.Abs(float64(a)))
}
