// Package rng implements the deterministic random engine that drives every
// stochastic decision in the sketch search.
//
// The engine is a Park–Miller linear congruential generator over a caller
// owned seed cell. Binding to an external cell (rather than owning the seed)
// lets several components share one advancing stream: the search space, the
// samplers, and the pruning policy all draw from the same cell, so a whole
// search trajectory is reproducible from a single root seed.
//
// Determinism contract:
//   - Two engines bound to cells holding the same value produce bit-identical
//     output sequences.
//   - Fork derives a statistically independent child seed from the advancing
//     parent state without touching host entropy, so parallel workers stay
//     reproducible from one root seed.
//   - No other package may draw randomness from any source except through
//     SampleInt / SampleFloat / Fork on a seed cell.
package rng

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Park–Miller ("minimal standard") LCG constants. The modulus is the
// Mersenne prime 2^31-1, giving the generator full period over [1, Modulus-1].
const (
	Multiplier int64 = 48271
	Increment  int64 = 0
	Modulus    int64 = 2147483647
)

// SeedUnset is the sentinel seed value meaning "no seed was chosen".
// Normalize replaces it with a draw from host entropy.
const SeedUnset int64 = -1

// forkMultiplier and forkModulus decorrelate a forked child seed from the
// parent stream. The child lands in a different residue system than the
// parent's outputs, so parent and child sequences do not overlap.
const (
	forkMultiplier int64 = 32767
	forkModulus    int64 = 1999999973
)

// LinearEngine advances a seed cell through the LCG recurrence.
//
// The engine does not own the seed storage; it reads and writes the bound
// cell. Callers that need an independent stream fork a child seed and bind
// a new engine to a new cell.
//
// LinearEngine is not safe for concurrent use. Per-worker engines must be
// created via Fork, never by sharing one cell across goroutines.
type LinearEngine struct {
	state *int64
}

// NewLinearEngine binds an engine to an existing seed cell.
// The cell's current value is used as-is; call Init to normalize it first.
func NewLinearEngine(state *int64) *LinearEngine {
	return &LinearEngine{state: state}
}

// Min returns the minimum value Next can produce, as declared to
// distribution adapters.
func (e *LinearEngine) Min() uint64 { return 0 }

// Max returns the maximum value Next can produce.
func (e *LinearEngine) Max() uint64 { return uint64(Modulus - 1) }

// Normalize maps an arbitrary seed into the legal range [1, Modulus-1].
//
// SeedUnset draws a replacement from host entropy. Zero is forced to 1
// because the LCG fixed point at zero would freeze the stream. A negative
// result after the modulo step is a programming-contract violation and
// panics; it is unreachable for any int64 input the modulo step can emit.
func Normalize(seed int64) int64 {
	if seed == SeedUnset {
		seed = hostRandomValue()
	} else {
		seed %= Modulus
		if seed < 0 {
			seed += Modulus
		}
	}
	if seed == 0 {
		seed = 1
	}
	if seed < 0 {
		panic(fmt.Sprintf("rng: normalized seed %d is negative", seed))
	}
	return seed
}

// Init writes the normalized seed into the bound cell.
func (e *LinearEngine) Init(seed int64) {
	*e.state = Normalize(seed)
}

// Next advances the bound cell through the LCG recurrence and returns the
// new state. This is the sole state-advancing operation.
func (e *LinearEngine) Next() uint64 {
	*e.state = (Increment + *e.state*Multiplier) % Modulus
	return uint64(*e.state)
}

// Fork advances the generator once and derives an independent child seed
// from the output. The parent cell is left at its advanced position, so a
// second Fork yields a different child.
func (e *LinearEngine) Fork() int64 {
	return (int64(e.Next()) * forkMultiplier) % forkModulus
}

// ForkSeed forks a child seed directly from a seed cell.
// The cell advances to its next state as a side effect.
func ForkSeed(state *int64) int64 {
	return NewLinearEngine(state).Fork()
}

// SampleInt draws a uniform integer in [min, max) from the engine bound to
// the given seed cell. min must be strictly less than max.
func SampleInt(min, max int, state *int64) int {
	if min >= max {
		panic(fmt.Sprintf("rng: SampleInt requires min < max, got [%d, %d)", min, max))
	}
	e := NewLinearEngine(state)
	span := uint64(max - min)
	return min + int(e.Next()%span)
}

// SampleFloat draws a uniform real in [min, max) from the engine bound to
// the given seed cell. min must be strictly less than max.
func SampleFloat(min, max float64, state *int64) float64 {
	if min >= max {
		panic(fmt.Sprintf("rng: SampleFloat requires min < max, got [%g, %g)", min, max))
	}
	e := NewLinearEngine(state)
	unit := float64(e.Next()) / float64(Modulus)
	return min + unit*(max-min)
}

// hostRandomValue draws a true-random replacement seed from host entropy.
// Used only when the caller explicitly passes SeedUnset.
func hostRandomValue() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(Modulus))
	if err != nil {
		panic(fmt.Sprintf("rng: host entropy unavailable: %v", err))
	}
	return n.Int64()
}
