// Package entropy provides the pseudo-random stream the simulation draws
// from. The engine never seeds itself: callers construct a Source (seeded
// for reproducible runs, or from a crypto/rand seed for fresh games) and
// inject it at simulation construction.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Source is the random stream consumed by the simulation core.
// Implementations must be deterministic for a given seed so that identical
// seeds and input sequences replay identical games.
type Source interface {
	// Float returns a float64 in [0, 1).
	Float() float64
	// IntN returns an int in [0, n). n must be > 0.
	IntN(n int) int
}

// Seeded is a deterministic Source backed by math/rand/v2 PCG.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded creates a deterministic source from a seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

func (s *Seeded) Float() float64 { return s.rng.Float64() }

func (s *Seeded) IntN(n int) int { return s.rng.IntN(n) }

// NewSeed generates a high-entropy seed from crypto/rand for fresh games.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
