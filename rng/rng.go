// Package rng provides the randomness capability behind every stochastic
// decision in the simulator. All components draw through an injected Source so
// a seeded run is reproducible end to end.
package rng

import "math/rand"

// A Source draws random numbers for the simulator.
type Source interface {
	// Int returns a uniform integer in the inclusive range [min, max].
	Int(min, max int) int

	// IntUnique redraws uniform integers in [min, max] until taken reports
	// false for the drawn value.
	IntUnique(min, max int, taken func(int) bool) int

	// Bernoulli returns true with probability p.
	Bernoulli(p float64) bool

	// Pick returns a uniform index in [0, n). n must be positive.
	Pick(n int) int
}

// NewSource creates a Source seeded with the given value.
func NewSource(seed int64) Source {
	return &source{r: rand.New(rand.NewSource(seed))}
}

type source struct {
	r *rand.Rand
}

func (s *source) Int(min, max int) int {
	return min + s.r.Intn(max-min+1)
}

func (s *source) IntUnique(min, max int, taken func(int) bool) int {
	for {
		n := s.Int(min, max)
		if !taken(n) {
			return n
		}
	}
}

func (s *source) Bernoulli(p float64) bool {
	return s.r.Float64() < p
}

func (s *source) Pick(n int) int {
	return s.r.Intn(n)
}
