// Package stochastic provides the single seedable source every random draw
// in a simulation run goes through.
package stochastic

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Variates is the draw surface consumed by the simulation core.
// Implementations must be deterministic for a fixed seed.
type Variates interface {
	Float64() float64
	IntN(n int) int
	// IntRange returns a uniform integer in [lo, hi] inclusive.
	IntRange(lo, hi int) int
	Uniform(lo, hi float64) float64
	Bool() bool
	Bernoulli(p float64) bool
	Poisson(lambda float64) int
	Weibull(shape, scale float64) float64
	Normal(mu, sigma float64) float64
	// Categorical returns an index drawn proportionally to weights.
	Categorical(weights []float64) int
}

// Source is a PCG-backed Variates. Not safe for concurrent use.
type Source struct {
	seed uint64
	src  *rand.PCG
	rng  *rand.Rand
}

// New creates a Source seeded with seed.
func New(seed uint64) *Source {
	pcg := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Source{
		seed: seed,
		src:  pcg,
		rng:  rand.New(pcg),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint64 { return s.seed }

// Rand exposes the underlying generator for gonum consumers.
func (s *Source) Rand() rand.Source { return s.src }

func (s *Source) Float64() float64 { return s.rng.Float64() }

func (s *Source) IntN(n int) int {
	if n <= 1 {
		return 0
	}
	return s.rng.IntN(n)
}

func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Source) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Source) Bool() bool { return s.rng.IntN(2) == 1 }

func (s *Source) Bernoulli(p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return s.rng.Float64() < p
}

func (s *Source) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	d := distuv.Poisson{Lambda: lambda, Src: s.src}
	return int(d.Rand())
}

func (s *Source) Weibull(shape, scale float64) float64 {
	d := distuv.Weibull{K: shape, Lambda: scale, Src: s.src}
	return d.Rand()
}

func (s *Source) Normal(mu, sigma float64) float64 {
	if sigma <= 0 {
		return mu
	}
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}
	return d.Rand()
}

func (s *Source) Categorical(weights []float64) int {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if len(weights) == 0 || sum <= 0 || math.IsNaN(sum) {
		return 0
	}
	d := distuv.NewCategorical(weights, s.src)
	return int(d.Rand())
}
