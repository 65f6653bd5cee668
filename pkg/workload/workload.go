// Package workload provides synthetic key samplers for driving
// benchmark queries against a tiered.Index: a uniform sampler and a
// Zipf sampler, the two distributions the reference driver supports.
//
// Both samplers take an explicit seed instead of touching global RNG
// state, so a run is reproducible end to end from its config alone.
package workload

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// Sampler draws keys in [0, N) from some distribution.
type Sampler interface {
	Next() int64
}

// Uniform draws keys uniformly at random from [0, n).
type Uniform struct {
	n   int64
	rng *rand.Rand
}

// NewUniform creates a uniform sampler over [0, n) seeded from seed.
func NewUniform(n int64, seed uint64) *Uniform {
	return &Uniform{n: n, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns the next sampled key.
func (u *Uniform) Next() int64 {
	return u.rng.Int64N(u.n)
}

// Zipf draws keys in [0, n) from a Zipf-like distribution with
// exponent theta, via a precomputed CDF sampled by binary search —
// the same construction as the reference driver's ZipfGen.
type Zipf struct {
	cdf []float64
	rng *rand.Rand
}

// NewZipf creates a Zipf sampler over [0, n) with exponent theta. It
// returns an error if n <= 0 or theta <= 0.
func NewZipf(n int64, theta float64, seed uint64) (*Zipf, error) {
	if n <= 0 {
		return nil, fmt.Errorf("workload: n must be > 0, got %d", n)
	}
	if theta <= 0 {
		return nil, fmt.Errorf("workload: theta must be > 0, got %f", theta)
	}

	cdf := make([]float64, n)
	sum := 0.0
	for k := int64(1); k <= n; k++ {
		sum += 1.0 / math.Pow(float64(k), theta)
	}
	cumsum := 0.0
	for k := int64(1); k <= n; k++ {
		cumsum += 1.0 / math.Pow(float64(k), theta) / sum
		cdf[k-1] = cumsum
	}

	return &Zipf{
		cdf: cdf,
		rng: rand.New(rand.NewPCG(seed, seed^0x2545f4914f6cdd1d)),
	}, nil
}

// Next returns the next sampled key, a rank in [0, n) drawn with
// probability proportional to 1/(rank+1)^theta.
func (z *Zipf) Next() int64 {
	u := z.rng.Float64()
	idx := sort.Search(len(z.cdf), func(i int) bool { return u <= z.cdf[i] })
	if idx >= len(z.cdf) {
		idx = len(z.cdf) - 1
	}
	return int64(idx)
}
