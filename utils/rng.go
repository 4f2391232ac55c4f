package utils

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// RNG is a seeded source for construction jitter and activation shuffles, so
// that two models built with the same seed are identical.
type RNG struct {
	src rand.Source
	r   *rand.Rand
}

func NewRNG(seed int64) *RNG {
	src := rand.NewPCG(uint64(seed), 0)
	return &RNG{src: src, r: rand.New(src)}
}

// Jitter scales base by a factor drawn uniformly from [lo, hi).
func (r *RNG) Jitter(base, lo, hi float64) float64 {
	if lo == hi {
		return base * lo
	}
	u := distuv.Uniform{Min: lo, Max: hi, Src: r.src}
	return base * u.Rand()
}

// Shuffle permutes the index slice in place.
func (r *RNG) Shuffle(idx []int) {
	r.r.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
}
