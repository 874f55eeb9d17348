// Package entropy provides the random stream threaded through map
// generation. Every stage draws from one seeded *rand.Rand so a seed fully
// determines the generated map.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// NewSeed returns a non-zero seed from crypto/rand.
func NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// New returns a deterministic stream for seed. A zero seed draws a fresh
// one from crypto/rand; the seed actually used is returned.
func New(seed int64) (*mrand.Rand, int64) {
	if seed == 0 {
		seed = NewSeed()
	}
	return mrand.New(mrand.NewSource(seed)), seed
}

// Range returns an int in [min, max). It returns min when the range is empty.
func Range(rng *mrand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min)
}

// Chance reports true with probability p.
func Chance(rng *mrand.Rand, p float64) bool {
	return rng.Float64() < p
}

// Shuffle permutes s in place.
func Shuffle[T any](rng *mrand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

// Pick returns a uniformly chosen element and its index. s must not be empty.
func Pick[T any](rng *mrand.Rand, s []T) (T, int) {
	i := rng.Intn(len(s))
	return s[i], i
}
