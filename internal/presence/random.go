package presence

import (
	"math/rand/v2"
	"time"

	"blogauto/internal/domain"
)

// RandomSource is the randomness the simulator draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// NewRandom returns a source seeded from the wall clock
func NewRandom() RandomSource {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// NewSeededRandom returns a deterministic source
func NewSeededRandom(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// RandomColor picks a hue at the fixed saturation and lightness used for avatars
func RandomColor(r RandomSource) domain.HSLColor {
	return domain.HSLColor{H: r.IntN(360), S: 70, L: 60}
}
