package rewards

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness for perk draws. It is the engine's only
// non-determinism; tests inject a controlled implementation. *math/rand.Rand
// satisfies it directly.
type Rand interface {
	// Intn returns a uniform value in [0, n). n must be positive.
	Intn(n int) int
}

// NewRand returns a time-seeded source for production use.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
