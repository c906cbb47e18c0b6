// Package random provides the tie-break source used by provider assignment.
package random

import (
	"math/rand/v2"
	"sync"
	"time"

	"homeserve/config"
)

type Source interface {
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a goroutine-safe source. A zero seed derives one from the clock.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &lockedSource{
		rnd: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)), //nolint:gosec
	}
}

func NewFromConfig(cfg *config.Config) Source {
	return New(cfg.Booking.RandomSeed)
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.IntN(n)
}

// Fixed always returns the same value, clamped to [0, n).
type Fixed int

func (f Fixed) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}

	if f < 0 {
		return 0
	}

	return int(f)
}
