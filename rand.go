package personasim

import (
	"math/rand"
	"sync"
)

// ──────────────────────────────────────────────
// Rand — injectable randomness source
// ──────────────────────────────────────────────

// Rand is the randomness source used by every scoring and sampling path.
// Production code uses NewRand(); tests inject a fixed-seed source so that
// dream sessions, activity picks and personality draws are reproducible.
type Rand interface {
	Float64() float64
	Intn(n int) int
	NormFloat64() float64
}

// lockedRand wraps math/rand with a mutex so one source can be shared
// across scheduler goroutines.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a Rand seeded with the given seed.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) NormFloat64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.NormFloat64()
}
