package runtime

import (
	"math/rand/v2"
	"sync"
)

// Random is the engine's source of randomness.
type Random interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandom returns a randomly seeded source that is safe for concurrent use.
func NewRandom() Random {
	return Locked(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewSeededRandom returns a deterministic source that is safe for concurrent use.
func NewSeededRandom(seed uint64) Random {
	return Locked(rand.New(rand.NewPCG(seed, seed)))
}

// Locked makes r safe to share between sessions.
func Locked(r *rand.Rand) Random {
	return &lockedRand{r: r}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}
