package game

import (
	"math/rand"
	"sync"
	"time"
)

// RNG is the randomness source threaded through every engine that needs
// one (deck shuffles, reshuffles, weighted sampling, role assignment).
// Injecting it keeps outcomes reproducible in tests: construct an engine
// with NewRNG(seed) and every shuffle is deterministic.
type RNG interface {
	// Intn returns a uniform int in [0, n). n must be > 0.
	Intn(n int) int

	// Shuffle pseudo-randomizes the order of n elements via swap.
	Shuffle(n int, swap func(i, j int))
}

// lockedRand guards a math/rand source with a mutex so a single engine
// instance can serve concurrent games. Calls for one game are already
// serialized by the room layer; the lock only protects the shared source.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRNG returns a seeded RNG. The same seed reproduces the same sequence
// of shuffles and samples.
func NewRNG(seed int64) RNG {
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

// NewTimeRNG returns an RNG seeded from the wall clock, for production
// use where reproducibility is not wanted.
func NewTimeRNG() RNG {
	return NewRNG(time.Now().UnixNano())
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.Intn(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rnd.Shuffle(n, swap)
}

// WeightedSample draws up to k indices without replacement from a count
// vector, each draw weighted by the remaining count at that index. It
// returns the drawn indices in draw order; fewer than k are returned when
// the counts run out. Used by the Lands DARKNESS effect.
func WeightedSample(rng RNG, counts []int, k int) []int {
	remaining := make([]int, len(counts))
	copy(remaining, counts)

	total := 0
	for _, c := range remaining {
		total += c
	}

	drawn := make([]int, 0, k)
	for len(drawn) < k && total > 0 {
		pick := rng.Intn(total)
		for i, c := range remaining {
			if pick < c {
				drawn = append(drawn, i)
				remaining[i]--
				total--
				break
			}
			pick -= c
		}
	}
	return drawn
}
