package lock

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"
)

// TestSerializedWritesProperty checks that concurrent read-modify-write
// sequences under the same game id behave as if executed sequentially.
func TestSerializedWritesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(2, 30).Draw(t, "numOps")
		gameID := fmt.Sprintf("game-%d", rapid.IntRange(1, 1000000).Draw(t, "gameID"))

		kl := NewKeyedLock()
		applied := 0

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				kl.Lock(gameID)
				defer kl.Unlock(gameID)
				applied++
			}()
		}
		wg.Wait()

		if applied != numOps {
			t.Fatalf("lost updates: expected %d applied actions, got %d", numOps, applied)
		}
	})
}

// TestWithLockProperty checks the WithLock convenience wrapper gives the
// same serialization guarantee.
func TestWithLockProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(5, 30).Draw(t, "numOps")

		kl := NewKeyedLock()
		turn := 0

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				_ = kl.WithLock("g-1", func() error {
					turn++
					return nil
				})
			}()
		}
		wg.Wait()

		if turn != numOps {
			t.Fatalf("expected turn counter %d, got %d", numOps, turn)
		}
	})
}

// TestIndependentGamesProperty checks that locks for different game ids
// do not interfere with each other's counters.
func TestIndependentGamesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numGames := rapid.IntRange(2, 10).Draw(t, "numGames")
		opsPerGame := rapid.IntRange(5, 20).Draw(t, "opsPerGame")

		kl := NewKeyedLock()
		counters := make([]int, numGames)

		var wg sync.WaitGroup
		wg.Add(numGames * opsPerGame)
		for g := 0; g < numGames; g++ {
			gameID := fmt.Sprintf("game-%d", g)
			for i := 0; i < opsPerGame; i++ {
				go func(g int, gameID string) {
					defer wg.Done()
					kl.Lock(gameID)
					defer kl.Unlock(gameID)
					counters[g]++
				}(g, gameID)
			}
		}
		wg.Wait()

		for g := 0; g < numGames; g++ {
			if counters[g] != opsPerGame {
				t.Fatalf("game %d: expected %d ops, got %d", g, opsPerGame, counters[g])
			}
		}
	})
}

// TestTryLockProperty checks that simultaneous TryLock attempts admit at
// least one winner and leave the lock free afterwards.
func TestTryLockProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numAttempts := rapid.IntRange(5, 20).Draw(t, "numAttempts")

		kl := NewKeyedLock()
		var successCount atomic.Int32
		startCh := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(numAttempts)
		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()
				<-startCh
				if kl.TryLock("g-1") {
					successCount.Add(1)
					kl.Unlock("g-1")
				}
			}()
		}
		close(startCh)
		wg.Wait()

		if successCount.Load() < 1 {
			t.Fatalf("at least one TryLock should succeed, got %d", successCount.Load())
		}
		if !kl.TryLock("g-1") {
			t.Fatal("lock should be free after all attempts complete")
		}
		kl.Unlock("g-1")
	})
}

// TestForgetProperty checks that a forgotten key can be re-acquired and
// that Forget never removes a held lock.
func TestForgetProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numCycles := rapid.IntRange(1, 30).Draw(t, "numCycles")

		kl := NewKeyedLock()
		for i := 0; i < numCycles; i++ {
			kl.Lock("g-1")
			kl.Forget("g-1") // held: must be a no-op
			if !kl.IsLocked("g-1") {
				t.Fatal("Forget removed a held lock")
			}
			kl.Unlock("g-1")
			kl.Forget("g-1")
		}

		if !kl.TryLock("g-1") {
			t.Fatal("lock should be available after forget cycles")
		}
		kl.Unlock("g-1")
	})
}
