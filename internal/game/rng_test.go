package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRNGSameSeedSameSequence(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}

func TestWeightedSampleRespectsCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		counts := rapid.SliceOfN(rapid.IntRange(0, 5), 1, 8).Draw(t, "counts")
		k := rapid.IntRange(0, 10).Draw(t, "k")
		seed := rapid.Int64().Draw(t, "seed")

		drawn := WeightedSample(NewRNG(seed), counts, k)

		total := 0
		for _, c := range counts {
			total += c
		}
		want := k
		if total < k {
			want = total
		}
		if len(drawn) != want {
			t.Fatalf("drew %d indices, want %d", len(drawn), want)
		}

		// No index drawn more often than its count.
		perIndex := make(map[int]int)
		for _, i := range drawn {
			perIndex[i]++
		}
		for i, n := range perIndex {
			if i < 0 || i >= len(counts) {
				t.Fatalf("index %d out of range", i)
			}
			if n > counts[i] {
				t.Fatalf("index %d drawn %d times, count is %d", i, n, counts[i])
			}
		}
	})
}

func TestWeightedSampleEmpty(t *testing.T) {
	drawn := WeightedSample(NewRNG(1), []int{0, 0, 0}, 3)
	assert.Empty(t, drawn)
}
