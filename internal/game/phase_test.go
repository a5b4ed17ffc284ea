package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseNextCycles(t *testing.T) {
	p := NewPhase("NIGHT", "DAY_VOTE", "DAY_RESULT")
	assert.Equal(t, "NIGHT", p.Current)

	p = p.Next()
	assert.Equal(t, "DAY_VOTE", p.Current)

	p = p.Next()
	assert.Equal(t, "DAY_RESULT", p.Current)

	// Wraps around.
	p = p.Next()
	assert.Equal(t, "NIGHT", p.Current)
}

func TestPhaseNextDoesNotMutateReceiver(t *testing.T) {
	p := NewPhase("A", "B")
	_ = p.Next()
	assert.Equal(t, "A", p.Current)
}

func TestPhaseRecoversFromCorruptedCursor(t *testing.T) {
	p := Phase{Current: "BOGUS", Available: []string{"A", "B"}}
	next := p.Next()
	assert.Equal(t, "A", next.Current)
}

func TestPhaseAt(t *testing.T) {
	p := NewPhase("MAIN_PHASE", "COUNTER_PHASE", "CHOOSE_TARGET_PHASE")
	p = p.Next()
	assert.True(t, p.Is("COUNTER_PHASE"))

	p = p.At("MAIN_PHASE")
	assert.True(t, p.Is("MAIN_PHASE"))
	assert.Len(t, p.Available, 3)
}

func TestPhaseCloneIsIndependent(t *testing.T) {
	p := NewPhase("A", "B")
	c := p.Clone()
	c.Available[0] = "Z"
	assert.Equal(t, "A", p.Available[0])
}
