package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-room-server/internal/game"
)

func setup(t *testing.T) (game.Engine, game.State) {
	t.Helper()
	e := New()
	st, err := e.Initialize([]string{"alice", "bob"})
	require.NoError(t, err)
	return e, st
}

func place(t *testing.T, e game.Engine, st game.State, pid string, r, c int) game.State {
	t.Helper()
	next, err := e.ApplyAction(st, pid, Action{Type: ActionPlaceMarker, Row: r, Col: c})
	require.NoError(t, err)
	return next
}

func TestInitialize(t *testing.T) {
	e := New()
	_, err := e.Initialize([]string{"alice"})
	assert.ErrorIs(t, err, game.ErrInvalidPlayerCount)
	_, err = e.Initialize([]string{"a", "b", "c"})
	assert.ErrorIs(t, err, game.ErrInvalidPlayerCount)

	st, err := e.Initialize([]string{"alice", "bob"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.TurnNumber())
	assert.False(t, st.IsFinished())
}

func TestTurnAlternation(t *testing.T) {
	e, st := setup(t)

	_, err := e.ApplyAction(st, "bob", Action{Type: ActionPlaceMarker, Row: 0, Col: 0})
	assert.ErrorIs(t, err, game.ErrNotPlayersTurn)

	st = place(t, e, st, "alice", 0, 0)
	assert.Equal(t, "X", st.(*State).Board[0][0])
	assert.True(t, st.(*State).Phase.Is(PhasePlayer2))

	// Replaying alice's move is rejected.
	_, err = e.ApplyAction(st, "alice", Action{Type: ActionPlaceMarker, Row: 0, Col: 1})
	assert.ErrorIs(t, err, game.ErrNotPlayersTurn)

	// Bob cannot take an occupied cell.
	_, err = e.ApplyAction(st, "bob", Action{Type: ActionPlaceMarker, Row: 0, Col: 0})
	assert.ErrorIs(t, err, game.ErrIllegalTarget)
}

func TestRowWin(t *testing.T) {
	e, st := setup(t)
	st = place(t, e, st, "alice", 0, 0)
	st = place(t, e, st, "bob", 1, 0)
	st = place(t, e, st, "alice", 0, 1)
	st = place(t, e, st, "bob", 1, 1)
	st = place(t, e, st, "alice", 0, 2)

	assert.True(t, st.IsFinished())
	assert.Equal(t, "alice", st.(*State).Winner)
	assert.Empty(t, e.EnumerateActions(st, "bob"))
}

func TestDraw(t *testing.T) {
	e, st := setup(t)
	// X O X / X O O / O X X
	moves := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}}
	players := []string{"alice", "bob"}
	for i, m := range moves {
		st = place(t, e, st, players[i%2], m[0], m[1])
	}
	assert.True(t, st.IsFinished())
	assert.True(t, st.(*State).Draw)
	assert.Empty(t, st.(*State).Winner)
}

func TestResign(t *testing.T) {
	e, st := setup(t)
	next, err := e.ApplyAction(st, "alice", Action{Type: ActionResign})
	require.NoError(t, err)
	assert.True(t, next.IsFinished())
	assert.Equal(t, "bob", next.(*State).Winner)
}

func TestEnumerateMatchesValidate(t *testing.T) {
	e, st := setup(t)
	st = place(t, e, st, "alice", 1, 1)

	actions := e.EnumerateActions(st, "bob")
	assert.Len(t, actions, 9) // resign + 8 empty cells
	for _, a := range actions {
		assert.NoError(t, e.ValidateAction(st, "bob", a))
	}
	assert.Empty(t, e.EnumerateActions(st, "alice"))
}
