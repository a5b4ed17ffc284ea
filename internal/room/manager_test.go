package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-room-server/internal/config"
	"game-room-server/internal/game"
	"game-room-server/internal/game/mafia"
	"game-room-server/internal/game/tictactoe"
)

func newManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	registry := game.NewRegistry()
	require.NoError(t, registry.Register(tictactoe.New()))
	require.NoError(t, registry.Register(mafia.New(&mafia.Config{RNG: game.NewRNG(7)})))

	store := NewMemoryStore()
	m := NewManager(registry, store, &config.RoomConfig{
		TTL:             time.Hour,
		CleanupInterval: time.Minute,
		LockTimeout:     time.Second,
	})
	return m, store
}

func TestCreateAndLoad(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, tictactoe.Kind, []string{"alice", "bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.GameID)
	assert.Equal(t, tictactoe.Kind, s.Kind)
	assert.Equal(t, 1, store.Len())

	st, err := m.StateFor(ctx, s.GameID, "alice")
	require.NoError(t, err)
	assert.Equal(t, s.GameID, st.GameID())
	assert.False(t, st.IsFinished())
}

func TestCreateUnknownKind(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Create(context.Background(), "poker", []string{"alice", "bob"})
	assert.ErrorIs(t, err, game.ErrUnknownGameKind)
}

func TestSubmitAppliesAction(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, tictactoe.Kind, []string{"alice", "bob"})
	require.NoError(t, err)

	next, err := m.Submit(ctx, s.GameID, "alice",
		[]byte(`{"type":"PLACE_MARKER","row":1,"col":1}`))
	require.NoError(t, err)
	assert.Equal(t, 2, next.TurnNumber())

	// Engine errors pass through for errors.Is.
	_, err = m.Submit(ctx, s.GameID, "alice",
		[]byte(`{"type":"PLACE_MARKER","row":0,"col":0}`))
	assert.ErrorIs(t, err, game.ErrNotPlayersTurn)

	// The persisted snapshot reflects only the accepted action.
	st, err := m.StateFor(ctx, s.GameID, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, st.TurnNumber())
}

func TestSubmitUnknownGame(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Submit(context.Background(), "missing", "alice",
		[]byte(`{"type":"RESIGN"}`))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestActionsAndValidate(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, tictactoe.Kind, []string{"alice", "bob"})
	require.NoError(t, err)

	actions, err := m.Actions(ctx, s.GameID, "alice")
	require.NoError(t, err)
	// 9 cells plus resign.
	assert.Len(t, actions, 10)

	waiting, err := m.Actions(ctx, s.GameID, "bob")
	require.NoError(t, err)
	assert.Empty(t, waiting)

	assert.NoError(t, m.Validate(ctx, s.GameID, "alice",
		[]byte(`{"type":"PLACE_MARKER","row":0,"col":2}`)))
	assert.ErrorIs(t, m.Validate(ctx, s.GameID, "bob",
		[]byte(`{"type":"PLACE_MARKER","row":0,"col":2}`)), game.ErrNotPlayersTurn)
	assert.ErrorIs(t, m.Validate(ctx, s.GameID, "alice",
		[]byte(`{"type":"JUGGLE"}`)), game.ErrUnknownActionType)
}

func TestStateForRedactsOtherPlayers(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, mafia.Kind, []string{"alice", "bob", "carol", "dave"})
	require.NoError(t, err)

	st, err := m.StateFor(ctx, s.GameID, "alice")
	require.NoError(t, err)
	ms := st.(*mafia.State)
	require.Contains(t, ms.Private, "alice")
	assert.Len(t, ms.Private, 1)

	// The stored session keeps every player's entry.
	full, err := m.StateFor(ctx, s.GameID, "bob")
	require.NoError(t, err)
	assert.Contains(t, full.(*mafia.State).Private, "bob")
}

func TestClose(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, tictactoe.Kind, []string{"alice", "bob"})
	require.NoError(t, err)

	require.NoError(t, m.Close(ctx, s.GameID))
	assert.Equal(t, 0, store.Len())

	_, err = m.StateFor(ctx, s.GameID, "alice")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestExpiredSessionsSwept(t *testing.T) {
	m, store := newManager(t)
	ctx := context.Background()

	s, err := m.Create(ctx, tictactoe.Kind, []string{"alice", "bob"})
	require.NoError(t, err)

	// Nothing is older than the cutoff yet.
	removed, err := store.DeleteExpired(ctx, time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, 1, store.Len())

	removed, err = store.DeleteExpired(ctx, time.Now().UTC().Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	assert.Equal(t, 0, store.Len())

	_, err = m.StateFor(ctx, s.GameID, "alice")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestJanitorLoop(t *testing.T) {
	registry := game.NewRegistry()
	require.NoError(t, registry.Register(tictactoe.New()))

	store := NewMemoryStore()
	m := NewManager(registry, store, &config.RoomConfig{
		TTL:             time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
		LockTimeout:     time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := m.Create(ctx, tictactoe.Kind, []string{"alice", "bob"})
	require.NoError(t, err)

	go m.RunJanitor(ctx)

	require.Eventually(t, func() bool {
		return store.Len() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
