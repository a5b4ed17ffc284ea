package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine is the minimal Engine used for registry tests.
type stubEngine struct {
	kind string
}

func (s *stubEngine) Kind() string                                          { return s.kind }
func (s *stubEngine) Initialize(playerIDs []string) (State, error)          { return nil, nil }
func (s *stubEngine) ApplyAction(State, string, Action) (State, error)      { return nil, nil }
func (s *stubEngine) EnumerateActions(State, string) []Action               { return nil }
func (s *stubEngine) ValidateAction(State, string, Action) error            { return nil }
func (s *stubEngine) DecodeAction(data []byte) (Action, error)              { return nil, nil }
func (s *stubEngine) DecodeState(data []byte) (State, error)                { return nil, nil }

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubEngine{kind: "lands"}))
	require.NoError(t, r.Register(&stubEngine{kind: "mafia"}))

	e, ok := r.Get("lands")
	assert.True(t, ok)
	assert.Equal(t, "lands", e.Kind())

	_, ok = r.Get("poker")
	assert.False(t, ok)

	assert.Equal(t, 2, r.Count())
	assert.ElementsMatch(t, []string{"lands", "mafia"}, r.Kinds())
}

func TestRegistryRejectsInvalidEngines(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&stubEngine{kind: ""}))
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubEngine{kind: "chess"}))

	assert.True(t, r.Unregister("chess"))
	assert.False(t, r.Unregister("chess"))
	assert.Equal(t, 0, r.Count())
}
