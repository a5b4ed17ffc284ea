// Package tictactoe implements plain 3x3 tic-tac-toe. It is the
// smallest instance of the game contract and exists mostly to keep the
// contract honest for trivial games.
package tictactoe

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"game-room-server/internal/game"
)

// Kind is the game-kind tag for tic-tac-toe.
const Kind = "tictactoe"

// Phase names: one per player, advancing after every move.
const (
	PhasePlayer1 = "PLAYER_1"
	PhasePlayer2 = "PLAYER_2"
)

// Action type tags.
const (
	ActionPlaceMarker = "PLACE_MARKER"
	ActionResign      = "RESIGN"
)

var markers = [2]string{"X", "O"}

// Action is a single tic-tac-toe move.
type Action struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

func (a Action) ActionType() string { return a.Type }

// State is a full tic-tac-toe snapshot. There is no hidden information,
// so View returns a plain copy.
type State struct {
	ID        string     `json:"game_id"`
	PlayerIDs []string   `json:"player_ids"`
	Turn      int        `json:"turn"`
	Finished  bool       `json:"finished"`
	Phase     game.Phase `json:"phase"`

	Board        [3][3]string `json:"board"`
	CurrentIndex int          `json:"current_index"`
	Winner       string       `json:"winner,omitempty"`
	Draw         bool         `json:"draw,omitempty"`
}

func (s *State) GameID() string    { return s.ID }
func (s *State) Players() []string { return s.PlayerIDs }
func (s *State) TurnNumber() int   { return s.Turn }
func (s *State) IsFinished() bool  { return s.Finished }

func (s *State) View(viewerID string) game.State { return s.clone() }
func (s *State) Clone() game.State               { return s.clone() }

func (s *State) clone() *State {
	c := *s
	c.PlayerIDs = append([]string(nil), s.PlayerIDs...)
	c.Phase = s.Phase.Clone()
	return &c
}

func (s *State) currentPlayer() string {
	return s.PlayerIDs[s.CurrentIndex]
}

// Engine implements the game contract for tic-tac-toe. It is stateless
// and needs no configuration.
type Engine struct{}

// New creates a tic-tac-toe engine.
func New() *Engine { return &Engine{} }

// Kind returns the game-kind tag.
func (e *Engine) Kind() string { return Kind }

// Initialize sets up an empty board for exactly two players.
func (e *Engine) Initialize(playerIDs []string) (game.State, error) {
	if len(playerIDs) != 2 {
		return nil, fmt.Errorf("%w: tic-tac-toe requires exactly 2 players, got %d",
			game.ErrInvalidPlayerCount, len(playerIDs))
	}
	return &State{
		ID:        uuid.NewString(),
		PlayerIDs: append([]string(nil), playerIDs...),
		Turn:      1,
		Phase:     game.NewPhase(PhasePlayer1, PhasePlayer2),
	}, nil
}

// DecodeState parses a JSON state document.
func (e *Engine) DecodeState(data []byte) (game.State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode tic-tac-toe state: %w", err)
	}
	return &st, nil
}

// DecodeAction parses a JSON action document.
func (e *Engine) DecodeAction(data []byte) (game.Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode tictactoe action: %w", err)
	}
	switch a.Type {
	case ActionPlaceMarker, ActionResign:
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownActionType, a.Type)
	}
}

// EnumerateActions lists a move for every empty cell plus resign, for
// the player to move.
func (e *Engine) EnumerateActions(st game.State, playerID string) []game.Action {
	ts, ok := st.(*State)
	if !ok {
		return nil
	}
	var out []game.Action
	if ts.Finished || playerID != ts.currentPlayer() {
		return out
	}
	out = append(out, Action{Type: ActionResign})
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if ts.Board[r][c] == "" {
				out = append(out, Action{Type: ActionPlaceMarker, Row: r, Col: c})
			}
		}
	}
	return out
}

// ValidateAction reports whether the action would be accepted.
func (e *Engine) ValidateAction(st game.State, playerID string, a game.Action) error {
	ts, ok := st.(*State)
	if !ok {
		return game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return game.ErrUnknownActionType
	}
	return e.validate(ts, playerID, act)
}

func (e *Engine) validate(st *State, playerID string, a Action) error {
	switch a.Type {
	case ActionPlaceMarker, ActionResign:
	default:
		return fmt.Errorf("%w: %q", game.ErrUnknownActionType, a.Type)
	}
	if st.Finished {
		return game.ErrGameAlreadyFinished
	}
	if playerID != st.currentPlayer() {
		return game.ErrNotPlayersTurn
	}
	if a.Type == ActionResign {
		if a.Row != 0 || a.Col != 0 {
			return fmt.Errorf("%w: resign takes no cell", game.ErrIllegalTarget)
		}
		return nil
	}
	if a.Row < 0 || a.Row > 2 || a.Col < 0 || a.Col > 2 {
		return fmt.Errorf("%w: cell (%d,%d) is off the board", game.ErrIllegalTarget, a.Row, a.Col)
	}
	if st.Board[a.Row][a.Col] != "" {
		return fmt.Errorf("%w: cell (%d,%d) is occupied", game.ErrIllegalTarget, a.Row, a.Col)
	}
	return nil
}

// ApplyAction places a marker or resigns, then evaluates the result.
func (e *Engine) ApplyAction(st game.State, playerID string, a game.Action) (game.State, error) {
	ts, ok := st.(*State)
	if !ok {
		return nil, game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return nil, game.ErrUnknownActionType
	}
	if err := e.validate(ts, playerID, act); err != nil {
		return nil, err
	}

	next := ts.clone()
	if act.Type == ActionResign {
		next.Winner = next.PlayerIDs[1-next.CurrentIndex]
		next.Finished = true
		return next, nil
	}

	marker := markers[next.CurrentIndex]
	next.Board[act.Row][act.Col] = marker

	switch {
	case hasLine(next.Board, marker):
		next.Winner = playerID
		next.Finished = true
	case boardFull(next.Board):
		next.Draw = true
		next.Finished = true
	default:
		next.CurrentIndex = 1 - next.CurrentIndex
		next.Phase = next.Phase.Next()
		next.Turn++
	}
	return next, nil
}

func hasLine(b [3][3]string, marker string) bool {
	for i := 0; i < 3; i++ {
		if b[i][0] == marker && b[i][1] == marker && b[i][2] == marker {
			return true
		}
		if b[0][i] == marker && b[1][i] == marker && b[2][i] == marker {
			return true
		}
	}
	if b[0][0] == marker && b[1][1] == marker && b[2][2] == marker {
		return true
	}
	return b[0][2] == marker && b[1][1] == marker && b[2][0] == marker
}

func boardFull(b [3][3]string) bool {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if b[r][c] == "" {
				return false
			}
		}
	}
	return true
}
