// Package chess adapts an external rules library to the game contract.
// The engine owns turn order, resignation and result bookkeeping; move
// legality and board evolution are delegated to a Rules implementation
// working on FEN positions and UCI moves.
package chess

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"game-room-server/internal/game"
)

// Kind is the game-kind tag for chess.
const Kind = "chess"

// Phase names, one per color.
const (
	PhaseWhite = "WHITE"
	PhaseBlack = "BLACK"
)

// Action type tags.
const (
	ActionMakeMove = "MAKE_MOVE"
	ActionResign   = "RESIGN"
)

// Outcomes reported by Rules.ApplyMove. OutcomeOngoing means the game
// continues.
const (
	OutcomeOngoing  = ""
	OutcomeWhiteWon = "1-0"
	OutcomeBlackWon = "0-1"
	OutcomeDraw     = "1/2-1/2"
)

// Rules evaluates chess positions. Implementations must be stateless:
// both methods derive everything from the FEN they are given.
type Rules interface {
	// LegalMoves lists the legal moves in UCI notation for the side to
	// move in the position.
	LegalMoves(fen string) ([]string, error)
	// ApplyMove plays a UCI move on the position and returns the
	// resulting FEN and the game outcome.
	ApplyMove(fen, uci string) (newFEN string, outcome string, err error)
}

// Action is a chess action; Move carries the UCI move for MAKE_MOVE.
type Action struct {
	Type string `json:"type"`
	Move string `json:"move,omitempty"`
}

func (a Action) ActionType() string { return a.Type }

// State is a full chess snapshot. Player 0 is white, player 1 is black.
// Chess has no hidden information, so View returns a plain copy.
type State struct {
	ID        string     `json:"game_id"`
	PlayerIDs []string   `json:"player_ids"`
	Turn      int        `json:"turn"`
	Finished  bool       `json:"finished"`
	Phase     game.Phase `json:"phase"`

	BoardFEN    string   `json:"board_fen"`
	MoveHistory []string `json:"move_history"`
	Result      string   `json:"result,omitempty"`
	Winner      string   `json:"winner,omitempty"`

	CurrentIndex int `json:"current_index"`
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
	c.MoveHistory = append([]string(nil), s.MoveHistory...)
	return &c
}

func (s *State) currentPlayer() string { return s.PlayerIDs[s.CurrentIndex] }

func (s *State) otherPlayer(playerID string) string {
	if s.PlayerIDs[0] == playerID {
		return s.PlayerIDs[1]
	}
	return s.PlayerIDs[0]
}

// Engine implements the game contract for chess.
type Engine struct {
	rules Rules
}

// New creates a chess engine on the given rules; nil selects the
// built-in library-backed implementation.
func New(rules Rules) *Engine {
	if rules == nil {
		rules = NewLibraryRules()
	}
	return &Engine{rules: rules}
}

// Kind returns the game-kind tag.
func (e *Engine) Kind() string { return Kind }

// Initialize starts a game from the standard position, white to move.
func (e *Engine) Initialize(playerIDs []string) (game.State, error) {
	if len(playerIDs) != 2 {
		return nil, fmt.Errorf("%w: chess requires exactly 2 players, got %d",
			game.ErrInvalidPlayerCount, len(playerIDs))
	}
	return &State{
		ID:        uuid.NewString(),
		PlayerIDs: append([]string(nil), playerIDs...),
		Turn:      1,
		Phase:     game.NewPhase(PhaseWhite, PhaseBlack),
		BoardFEN:  StartingFEN,
	}, nil
}

// DecodeState parses a JSON state document.
func (e *Engine) DecodeState(data []byte) (game.State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode chess state: %w", err)
	}
	return &st, nil
}

// DecodeAction parses a JSON action document.
func (e *Engine) DecodeAction(data []byte) (game.Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode chess action: %w", err)
	}
	switch a.Type {
	case ActionMakeMove, ActionResign:
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownActionType, a.Type)
	}
}

// EnumerateActions lists resign plus every legal move for the player to
// move. A rules failure yields no actions.
func (e *Engine) EnumerateActions(st game.State, playerID string) []game.Action {
	cs, ok := st.(*State)
	if !ok {
		return nil
	}
	var out []game.Action
	if cs.Finished || playerID != cs.currentPlayer() {
		return out
	}
	out = append(out, Action{Type: ActionResign})
	moves, err := e.rules.LegalMoves(cs.BoardFEN)
	if err != nil {
		return nil
	}
	for _, uci := range moves {
		out = append(out, Action{Type: ActionMakeMove, Move: uci})
	}
	return out
}

// ValidateAction reports whether the action would be accepted.
func (e *Engine) ValidateAction(st game.State, playerID string, a game.Action) error {
	cs, ok := st.(*State)
	if !ok {
		return game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return game.ErrUnknownActionType
	}
	return e.validate(cs, playerID, act)
}

func (e *Engine) validate(st *State, playerID string, a Action) error {
	switch a.Type {
	case ActionMakeMove, ActionResign:
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
		if a.Move != "" {
			return fmt.Errorf("%w: resign takes no move", game.ErrIllegalTarget)
		}
		return nil
	}
	moves, err := e.rules.LegalMoves(st.BoardFEN)
	if err != nil {
		return fmt.Errorf("%w: %v", game.ErrStateCorrupted, err)
	}
	for _, uci := range moves {
		if uci == a.Move {
			return nil
		}
	}
	return fmt.Errorf("%w: move %q is not legal", game.ErrIllegalTarget, a.Move)
}

// ApplyAction plays a move through the rules and records the outcome.
func (e *Engine) ApplyAction(st game.State, playerID string, a game.Action) (game.State, error) {
	cs, ok := st.(*State)
	if !ok {
		return nil, game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return nil, game.ErrUnknownActionType
	}
	if err := e.validate(cs, playerID, act); err != nil {
		return nil, err
	}

	next := cs.clone()
	if act.Type == ActionResign {
		next.Winner = next.otherPlayer(playerID)
		if next.CurrentIndex == 0 {
			next.Result = OutcomeBlackWon
		} else {
			next.Result = OutcomeWhiteWon
		}
		next.Finished = true
		return next, nil
	}

	fen, outcome, err := e.rules.ApplyMove(next.BoardFEN, act.Move)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrIllegalTarget, err)
	}
	next.BoardFEN = fen
	next.MoveHistory = append(next.MoveHistory, act.Move)

	switch outcome {
	case OutcomeWhiteWon:
		next.Winner = next.PlayerIDs[0]
		next.Result = outcome
		next.Finished = true
	case OutcomeBlackWon:
		next.Winner = next.PlayerIDs[1]
		next.Result = outcome
		next.Finished = true
	case OutcomeDraw:
		next.Result = outcome
		next.Finished = true
	default:
		next.CurrentIndex = 1 - next.CurrentIndex
		next.Phase = next.Phase.Next()
		next.Turn++
	}
	return next, nil
}
