// Package ultimate implements ultimate tic-tac-toe: nine 3x3 subgames
// inside a 3x3 supergame, where each move constrains which subgame the
// opponent must answer in.
//
// The board is a flat vector: indices 0-80 are cells (subgame*9 +
// cell), 81-89 hold per-subgame results, then the supergame result, the
// symbol to move and the current constraint.
package ultimate

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"game-room-server/internal/game"
)

// Kind is the game-kind tag for ultimate tic-tac-toe.
const Kind = "ultimate_tictactoe"

// Phase names: one per symbol, advancing after every move.
const (
	PhaseX = "PLAYER_X"
	PhaseO = "PLAYER_O"
)

// Action type tags.
const (
	ActionPlaceMarker = "PLACE_MARKER"
	ActionResign      = "RESIGN"
)

// Board cell values.
const (
	Empty      = 0
	SymbolX    = 1
	SymbolO    = 2
	ResultDraw = 3
)

// Board layout.
const (
	cellCount       = 81
	subgameBase     = 81 // 81..89: subgame results
	resultIndex     = 90
	nextSymbolIndex = 91
	constraintIndex = 92
	boardSize       = 93

	// unconstrained means the player may move in any open subgame.
	unconstrained = 9
)

var winPatterns = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Action is a single ultimate tic-tac-toe move; Index addresses one of
// the 81 cells.
type Action struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

func (a Action) ActionType() string { return a.Type }

// State is a full snapshot. Player 0 plays X, player 1 plays O. There is
// no hidden information, so View returns a plain copy.
type State struct {
	ID        string     `json:"game_id"`
	PlayerIDs []string   `json:"player_ids"`
	Turn      int        `json:"turn"`
	Finished  bool       `json:"finished"`
	Phase     game.Phase `json:"phase"`

	Board  []int  `json:"board"`
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw,omitempty"`
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
	c.Board = append([]int(nil), s.Board...)
	return &c
}

func (s *State) nextSymbol() int { return s.Board[nextSymbolIndex] }
func (s *State) constraint() int { return s.Board[constraintIndex] }

// currentPlayer maps the symbol to move onto the player list: player 0
// is X, player 1 is O.
func (s *State) currentPlayer() string {
	if s.nextSymbol() == SymbolX {
		return s.PlayerIDs[0]
	}
	return s.PlayerIDs[1]
}

func (s *State) otherPlayer(playerID string) string {
	if s.PlayerIDs[0] == playerID {
		return s.PlayerIDs[1]
	}
	return s.PlayerIDs[0]
}

// legalIndexes returns the open cells the symbol to move may take.
func (s *State) legalIndexes() []int {
	if s.Finished {
		return nil
	}
	if s.constraint() == unconstrained {
		var out []int
		for sub := 0; sub < 9; sub++ {
			if s.Board[subgameBase+sub] == Empty {
				out = append(out, emptyCells(s.Board, sub)...)
			}
		}
		return out
	}
	return emptyCells(s.Board, s.constraint())
}

func emptyCells(board []int, subgame int) []int {
	offset := subgame * 9
	var out []int
	for i := 0; i < 9; i++ {
		if board[offset+i] == Empty {
			out = append(out, offset+i)
		}
	}
	return out
}

// Engine implements the game contract for ultimate tic-tac-toe.
type Engine struct{}

// New creates an ultimate tic-tac-toe engine.
func New() *Engine { return &Engine{} }

// Kind returns the game-kind tag.
func (e *Engine) Kind() string { return Kind }

// Initialize sets up an empty, unconstrained board; X moves first.
func (e *Engine) Initialize(playerIDs []string) (game.State, error) {
	if len(playerIDs) != 2 {
		return nil, fmt.Errorf("%w: ultimate tic-tac-toe requires exactly 2 players, got %d",
			game.ErrInvalidPlayerCount, len(playerIDs))
	}
	board := make([]int, boardSize)
	board[nextSymbolIndex] = SymbolX
	board[constraintIndex] = unconstrained
	return &State{
		ID:        uuid.NewString(),
		PlayerIDs: append([]string(nil), playerIDs...),
		Turn:      1,
		Phase:     game.NewPhase(PhaseX, PhaseO),
		Board:     board,
	}, nil
}

// DecodeState parses a JSON state document.
func (e *Engine) DecodeState(data []byte) (game.State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode ultimate state: %w", err)
	}
	return &st, nil
}

// DecodeAction parses a JSON action document.
func (e *Engine) DecodeAction(data []byte) (game.Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode ultimate action: %w", err)
	}
	switch a.Type {
	case ActionPlaceMarker, ActionResign:
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownActionType, a.Type)
	}
}

// EnumerateActions lists a move for every legal cell plus resign, for
// the player to move.
func (e *Engine) EnumerateActions(st game.State, playerID string) []game.Action {
	us, ok := st.(*State)
	if !ok {
		return nil
	}
	var out []game.Action
	if us.Finished || playerID != us.currentPlayer() {
		return out
	}
	out = append(out, Action{Type: ActionResign})
	for _, index := range us.legalIndexes() {
		out = append(out, Action{Type: ActionPlaceMarker, Index: index})
	}
	return out
}

// ValidateAction reports whether the action would be accepted.
func (e *Engine) ValidateAction(st game.State, playerID string, a game.Action) error {
	us, ok := st.(*State)
	if !ok {
		return game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return game.ErrUnknownActionType
	}
	return e.validate(us, playerID, act)
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
		if a.Index != 0 {
			return fmt.Errorf("%w: resign takes no cell", game.ErrIllegalTarget)
		}
		return nil
	}
	for _, index := range st.legalIndexes() {
		if index == a.Index {
			return nil
		}
	}
	return fmt.Errorf("%w: index %d is not a legal move", game.ErrIllegalTarget, a.Index)
}

// ApplyAction places a symbol, updates subgame and supergame results and
// sets the next constraint.
func (e *Engine) ApplyAction(st game.State, playerID string, a game.Action) (game.State, error) {
	us, ok := st.(*State)
	if !ok {
		return nil, game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return nil, game.ErrUnknownActionType
	}
	if err := e.validate(us, playerID, act); err != nil {
		return nil, err
	}

	next := us.clone()
	if act.Type == ActionResign {
		next.Winner = next.otherPlayer(playerID)
		next.Finished = true
		return next, nil
	}

	symbol := next.nextSymbol()
	next.Board[act.Index] = symbol
	updateResults(next.Board, symbol, act.Index)

	switch next.Board[resultIndex] {
	case symbol:
		next.Winner = playerID
		next.Finished = true
	case ResultDraw:
		next.Draw = true
		next.Finished = true
	default:
		if symbol == SymbolX {
			next.Board[nextSymbolIndex] = SymbolO
		} else {
			next.Board[nextSymbolIndex] = SymbolX
		}
		setConstraint(next.Board, act.Index)
		next.Phase = next.Phase.Next()
		next.Turn++
	}
	return next, nil
}

// updateResults records a decided subgame and, when one was decided,
// re-evaluates the supergame over the subgame-result cells.
func updateResults(board []int, symbol, index int) {
	subgame := index / 9
	if board[subgameBase+subgame] != Empty {
		return
	}

	decided := false
	if winsRegion(board, symbol, subgame*9) {
		board[subgameBase+subgame] = symbol
		decided = true
	} else if fullRegion(board, subgame*9) {
		board[subgameBase+subgame] = ResultDraw
		decided = true
	}
	if !decided {
		return
	}

	if winsRegion(board, symbol, subgameBase) {
		board[resultIndex] = symbol
	} else if fullRegion(board, subgameBase) {
		board[resultIndex] = ResultDraw
	}
}

// setConstraint points the next player at the subgame matching the cell
// just taken, lifting the constraint when that subgame is decided.
func setConstraint(board []int, index int) {
	next := index % 9
	if board[subgameBase+next] != Empty {
		board[constraintIndex] = unconstrained
	} else {
		board[constraintIndex] = next
	}
}

func winsRegion(board []int, symbol, offset int) bool {
	for _, p := range winPatterns {
		if board[offset+p[0]] == symbol && board[offset+p[1]] == symbol && board[offset+p[2]] == symbol {
			return true
		}
	}
	return false
}

func fullRegion(board []int, offset int) bool {
	for i := 0; i < 9; i++ {
		if board[offset+i] == Empty {
			return false
		}
	}
	return true
}
