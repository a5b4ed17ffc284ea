package chess

import (
	"fmt"

	notnil "github.com/notnil/chess"
)

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// LibraryRules implements Rules on github.com/notnil/chess. It carries
// no state; every call rebuilds the position from the FEN.
type LibraryRules struct{}

// NewLibraryRules creates the library-backed rules.
func NewLibraryRules() *LibraryRules { return &LibraryRules{} }

func gameFromFEN(fen string) (*notnil.Game, error) {
	opt, err := notnil.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return notnil.NewGame(opt), nil
}

// LegalMoves lists the legal moves of the position in UCI notation.
func (r *LibraryRules) LegalMoves(fen string) ([]string, error) {
	g, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}
	notation := notnil.UCINotation{}
	pos := g.Position()
	moves := g.ValidMoves()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, notation.Encode(pos, m))
	}
	return out, nil
}

// ApplyMove plays a UCI move and returns the new FEN plus the outcome;
// OutcomeOngoing while the game continues.
func (r *LibraryRules) ApplyMove(fen, uci string) (string, string, error) {
	g, err := gameFromFEN(fen)
	if err != nil {
		return "", "", err
	}
	move, err := notnil.UCINotation{}.Decode(g.Position(), uci)
	if err != nil {
		return "", "", fmt.Errorf("parse move %q: %w", uci, err)
	}
	if err := g.Move(move); err != nil {
		return "", "", fmt.Errorf("play move %q: %w", uci, err)
	}

	outcome := OutcomeOngoing
	switch g.Outcome() {
	case notnil.WhiteWon:
		outcome = OutcomeWhiteWon
	case notnil.BlackWon:
		outcome = OutcomeBlackWon
	case notnil.Draw:
		outcome = OutcomeDraw
	}
	return g.Position().String(), outcome, nil
}
