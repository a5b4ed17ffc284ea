package game

import "errors"

// Error kinds shared by all engines. These are caller/input errors; the
// engine returns them synchronously and never retries, logs or swallows
// them. Callers test with errors.Is.
var (
	// ErrInvalidPlayerCount is returned by Initialize when the player
	// count does not match the game's fixed requirement.
	ErrInvalidPlayerCount = errors.New("invalid player count")

	// ErrNotPlayersTurn is returned when the acting player is not eligible
	// to act right now (wrong player, unknown player, or eliminated).
	ErrNotPlayersTurn = errors.New("not player's turn")

	// ErrActionNotAllowedInPhase is returned when the action type is not
	// legal in the current phase.
	ErrActionNotAllowedInPhase = errors.New("action not allowed in current phase")

	// ErrIllegalTarget is returned when the action's target is not among
	// the currently legal targets.
	ErrIllegalTarget = errors.New("illegal target")

	// ErrGameAlreadyFinished is returned for any action against a
	// finished game.
	ErrGameAlreadyFinished = errors.New("game already finished")

	// ErrUnknownActionType is returned for a type tag the engine does not
	// recognize.
	ErrUnknownActionType = errors.New("unknown action type")

	// ErrNoPendingEffect is returned when a target is chosen while
	// nothing is awaiting resolution.
	ErrNoPendingEffect = errors.New("no pending effect to resolve")

	// ErrStateCorrupted is returned when a structural invariant is found
	// broken (conserved card count, invalid phase pointer beyond the
	// documented recovery). The mutation is rejected outright; the engine
	// fails closed rather than producing a corrupted snapshot.
	ErrStateCorrupted = errors.New("game state corrupted")

	// ErrStateKind is returned when a state snapshot of the wrong game
	// kind is passed to an engine.
	ErrStateKind = errors.New("state does not belong to this game kind")

	// ErrUnknownGameKind is returned when no engine is registered for a
	// kind tag.
	ErrUnknownGameKind = errors.New("unknown game kind")
)
