// Package game defines the uniform contract every game engine implements,
// along with the shared Phase cursor, seedable randomness, error kinds and
// the engine registry. The surrounding room layer can host any game kind
// through this contract without game-specific plumbing.
package game

// State is a full snapshot of one game. Implementations are plain structs
// with JSON tags only (primitives, ordered sequences and string-keyed maps),
// so the room layer can persist and transport them as documents.
//
// States are immutable from the engine's point of view: ApplyAction never
// modifies its input, it returns a fresh snapshot.
type State interface {
	// GameID returns the opaque identifier assigned at creation.
	GameID() string

	// Players returns the ordered player ids, fixed at creation.
	Players() []string

	// TurnNumber returns the monotonic turn counter.
	TurnNumber() int

	// IsFinished reports whether the game has ended.
	IsFinished() bool

	// View returns a copy safe to show to viewerID: every other player's
	// private entry is dropped. Redaction is purely structural; no game
	// rules are involved.
	View(viewerID string) State

	// Clone returns a deep copy.
	Clone() State
}

// Action is a single move submitted by a player, discriminated by a type
// tag. Each engine defines its own concrete action structs and decodes
// them from JSON via Engine.DecodeAction.
type Action interface {
	// ActionType returns the discriminating type tag (e.g. "PLAY_ENERGY").
	ActionType() string
}

// Engine is the four-operation capability set every game kind implements.
// Engines are stateless beyond construction-time configuration: all game
// data lives in the State values passed through them, so a single engine
// instance serves any number of concurrent games. The caller must
// serialize calls per game id (single-writer discipline); the engine
// itself never blocks and holds no locks.
type Engine interface {
	// Kind returns the game-kind tag used for dispatch (e.g. "lands").
	Kind() string

	// Initialize validates the player count and returns a starting state.
	// Returns ErrInvalidPlayerCount when the count does not match the
	// game's fixed requirement.
	Initialize(playerIDs []string) (State, error)

	// ApplyAction re-validates the action internally, applies exactly one
	// state transition and returns the new snapshot. The input state is
	// never mutated. For multi-step games the transition may advance only
	// a sub-phase rather than end the turn.
	ApplyAction(st State, playerID string, a Action) (State, error)

	// EnumerateActions returns exactly the actions ApplyAction would
	// accept for playerID right now; empty when the game is finished, the
	// player is not eligible to act in the current phase, or the player
	// does not exist or is eliminated.
	EnumerateActions(st State, playerID string) []Action

	// ValidateAction reports whether a would be accepted. It is logically
	// equivalent to membership in EnumerateActions(st, playerID); this
	// equivalence is a contract invariant, not an implementation detail.
	ValidateAction(st State, playerID string, a Action) error

	// DecodeAction parses a JSON action document into the engine's
	// concrete action type. Returns ErrUnknownActionType for a type tag
	// the engine does not recognize.
	DecodeAction(data []byte) (Action, error)

	// DecodeState parses a JSON state document previously produced by
	// marshaling one of this engine's snapshots.
	DecodeState(data []byte) (State, error)
}
