// Package room hosts game sessions behind the engine contract: it keys
// sessions by game id, enforces the single-writer discipline with a
// per-game lock, projects per-viewer state and expires idle sessions.
package room

import (
	"context"
	"errors"
	"time"

	"game-room-server/internal/game"
)

// Common errors for session storage.
var (
	ErrSessionNotFound = errors.New("game session not found")
)

// Session is one hosted game: the kind tag selecting its engine plus
// the latest state snapshot.
type Session struct {
	GameID    string
	Kind      string
	PlayerIDs []string
	State     game.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// clone returns a copy whose state shares nothing with the original.
func (s *Session) clone() *Session {
	c := *s
	c.PlayerIDs = append([]string(nil), s.PlayerIDs...)
	c.State = s.State.Clone()
	return &c
}

// Store persists game sessions. Implementations must be safe for
// concurrent use; write ordering per game id is the Manager's job.
type Store interface {
	// Save inserts or replaces the session.
	Save(ctx context.Context, s *Session) error

	// Load retrieves a session by game id.
	// Returns ErrSessionNotFound if it does not exist.
	Load(ctx context.Context, gameID string) (*Session, error)

	// Delete removes a session. Deleting an absent session is not an
	// error.
	Delete(ctx context.Context, gameID string) error

	// DeleteExpired removes every session not updated since the cutoff
	// and returns how many were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
