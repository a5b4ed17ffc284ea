package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"game-room-server/internal/game"
	"game-room-server/internal/pkg/db"
)

// PGStore persists sessions in a single game_sessions table. State
// snapshots are stored as JSON documents and rehydrated through the
// owning engine's DecodeState.
type PGStore struct {
	pool     *db.Pool
	registry *game.Registry
}

// NewPGStore creates a PostgreSQL-backed session store.
func NewPGStore(pool *db.Pool, registry *game.Registry) *PGStore {
	return &PGStore{pool: pool, registry: registry}
}

// EnsureSchema creates the game_sessions table if it does not exist.
func (p *PGStore) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS game_sessions (
			game_id    TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			player_ids TEXT[] NOT NULL,
			state      JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create game_sessions table: %w", err)
	}
	return nil
}

// Save inserts or replaces the session.
func (p *PGStore) Save(ctx context.Context, s *Session) error {
	const query = `
		INSERT INTO game_sessions (game_id, kind, player_ids, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id) DO UPDATE
		SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at
	`

	doc, err := json.Marshal(s.State)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	_, err = p.pool.Exec(ctx, query,
		s.GameID, s.Kind, s.PlayerIDs, doc, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save game session: %w", err)
	}
	return nil
}

// Load retrieves a session by game id.
// Returns ErrSessionNotFound if it does not exist.
func (p *PGStore) Load(ctx context.Context, gameID string) (*Session, error) {
	const query = `
		SELECT game_id, kind, player_ids, state, created_at, updated_at
		FROM game_sessions
		WHERE game_id = $1
	`

	var (
		s   Session
		doc []byte
	)
	err := p.pool.QueryRow(ctx, query, gameID).Scan(
		&s.GameID,
		&s.Kind,
		&s.PlayerIDs,
		&doc,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load game session: %w", err)
	}

	engine, ok := p.registry.Get(s.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownGameKind, s.Kind)
	}
	st, err := engine.DecodeState(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode game state: %w", err)
	}
	s.State = st
	return &s, nil
}

// Delete removes a session.
func (p *PGStore) Delete(ctx context.Context, gameID string) error {
	const query = `DELETE FROM game_sessions WHERE game_id = $1`
	if _, err := p.pool.Exec(ctx, query, gameID); err != nil {
		return fmt.Errorf("failed to delete game session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session not updated since the cutoff.
func (p *PGStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM game_sessions WHERE updated_at < $1`
	tag, err := p.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Store = (*PGStore)(nil)
var _ Store = (*MemoryStore)(nil)
