package room

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"game-room-server/internal/config"
	"game-room-server/internal/game"
	"game-room-server/internal/pkg/lock"
)

// Manager hosts game sessions. Every state mutation for one game runs
// under that game's writer lock, so engines see strictly serialized
// calls; reads work on store copies and need no lock.
type Manager struct {
	registry *game.Registry
	store    Store
	locks    *lock.KeyedLock

	ttl             time.Duration
	cleanupInterval time.Duration
	lockTimeout     time.Duration
}

// NewManager creates a session manager on the given store.
func NewManager(registry *game.Registry, store Store, cfg *config.RoomConfig) *Manager {
	m := &Manager{
		registry:        registry,
		store:           store,
		locks:           lock.NewKeyedLock(),
		ttl:             cfg.TTL,
		cleanupInterval: cfg.CleanupInterval,
		lockTimeout:     cfg.LockTimeout,
	}
	if m.ttl <= 0 {
		m.ttl = 24 * time.Hour
	}
	if m.cleanupInterval <= 0 {
		m.cleanupInterval = 10 * time.Minute
	}
	if m.lockTimeout <= 0 {
		m.lockTimeout = 5 * time.Second
	}
	return m
}

// Create starts a new game of the given kind and persists its initial
// state. The game id is assigned by the engine.
func (m *Manager) Create(ctx context.Context, kind string, playerIDs []string) (*Session, error) {
	engine, ok := m.registry.Get(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownGameKind, kind)
	}

	st, err := engine.Initialize(playerIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &Session{
		GameID:    st.GameID(),
		Kind:      kind,
		PlayerIDs: st.Players(),
		State:     st,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to persist new session: %w", err)
	}

	log.Info().
		Str("game_id", s.GameID).
		Str("kind", kind).
		Int("players", len(playerIDs)).
		Msg("Game session created")
	return s, nil
}

// Submit decodes and applies one action for a player, persists the new
// snapshot and returns it. Engine errors pass through unchanged so
// callers can test them with errors.Is.
func (m *Manager) Submit(ctx context.Context, gameID, playerID string, rawAction []byte) (game.State, error) {
	var next game.State
	err := m.locks.WithLockContext(ctx, gameID, m.lockTimeout, func() error {
		s, err := m.store.Load(ctx, gameID)
		if err != nil {
			return err
		}
		engine, ok := m.registry.Get(s.Kind)
		if !ok {
			return fmt.Errorf("%w: %q", game.ErrUnknownGameKind, s.Kind)
		}

		action, err := engine.DecodeAction(rawAction)
		if err != nil {
			return err
		}
		next, err = engine.ApplyAction(s.State, playerID, action)
		if err != nil {
			return err
		}

		s.State = next
		s.UpdatedAt = time.Now().UTC()
		if err := m.store.Save(ctx, s); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Actions lists the actions the player may submit right now.
func (m *Manager) Actions(ctx context.Context, gameID, playerID string) ([]game.Action, error) {
	s, err := m.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	engine, ok := m.registry.Get(s.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownGameKind, s.Kind)
	}
	return engine.EnumerateActions(s.State, playerID), nil
}

// Validate reports whether the raw action would be accepted, without
// applying it.
func (m *Manager) Validate(ctx context.Context, gameID, playerID string, rawAction []byte) error {
	s, err := m.store.Load(ctx, gameID)
	if err != nil {
		return err
	}
	engine, ok := m.registry.Get(s.Kind)
	if !ok {
		return fmt.Errorf("%w: %q", game.ErrUnknownGameKind, s.Kind)
	}
	action, err := engine.DecodeAction(rawAction)
	if err != nil {
		return err
	}
	return engine.ValidateAction(s.State, playerID, action)
}

// StateFor returns the state as the viewer is allowed to see it: other
// players' private entries are dropped by the state's own projection.
func (m *Manager) StateFor(ctx context.Context, gameID, viewerID string) (game.State, error) {
	s, err := m.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return s.State.View(viewerID), nil
}

// Close removes a game session.
func (m *Manager) Close(ctx context.Context, gameID string) error {
	err := m.locks.WithLockContext(ctx, gameID, m.lockTimeout, func() error {
		return m.store.Delete(ctx, gameID)
	})
	if err != nil {
		return err
	}
	m.locks.Forget(gameID)
	log.Info().Str("game_id", gameID).Msg("Game session closed")
	return nil
}

// RunJanitor sweeps expired sessions until the context is cancelled.
func (m *Manager) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	log.Info().
		Dur("ttl", m.ttl).
		Dur("interval", m.cleanupInterval).
		Msg("Session janitor started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Session janitor stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-m.ttl)
			removed, err := m.store.DeleteExpired(ctx, cutoff)
			if err != nil {
				log.Error().Err(err).Msg("Failed to sweep expired sessions")
				continue
			}
			if removed > 0 {
				log.Info().Int64("removed", removed).Msg("Expired sessions removed")
			}
		}
	}
}
