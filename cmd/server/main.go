// Package main is the entry point for the game room server. It wires
// configuration, logging, the session store and every game engine into
// a room manager, then idles until shutdown while the janitor sweeps
// expired sessions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"game-room-server/internal/config"
	"game-room-server/internal/game"
	"game-room-server/internal/game/chess"
	"game-room-server/internal/game/lands"
	"game-room-server/internal/game/mafia"
	"game-room-server/internal/game/tictactoe"
	"game-room-server/internal/game/ultimate"
	"game-room-server/internal/pkg/db"
	"game-room-server/internal/room"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := game.NewRegistry()
	registerEngines(registry, cfg)

	log.Info().
		Int("engine_count", registry.Count()).
		Strs("kinds", registry.Kinds()).
		Msg("Game engines registered")

	store, pool, err := newStore(ctx, cfg, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	if pool != nil {
		defer pool.Close()
		go monitorPool(ctx, pool)
	}

	manager := room.NewManager(registry, store, &cfg.Room)
	go manager.RunJanitor(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Str("storage", cfg.Room.Storage).Msg("Game room server is running")

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	cancel()
	log.Info().Msg("Server stopped gracefully")
}

// registerEngines registers every supported game kind. A non-zero seed
// makes engine randomness reproducible; zero selects time-based seeding.
func registerEngines(registry *game.Registry, cfg *config.Config) {
	var rng game.RNG
	if cfg.Games.Seed != 0 {
		rng = game.NewRNG(cfg.Games.Seed)
	}

	engines := []game.Engine{
		tictactoe.New(),
		ultimate.New(),
		chess.New(nil),
		mafia.New(&mafia.Config{RNG: rng}),
		lands.New(&lands.Config{RNG: rng}),
	}
	for _, e := range engines {
		if err := registry.Register(e); err != nil {
			log.Fatal().Err(err).Str("kind", e.Kind()).Msg("Failed to register game engine")
		}
	}
}

// newStore builds the configured session store. The returned pool is
// nil for the in-memory store.
func newStore(ctx context.Context, cfg *config.Config, registry *game.Registry) (room.Store, *db.Pool, error) {
	if cfg.Room.Storage != "postgres" {
		return room.NewMemoryStore(), nil, nil
	}

	pool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	store := room.NewPGStore(pool, registry)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool, nil
}

// monitorPool periodically health-checks the database and reports pool
// statistics until the context is cancelled.
func monitorPool(ctx context.Context, pool *db.Pool) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pool.HealthCheck(ctx); err != nil {
				log.Error().Err(err).Msg("Database health check failed")
				continue
			}
			stats := pool.Stats()
			log.Debug().
				Int32("total_conns", stats.TotalConns()).
				Int32("idle_conns", stats.IdleConns()).
				Int32("acquired_conns", stats.AcquiredConns()).
				Msg("Database pool healthy")
		}
	}
}
