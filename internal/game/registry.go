package game

import (
	"fmt"
	"sync"
)

// Registry maps a game-kind tag to its engine instance. It is stateless
// beyond that mapping: engines hold no per-game data, so one registry
// serves the whole process.
type Registry struct {
	engines map[string]Engine
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]Engine),
	}
}

// Register adds an engine to the registry. An engine with the same kind
// tag replaces the previous one.
func (r *Registry) Register(e Engine) error {
	if e == nil {
		return fmt.Errorf("cannot register nil engine")
	}
	if e.Kind() == "" {
		return fmt.Errorf("engine kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[e.Kind()] = e
	return nil
}

// Get retrieves an engine by its kind tag.
// Returns the engine and true if found, nil and false otherwise.
func (r *Registry) Get(kind string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[kind]
	return e, ok
}

// Kinds returns all registered game-kind tags.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.engines))
	for kind := range r.engines {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Count returns the number of registered engines.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}

// Unregister removes an engine by its kind tag.
// Returns true if the engine was found and removed, false otherwise.
func (r *Registry) Unregister(kind string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[kind]; ok {
		delete(r.engines, kind)
		return true
	}
	return false
}
