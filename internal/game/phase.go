package game

import "github.com/rs/zerolog/log"

// Phase is a named-state cursor over a fixed cyclic ordering of phase
// names. Every game variant carries one; the current phase gates which
// action types are legal.
type Phase struct {
	Current   string   `json:"current"`
	Available []string `json:"available"`
}

// NewPhase returns a cursor positioned at the first of the given phases.
// The list must be non-empty and is fixed for the life of the game.
func NewPhase(available ...string) Phase {
	return Phase{Current: available[0], Available: available}
}

// Next returns a new cursor advanced cyclically. If Current is not found
// in Available (corrupted state) the cursor recovers by resetting to the
// first phase; this is a logged anomaly, not a crash.
func (p Phase) Next() Phase {
	for i, name := range p.Available {
		if name == p.Current {
			return Phase{
				Current:   p.Available[(i+1)%len(p.Available)],
				Available: p.Available,
			}
		}
	}
	log.Warn().
		Str("current", p.Current).
		Strs("available", p.Available).
		Msg("phase cursor not in available phases, resetting to first")
	return Phase{Current: p.Available[0], Available: p.Available}
}

// At returns a copy of the cursor repositioned at the named phase. The
// name must be one of Available.
func (p Phase) At(name string) Phase {
	return Phase{Current: name, Available: p.Available}
}

// Is reports whether the cursor is at the named phase.
func (p Phase) Is(name string) bool {
	return p.Current == name
}

// Clone returns a copy with its own backing array.
func (p Phase) Clone() Phase {
	avail := make([]string, len(p.Available))
	copy(avail, p.Available)
	return Phase{Current: p.Current, Available: avail}
}
