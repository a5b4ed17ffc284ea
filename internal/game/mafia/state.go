// Package mafia implements the Mafia social-deduction game: hidden role
// assignment, a night/day phase cycle whose "waiting" is pure data, and
// barrier resolution once every eligible participant has acted.
package mafia

import (
	"game-room-server/internal/game"
)

// Phase names for the Mafia cycle.
const (
	PhaseNight     = "NIGHT"
	PhaseDayVote   = "DAY_VOTE"
	PhaseDayResult = "DAY_RESULT"
)

// Role is a player's secret role.
type Role string

const (
	RoleMafia    Role = "mafia"
	RoleDoctor   Role = "doctor"
	RoleVillager Role = "villager"
)

// Faction winner tags.
const (
	WinnerVillagers = "villagers"
	WinnerMafia     = "mafia"
)

// Player is the public roster view of a participant: identity and
// liveness.
// Roles live in the private state so the room layer can redact them
// structurally.
type Player struct {
	ID    string `json:"id"`
	Alive bool   `json:"alive"`
}

// PrivateState is one player's hidden view: their own role.
type PrivateState struct {
	Role Role `json:"role"`
}

// NightAction is a buffered night submission.
type NightAction struct {
	Role     Role   `json:"role"`
	TargetID string `json:"target_id"`
}

// State is a full Mafia snapshot. The night and vote barriers are
// represented entirely as data: partial NightActions/Votes maps that
// resolve on the applyAction call completing them.
type State struct {
	ID        string     `json:"game_id"`
	PlayerIDs []string   `json:"player_ids"`
	Turn      int        `json:"turn"`
	Finished  bool       `json:"finished"`
	Phase     game.Phase `json:"phase"`

	Roster []Player `json:"players"`

	// NightActions buffers one submission per alive mafia/doctor, keyed
	// by submitter; cleared when the night resolves.
	NightActions map[string]NightAction `json:"night_actions,omitempty"`

	// Votes maps voter id to target id; cleared when the vote resolves.
	Votes map[string]string `json:"votes,omitempty"`

	// Winner is "villagers" or "mafia" once the game ends.
	Winner string `json:"winner,omitempty"`

	Private map[string]*PrivateState `json:"private,omitempty"`
}

func (s *State) GameID() string    { return s.ID }
func (s *State) Players() []string { return s.PlayerIDs }
func (s *State) TurnNumber() int   { return s.Turn }
func (s *State) IsFinished() bool { return s.Finished }

// View returns a copy with every private entry except viewerID's removed.
func (s *State) View(viewerID string) game.State {
	c := s.clone()
	for pid := range c.Private {
		if pid != viewerID {
			delete(c.Private, pid)
		}
	}
	return c
}

// Clone returns a deep copy.
func (s *State) Clone() game.State { return s.clone() }

func (s *State) clone() *State {
	c := &State{
		ID:           s.ID,
		PlayerIDs:    append([]string(nil), s.PlayerIDs...),
		Turn:         s.Turn,
		Finished:     s.Finished,
		Phase:        s.Phase.Clone(),
		Roster:       append([]Player(nil), s.Roster...),
		NightActions: make(map[string]NightAction, len(s.NightActions)),
		Votes:        make(map[string]string, len(s.Votes)),
		Winner:       s.Winner,
		Private:      make(map[string]*PrivateState, len(s.Private)),
	}
	for pid, a := range s.NightActions {
		c.NightActions[pid] = a
	}
	for pid, target := range s.Votes {
		c.Votes[pid] = target
	}
	for pid, p := range s.Private {
		priv := *p
		c.Private[pid] = &priv
	}
	return c
}

// player returns the public entry for the id, or nil.
func (s *State) player(playerID string) *Player {
	for i := range s.Roster {
		if s.Roster[i].ID == playerID {
			return &s.Roster[i]
		}
	}
	return nil
}

// roleOf returns the player's secret role, or "" for unknown players.
func (s *State) roleOf(playerID string) Role {
	if priv, ok := s.Private[playerID]; ok {
		return priv.Role
	}
	return ""
}

// aliveCount returns how many players matching the filter are alive.
func (s *State) aliveCount(match func(Role) bool) int {
	n := 0
	for _, p := range s.Roster {
		if p.Alive && match(s.roleOf(p.ID)) {
			n++
		}
	}
	return n
}

func (s *State) setWinner(faction string) {
	s.Winner = faction
	s.Finished = true
}
