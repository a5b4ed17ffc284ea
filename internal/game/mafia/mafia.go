package mafia

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"game-room-server/internal/game"
)

// Kind is the game-kind tag for Mafia.
const Kind = "mafia"

// Action type tags. Night submissions are tagged with the submitter's
// role; the day cycle uses "vote" and "continue".
const (
	ActionMafia    = string(RoleMafia)
	ActionDoctor   = string(RoleDoctor)
	ActionVote     = "vote"
	ActionContinue = "continue"
)

// MinPlayers is the smallest legal game: one mafia, one doctor, one
// villager.
const MinPlayers = 3

// Action is a single Mafia submission. TargetID names an alive player
// for night actions and votes and is empty for continue.
type Action struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id,omitempty"`
}

func (a Action) ActionType() string { return a.Type }

// Config holds Mafia engine configuration.
type Config struct {
	// RNG drives the role shuffle at initialization. Defaults to a
	// time-seeded source.
	RNG game.RNG
}

// Engine implements the game contract for Mafia.
type Engine struct {
	rng game.RNG
}

// New creates a Mafia engine.
func New(cfg *Config) *Engine {
	rng := game.NewTimeRNG()
	if cfg != nil && cfg.RNG != nil {
		rng = cfg.RNG
	}
	return &Engine{rng: rng}
}

// Kind returns the game-kind tag.
func (e *Engine) Kind() string { return Kind }

// Initialize deals exactly one mafia and one doctor among the players,
// villagers for the rest, and opens the first night.
func (e *Engine) Initialize(playerIDs []string) (game.State, error) {
	if len(playerIDs) < MinPlayers {
		return nil, fmt.Errorf("%w: mafia requires at least %d players, got %d",
			game.ErrInvalidPlayerCount, MinPlayers, len(playerIDs))
	}

	roles := make([]Role, 0, len(playerIDs))
	roles = append(roles, RoleMafia, RoleDoctor)
	for i := 2; i < len(playerIDs); i++ {
		roles = append(roles, RoleVillager)
	}
	e.rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	st := &State{
		ID:           uuid.NewString(),
		PlayerIDs:    append([]string(nil), playerIDs...),
		Turn:         1,
		Phase:        game.NewPhase(PhaseNight, PhaseDayVote, PhaseDayResult),
		Roster:       make([]Player, 0, len(playerIDs)),
		NightActions: make(map[string]NightAction),
		Votes:        make(map[string]string),
		Private:      make(map[string]*PrivateState, len(playerIDs)),
	}
	for i, pid := range playerIDs {
		st.Roster = append(st.Roster, Player{ID: pid, Alive: true})
		st.Private[pid] = &PrivateState{Role: roles[i]}
	}
	return st, nil
}

// DecodeState parses a JSON state document.
func (e *Engine) DecodeState(data []byte) (game.State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode mafia state: %w", err)
	}
	return &st, nil
}

// DecodeAction parses a JSON action document.
func (e *Engine) DecodeAction(data []byte) (game.Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode mafia action: %w", err)
	}
	switch a.Type {
	case ActionMafia, ActionDoctor, ActionVote, ActionContinue:
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownActionType, a.Type)
	}
}

// EnumerateActions lists every action ApplyAction would accept for the
// player right now.
func (e *Engine) EnumerateActions(st game.State, playerID string) []game.Action {
	ms, ok := st.(*State)
	if !ok {
		return nil
	}

	var out []game.Action
	player := ms.player(playerID)
	if ms.Finished || player == nil || !player.Alive {
		return out
	}

	switch ms.Phase.Current {
	case PhaseNight:
		role := ms.roleOf(playerID)
		if role != RoleMafia && role != RoleDoctor {
			return out
		}
		if _, acted := ms.NightActions[playerID]; acted {
			return out
		}
		for _, target := range ms.Roster {
			if target.Alive {
				out = append(out, Action{Type: string(role), TargetID: target.ID})
			}
		}
	case PhaseDayVote:
		if _, voted := ms.Votes[playerID]; voted {
			return out
		}
		for _, target := range ms.Roster {
			if target.Alive {
				out = append(out, Action{Type: ActionVote, TargetID: target.ID})
			}
		}
	case PhaseDayResult:
		// Policy: any single alive player advances the day.
		out = append(out, Action{Type: ActionContinue})
	}
	return out
}

// ValidateAction reports whether the action would be accepted; it is
// equivalent to membership in EnumerateActions.
func (e *Engine) ValidateAction(st game.State, playerID string, a game.Action) error {
	ms, ok := st.(*State)
	if !ok {
		return game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return game.ErrUnknownActionType
	}
	return e.validate(ms, playerID, act)
}

func (e *Engine) validate(st *State, playerID string, a Action) error {
	switch a.Type {
	case ActionMafia, ActionDoctor, ActionVote, ActionContinue:
	default:
		return fmt.Errorf("%w: %q", game.ErrUnknownActionType, a.Type)
	}
	if st.Finished {
		return game.ErrGameAlreadyFinished
	}
	player := st.player(playerID)
	if player == nil || !player.Alive {
		return fmt.Errorf("%w: player %q is not in the game or not alive", game.ErrNotPlayersTurn, playerID)
	}

	switch st.Phase.Current {
	case PhaseNight:
		role := st.roleOf(playerID)
		if role != RoleMafia && role != RoleDoctor {
			return fmt.Errorf("%w: role %s has no night action", game.ErrActionNotAllowedInPhase, role)
		}
		if a.Type != string(role) {
			return fmt.Errorf("%w: role %s cannot submit %q", game.ErrActionNotAllowedInPhase, role, a.Type)
		}
		if _, acted := st.NightActions[playerID]; acted {
			return fmt.Errorf("%w: already acted this night", game.ErrNotPlayersTurn)
		}
		return validateTarget(st, a.TargetID)

	case PhaseDayVote:
		if a.Type != ActionVote {
			return game.ErrActionNotAllowedInPhase
		}
		if _, voted := st.Votes[playerID]; voted {
			return fmt.Errorf("%w: already voted", game.ErrNotPlayersTurn)
		}
		return validateTarget(st, a.TargetID)

	case PhaseDayResult:
		if a.Type != ActionContinue {
			return game.ErrActionNotAllowedInPhase
		}
		if a.TargetID != "" {
			return fmt.Errorf("%w: continue takes no target", game.ErrIllegalTarget)
		}
		return nil
	}
	return game.ErrActionNotAllowedInPhase
}

func validateTarget(st *State, targetID string) error {
	target := st.player(targetID)
	if target == nil || !target.Alive {
		return fmt.Errorf("%w: %q is not an alive player", game.ErrIllegalTarget, targetID)
	}
	return nil
}

// ApplyAction records one submission and, when it completes the current
// barrier, resolves the night or the vote. Waiting is a logical join on
// the buffered maps, never an in-process wait.
func (e *Engine) ApplyAction(st game.State, playerID string, a game.Action) (game.State, error) {
	ms, ok := st.(*State)
	if !ok {
		return nil, game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return nil, game.ErrUnknownActionType
	}
	if err := e.validate(ms, playerID, act); err != nil {
		return nil, err
	}

	next := ms.clone()
	switch next.Phase.Current {
	case PhaseNight:
		next.NightActions[playerID] = NightAction{
			Role:     Role(act.Type),
			TargetID: act.TargetID,
		}
		if len(next.NightActions) == next.aliveCount(isNightActor) {
			resolveNight(next)
			checkWinner(next)
		}
	case PhaseDayVote:
		next.Votes[playerID] = act.TargetID
		if len(next.Votes) == next.aliveCount(func(Role) bool { return true }) {
			resolveVotes(next)
			checkWinner(next)
		}
	case PhaseDayResult:
		next.Phase = next.Phase.Next()
		next.Turn++
	}
	return next, nil
}

func isNightActor(r Role) bool {
	return r == RoleMafia || r == RoleDoctor
}

// resolveNight applies the buffered night actions: the mafia's target
// dies unless it equals the doctor's save target. A save always prevents
// the death, including a doctor self-save and a save of the mafia's own
// pick.
func resolveNight(st *State) {
	var mafiaTarget, doctorSave string
	for _, action := range st.NightActions {
		switch action.Role {
		case RoleMafia:
			mafiaTarget = action.TargetID
		case RoleDoctor:
			doctorSave = action.TargetID
		}
	}

	if mafiaTarget != "" && mafiaTarget != doctorSave {
		if victim := st.player(mafiaTarget); victim != nil {
			victim.Alive = false
		}
	}

	st.NightActions = make(map[string]NightAction)
	st.Phase = st.Phase.Next()
	st.Turn++
}

// resolveVotes tallies the buffered votes. A strict unique plurality
// eliminates that player; an exact tie among the maximum eliminates no
// one.
func resolveVotes(st *State) {
	tally := make(map[string]int, len(st.Votes))
	for _, targetID := range st.Votes {
		tally[targetID]++
	}

	maxVotes, leaders := 0, 0
	var top string
	for targetID, count := range tally {
		switch {
		case count > maxVotes:
			maxVotes, leaders, top = count, 1, targetID
		case count == maxVotes:
			leaders++
		}
	}
	if leaders == 1 {
		if eliminated := st.player(top); eliminated != nil {
			eliminated.Alive = false
		}
	}

	st.Votes = make(map[string]string)
	st.Phase = st.Phase.Next()
	st.Turn++
}

// checkWinner runs after every night and vote resolution: villagers win
// when no mafia remains; mafia wins when it is at least as numerous as
// everyone else still alive.
func checkWinner(st *State) {
	mafiaAlive := st.aliveCount(func(r Role) bool { return r == RoleMafia })
	othersAlive := st.aliveCount(func(r Role) bool { return r != RoleMafia })

	switch {
	case mafiaAlive == 0:
		st.setWinner(WinnerVillagers)
	case mafiaAlive >= othersAlive:
		st.setWinner(WinnerMafia)
	}
}
