package mafia

import (
	"testing"

	"pgregory.net/rapid"

	"game-room-server/internal/game"
)

// TestEnumerateValidateEquivalenceProperty drives random games and checks
// both directions of the contract invariant for every player at every
// step.
func TestEnumerateValidateEquivalenceProperty(t *testing.T) {
	types := []string{ActionMafia, ActionDoctor, ActionVote, ActionContinue}

	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		n := rapid.IntRange(3, 7).Draw(t, "players")

		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		e := New(&Config{RNG: game.NewRNG(seed)})
		st, err := e.Initialize(ids)
		if err != nil {
			t.Fatalf("initialize: %v", err)
		}
		ms := st.(*State)

		steps := rapid.IntRange(0, 40).Draw(t, "steps")
		for i := 0; i < steps && !ms.Finished; i++ {
			for _, pid := range ms.PlayerIDs {
				enumerated := e.EnumerateActions(ms, pid)
				for _, a := range enumerated {
					if err := e.ValidateAction(ms, pid, a); err != nil {
						t.Fatalf("enumerated action %+v rejected for %s: %v", a, pid, err)
					}
				}

				target := ""
				if rapid.Bool().Draw(t, "withTarget") {
					target = ids[rapid.IntRange(0, n-1).Draw(t, "target")]
				}
				probe := Action{
					Type:     types[rapid.IntRange(0, len(types)-1).Draw(t, "type")],
					TargetID: target,
				}
				err := e.ValidateAction(ms, pid, probe)
				if (err == nil) != actionIn(enumerated, probe) {
					t.Fatalf("validate(%+v)=%v disagrees with enumeration for %s", probe, err, pid)
				}
			}

			// Advance with a random legal action from a random eligible
			// player.
			var actors []string
			for _, pid := range ms.PlayerIDs {
				if len(e.EnumerateActions(ms, pid)) > 0 {
					actors = append(actors, pid)
				}
			}
			if len(actors) == 0 {
				t.Fatal("live game with no eligible actors")
			}
			actor := actors[rapid.IntRange(0, len(actors)-1).Draw(t, "actor")]
			actions := e.EnumerateActions(ms, actor)
			pick := rapid.IntRange(0, len(actions)-1).Draw(t, "pick")
			next, err := e.ApplyAction(ms, actor, actions[pick])
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			ms = next.(*State)
		}

		if ms.Finished && ms.Winner != WinnerMafia && ms.Winner != WinnerVillagers {
			t.Fatalf("finished with invalid winner %q", ms.Winner)
		}
	})
}

func actionIn(actions []game.Action, a Action) bool {
	for _, candidate := range actions {
		if candidate == game.Action(a) {
			return true
		}
	}
	return false
}
