package lands

import (
	"game-room-server/internal/game"
)

// Phase names for the Lands turn cycle. A turn walks
// MAIN_PHASE -> COUNTER_PHASE -> CHOOSE_TARGET_PHASE and back to
// MAIN_PHASE for the next player; uncountered plays without targets and
// countered plays skip straight back to MAIN_PHASE.
const (
	PhaseMain         = "MAIN_PHASE"
	PhaseCounter      = "COUNTER_PHASE"
	PhaseChooseTarget = "CHOOSE_TARGET_PHASE"
)

// PrivateState is one player's hidden view: their hand, their deck order
// and, while a water effect is resolving, the revealed top card. The room
// layer strips every entry except the recipient's before broadcasting.
type PrivateState struct {
	Hand    Pile   `json:"hand"`
	Deck    []Card `json:"deck"`
	TopCard *Card  `json:"top_card,omitempty"`
}

func (p *PrivateState) clone() *PrivateState {
	out := &PrivateState{
		Hand: p.Hand.clone(),
		Deck: make([]Card, len(p.Deck)),
	}
	copy(out.Deck, p.Deck)
	if p.TopCard != nil {
		c := *p.TopCard
		out.TopCard = &c
	}
	return out
}

// State is a full Lands snapshot.
type State struct {
	ID        string     `json:"game_id"`
	PlayerIDs []string   `json:"player_ids"`
	Turn      int        `json:"turn"`
	Finished  bool       `json:"finished"`
	Phase     game.Phase `json:"phase"`

	Boards   map[string]Pile `json:"boards"`
	Discards map[string]Pile `json:"discards"`

	Winner string `json:"winner,omitempty"`

	// ActiveIndex is the player whose turn it is; CurrentIndex is the
	// player who must act now. They differ only during COUNTER_PHASE.
	ActiveIndex  int `json:"active_index"`
	CurrentIndex int `json:"current_index"`

	// PendingCard holds a played-but-unresolved card; at most one exists
	// at any time, owned by the active player's turn.
	PendingCard *Card `json:"pending_card,omitempty"`

	// Selection is the set of legal target values while in
	// CHOOSE_TARGET_PHASE; cleared once consumed.
	Selection []int `json:"selection,omitempty"`

	Private map[string]*PrivateState `json:"private,omitempty"`
}

func (s *State) GameID() string    { return s.ID }
func (s *State) Players() []string { return s.PlayerIDs }
func (s *State) TurnNumber() int   { return s.Turn }
func (s *State) IsFinished() bool  { return s.Finished }

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
		Boards:       make(map[string]Pile, len(s.Boards)),
		Discards:     make(map[string]Pile, len(s.Discards)),
		Winner:       s.Winner,
		ActiveIndex:  s.ActiveIndex,
		CurrentIndex: s.CurrentIndex,
		Private:      make(map[string]*PrivateState, len(s.Private)),
	}
	for pid, b := range s.Boards {
		c.Boards[pid] = b.clone()
	}
	for pid, d := range s.Discards {
		c.Discards[pid] = d.clone()
	}
	for pid, p := range s.Private {
		c.Private[pid] = p.clone()
	}
	if s.PendingCard != nil {
		card := *s.PendingCard
		c.PendingCard = &card
	}
	if s.Selection != nil {
		c.Selection = append([]int(nil), s.Selection...)
	}
	return c
}

// activePlayer returns the id of the player whose turn it is.
func (s *State) activePlayer() string {
	return s.PlayerIDs[s.ActiveIndex]
}

// opponentOfActive returns the other player's id.
func (s *State) opponentOfActive() string {
	return s.PlayerIDs[1-s.ActiveIndex]
}

// currentPlayer returns the id of the player who must act now.
func (s *State) currentPlayer() string {
	return s.PlayerIDs[s.CurrentIndex]
}

// setWinner records the winner. Winner and Finished are only ever set
// together, through this method.
func (s *State) setWinner(playerID string) {
	s.Winner = playerID
	s.Finished = true
}
