package lands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"game-room-server/internal/game"
)

// Kind is the game-kind tag for Lands.
const Kind = "lands"

// Action type tags.
const (
	ActionPlayEnergy   = "PLAY_ENERGY"
	ActionCounter      = "COUNTER"
	ActionChooseTarget = "CHOOSE_TARGET"
	ActionResign       = "RESIGN"
)

// COUNTER targets.
const (
	CounterDecline = 0
	CounterDeclare = 1
)

// CHOOSE_TARGET targets for a resolving water card.
const (
	WaterKeepOnTop    = 0
	WaterMoveToBottom = 1
)

// Action is a single Lands move. Target is the card type for
// PLAY_ENERGY, 0/1 for COUNTER, a member of the current selection for
// CHOOSE_TARGET, and unused for RESIGN.
type Action struct {
	Type   string `json:"type"`
	Target int    `json:"target"`
}

func (a Action) ActionType() string { return a.Type }

// Config holds Lands engine configuration.
type Config struct {
	// RNG drives deck shuffles, reshuffles and darkness sampling.
	// Defaults to a time-seeded source.
	RNG game.RNG
}

// Engine implements the game contract for Lands. It holds no per-game
// state; one instance serves any number of games.
type Engine struct {
	rng game.RNG
}

// New creates a Lands engine.
func New(cfg *Config) *Engine {
	rng := game.NewTimeRNG()
	if cfg != nil && cfg.RNG != nil {
		rng = cfg.RNG
	}
	return &Engine{rng: rng}
}

// Kind returns the game-kind tag.
func (e *Engine) Kind() string { return Kind }

// Initialize deals both players a shuffled 25-card deck and an opening
// hand of five.
func (e *Engine) Initialize(playerIDs []string) (game.State, error) {
	if len(playerIDs) != 2 {
		return nil, fmt.Errorf("%w: lands requires exactly 2 players, got %d",
			game.ErrInvalidPlayerCount, len(playerIDs))
	}

	st := &State{
		ID:        uuid.NewString(),
		PlayerIDs: append([]string(nil), playerIDs...),
		Turn:      1,
		Phase:     game.NewPhase(PhaseMain, PhaseCounter, PhaseChooseTarget),
		Boards:    make(map[string]Pile, 2),
		Discards:  make(map[string]Pile, 2),
		Private:   make(map[string]*PrivateState, 2),
	}
	for _, pid := range playerIDs {
		st.Boards[pid] = NewPile()
		st.Discards[pid] = NewPile()
		st.Private[pid] = &PrivateState{
			Hand: NewPile(),
			Deck: e.newDeck(),
		}
		e.draw(st, pid, 5)
	}
	return st, nil
}

// DecodeState parses a JSON state document.
func (e *Engine) DecodeState(data []byte) (game.State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode lands state: %w", err)
	}
	return &st, nil
}

// DecodeAction parses a JSON action document.
func (e *Engine) DecodeAction(data []byte) (game.Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode lands action: %w", err)
	}
	switch a.Type {
	case ActionPlayEnergy, ActionCounter, ActionChooseTarget, ActionResign:
		return a, nil
	default:
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownActionType, a.Type)
	}
}

// EnumerateActions lists every action ApplyAction would accept for the
// player right now.
func (e *Engine) EnumerateActions(st game.State, playerID string) []game.Action {
	ls, ok := st.(*State)
	if !ok {
		return nil
	}

	var out []game.Action
	if ls.Finished || playerID != ls.currentPlayer() {
		return out
	}

	switch ls.Phase.Current {
	case PhaseMain:
		out = append(out, Action{Type: ActionResign})
		if ls.PendingCard == nil {
			hand := ls.Private[playerID].Hand
			for card, count := range hand {
				if count > 0 {
					out = append(out, Action{Type: ActionPlayEnergy, Target: card})
				}
			}
		}
	case PhaseCounter:
		if ls.PendingCard != nil {
			out = append(out, Action{Type: ActionCounter, Target: CounterDecline})
			if e.canCounter(ls, playerID) {
				out = append(out, Action{Type: ActionCounter, Target: CounterDeclare})
			}
		}
	case PhaseChooseTarget:
		if ls.PendingCard != nil {
			for _, target := range ls.Selection {
				out = append(out, Action{Type: ActionChooseTarget, Target: target})
			}
		}
	}
	return out
}

// ValidateAction reports whether the action would be accepted; it is
// equivalent to membership in EnumerateActions.
func (e *Engine) ValidateAction(st game.State, playerID string, a game.Action) error {
	ls, ok := st.(*State)
	if !ok {
		return game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return game.ErrUnknownActionType
	}
	return e.validate(ls, playerID, act)
}

func (e *Engine) validate(st *State, playerID string, a Action) error {
	switch a.Type {
	case ActionPlayEnergy, ActionCounter, ActionChooseTarget, ActionResign:
	default:
		return fmt.Errorf("%w: %q", game.ErrUnknownActionType, a.Type)
	}
	if st.Finished {
		return game.ErrGameAlreadyFinished
	}
	if playerID != st.currentPlayer() {
		return game.ErrNotPlayersTurn
	}

	switch st.Phase.Current {
	case PhaseMain:
		switch a.Type {
		case ActionResign:
			if a.Target != 0 {
				return fmt.Errorf("%w: resign takes no target", game.ErrIllegalTarget)
			}
			return nil
		case ActionPlayEnergy:
			if st.PendingCard != nil {
				return fmt.Errorf("%w: a card is already pending", game.ErrActionNotAllowedInPhase)
			}
			if a.Target < 0 || a.Target >= NumCards {
				return fmt.Errorf("%w: no such card type %d", game.ErrIllegalTarget, a.Target)
			}
			if st.Private[playerID].Hand[a.Target] == 0 {
				return fmt.Errorf("%w: card %s not in hand", game.ErrIllegalTarget, Card(a.Target))
			}
			return nil
		default:
			return game.ErrActionNotAllowedInPhase
		}

	case PhaseCounter:
		if a.Type != ActionCounter {
			return game.ErrActionNotAllowedInPhase
		}
		if st.PendingCard == nil {
			return game.ErrNoPendingEffect
		}
		switch a.Target {
		case CounterDecline:
			return nil
		case CounterDeclare:
			if !e.canCounter(st, playerID) {
				return fmt.Errorf("%w: not enough cards to counter", game.ErrIllegalTarget)
			}
			return nil
		default:
			return fmt.Errorf("%w: counter target must be 0 or 1", game.ErrIllegalTarget)
		}

	case PhaseChooseTarget:
		if a.Type != ActionChooseTarget {
			return game.ErrActionNotAllowedInPhase
		}
		if st.PendingCard == nil {
			return game.ErrNoPendingEffect
		}
		for _, target := range st.Selection {
			if target == a.Target {
				return nil
			}
		}
		return fmt.Errorf("%w: %d not in selection", game.ErrIllegalTarget, a.Target)
	}
	return game.ErrActionNotAllowedInPhase
}

// canCounter reports whether the player holds a water plus a copy of the
// pending card type (two waters when the pending card is itself water).
func (e *Engine) canCounter(st *State, playerID string) bool {
	pending := *st.PendingCard
	hand := st.Private[playerID].Hand
	if pending == Water {
		return hand[Water] >= 2
	}
	return hand[Water] >= 1 && hand[pending] >= 1
}

// ApplyAction re-validates, applies exactly one transition and returns a
// new snapshot. The input state is never mutated.
func (e *Engine) ApplyAction(st game.State, playerID string, a game.Action) (game.State, error) {
	ls, ok := st.(*State)
	if !ok {
		return nil, game.ErrStateKind
	}
	act, ok := a.(Action)
	if !ok {
		return nil, game.ErrUnknownActionType
	}
	if err := e.validate(ls, playerID, act); err != nil {
		return nil, err
	}

	next := ls.clone()
	switch act.Type {
	case ActionResign:
		next.setWinner(next.opponentOfActive())

	case ActionPlayEnergy:
		card := Card(act.Target)
		next.Private[playerID].Hand[card]--
		next.PendingCard = &card
		next.CurrentIndex = 1 - next.ActiveIndex
		next.Phase = next.Phase.Next()

	case ActionCounter:
		if act.Target == CounterDeclare {
			e.applyCounter(next, playerID)
		} else {
			e.resolvePending(next)
		}

	case ActionChooseTarget:
		e.applyTargetChoice(next, act.Target)
	}

	if err := checkConservation(next); err != nil {
		return nil, err
	}
	return next, nil
}

// applyCounter spends the countering player's water plus matching card
// into their own discard, sends the pending card to the active player's
// discard and ends the turn with no effect applied.
func (e *Engine) applyCounter(st *State, countererID string) {
	pending := *st.PendingCard

	hand := st.Private[countererID].Hand
	hand[Water]--
	st.Discards[countererID][Water]++
	hand[pending]--
	st.Discards[countererID][pending]++

	st.Discards[st.activePlayer()][pending]++
	st.PendingCard = nil

	e.endTurn(st)
}

// resolvePending moves the uncountered pending card to the active
// player's board and triggers its effect, entering CHOOSE_TARGET_PHASE
// when the effect needs a target and skipping to turn end otherwise.
func (e *Engine) resolvePending(st *State) {
	pending := *st.PendingCard
	active := st.activePlayer()
	opponent := st.opponentOfActive()

	st.Boards[active][pending]++
	if st.checkWin(active); st.Finished {
		st.PendingCard = nil
		st.Selection = nil
		return
	}

	switch pending {
	case Grass:
		e.enterTargetPhase(st, st.Discards[active].Positive())
	case Lightning:
		e.draw(st, active, 1)
		e.endTurn(st)
	case Fire:
		e.enterTargetPhase(st, st.Boards[opponent].Positive())
	case Darkness:
		sample := game.WeightedSample(e.rng, st.Private[opponent].Hand, 3)
		e.enterTargetPhase(st, distinct(sample))
	case Water:
		deck := st.Private[active].Deck
		if len(deck) == 0 {
			e.endTurn(st)
			return
		}
		top := deck[0]
		st.Private[active].TopCard = &top
		e.enterTargetPhase(st, []int{WaterKeepOnTop, WaterMoveToBottom})
	}
}

// enterTargetPhase hands control back to the active player with the
// given selection, or ends the turn when there is nothing to choose.
func (e *Engine) enterTargetPhase(st *State, selection []int) {
	if len(selection) == 0 {
		e.endTurn(st)
		return
	}
	st.Selection = selection
	st.CurrentIndex = st.ActiveIndex
	st.Phase = st.Phase.At(PhaseChooseTarget)
}

// applyTargetChoice applies the card-specific effect for the chosen
// target and ends the turn.
func (e *Engine) applyTargetChoice(st *State, target int) {
	pending := *st.PendingCard
	active := st.activePlayer()
	opponent := st.opponentOfActive()

	switch pending {
	case Grass:
		st.Discards[active][target]--
		st.Private[active].Hand[target]++
	case Fire:
		st.Boards[opponent][target]--
		st.Discards[opponent][target]++
	case Darkness:
		st.Private[opponent].Hand[target]--
		st.Discards[opponent][target]++
	case Water:
		deck := st.Private[active].Deck
		if target == WaterMoveToBottom && len(deck) > 0 {
			top := deck[0]
			st.Private[active].Deck = append(deck[1:], top)
		}
		st.Private[active].TopCard = nil
	}

	e.endTurn(st)
}

// endTurn runs the turn-close bookkeeping: win evaluation for the player
// whose turn is ending, then hand-over to the other player and their
// draw (skipped on the very first turn of the game).
func (e *Engine) endTurn(st *State) {
	st.PendingCard = nil
	st.Selection = nil
	for _, priv := range st.Private {
		priv.TopCard = nil
	}

	if st.checkWin(st.activePlayer()); st.Finished {
		return
	}

	st.ActiveIndex = 1 - st.ActiveIndex
	st.CurrentIndex = st.ActiveIndex
	st.Phase = st.Phase.At(PhaseMain)
	st.Turn++

	if st.Turn > 1 {
		e.draw(st, st.activePlayer(), 1)
	}
}

// checkWin marks playerID as winner when their board holds five of one
// type or at least one of every type.
func (st *State) checkWin(playerID string) {
	board := st.Boards[playerID]

	for _, count := range board {
		if count >= PerTypeCount {
			st.setWinner(playerID)
			return
		}
	}

	complete := true
	for _, count := range board {
		if count < 1 {
			complete = false
			break
		}
	}
	if complete {
		st.setWinner(playerID)
	}
}

// draw moves n cards from the front of the player's deck to their hand.
// An empty deck first absorbs the player's reshuffled discard pile; when
// both are empty the draw is silently skipped.
func (e *Engine) draw(st *State, playerID string, n int) {
	priv := st.Private[playerID]
	for i := 0; i < n; i++ {
		if len(priv.Deck) == 0 {
			e.reshuffleDiscard(st, playerID)
			if len(priv.Deck) == 0 {
				return
			}
		}
		card := priv.Deck[0]
		priv.Deck = priv.Deck[1:]
		priv.Hand[card]++
	}
}

// reshuffleDiscard shuffles the player's entire discard pile into their
// deck and clears the discard.
func (e *Engine) reshuffleDiscard(st *State, playerID string) {
	priv := st.Private[playerID]
	discard := st.Discards[playerID]

	for card, count := range discard {
		for i := 0; i < count; i++ {
			priv.Deck = append(priv.Deck, Card(card))
		}
		discard[card] = 0
	}
	e.rng.Shuffle(len(priv.Deck), func(i, j int) {
		priv.Deck[i], priv.Deck[j] = priv.Deck[j], priv.Deck[i]
	})
}

// newDeck builds a shuffled deck of five copies of each card type.
func (e *Engine) newDeck() []Card {
	deck := make([]Card, 0, NumCards*PerTypeCount)
	for c := 0; c < NumCards; c++ {
		for i := 0; i < PerTypeCount; i++ {
			deck = append(deck, Card(c))
		}
	}
	e.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// checkConservation verifies the conservation law: per player and card
// type, hand + board + discard + deck must equal the initial per-type
// deck count. A breach rejects the mutation outright.
func checkConservation(st *State) error {
	for _, pid := range st.PlayerIDs {
		var perType [NumCards]int
		for card, count := range st.Private[pid].Hand {
			perType[card] += count
		}
		for card, count := range st.Boards[pid] {
			perType[card] += count
		}
		for card, count := range st.Discards[pid] {
			perType[card] += count
		}
		for _, card := range st.Private[pid].Deck {
			perType[card]++
		}
		for card, total := range perType {
			if total != PerTypeCount {
				return fmt.Errorf("%w: player %s holds %d %s cards, expected %d",
					game.ErrStateCorrupted, pid, total, Card(card), PerTypeCount)
			}
		}
	}
	return nil
}

// distinct returns the sorted distinct values of a sample.
func distinct(values []int) []int {
	seen := make(map[int]bool, len(values))
	var out []int
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
