// Package lands implements the Lands card game: a two-player duel of
// energy cards with hidden hands, a reactive counter window and
// multi-step targeted effects resolved through a deferred pipeline.
package lands

// Card identifies one of the five energy card types.
type Card int

// The five card types. Their integer values index every count vector
// (hand, board, discard) and appear as-is in serialized state.
const (
	Grass Card = iota
	Lightning
	Fire
	Darkness
	Water
)

// NumCards is the number of distinct card types.
const NumCards = 5

// PerTypeCount is how many copies of each type a player's deck starts
// with. Across hand, board, discard and deck each player always holds
// exactly this many of every type (the conservation law).
const PerTypeCount = 5

var cardNames = [NumCards]string{"grass", "lightning", "fire", "darkness", "water"}

func (c Card) String() string {
	if c < 0 || int(c) >= NumCards {
		return "unknown"
	}
	return cardNames[c]
}

// Pile is a count vector indexed by Card: Pile[Fire] is the number of
// fire cards in the zone.
type Pile []int

// NewPile returns an empty count vector.
func NewPile() Pile {
	return make(Pile, NumCards)
}

// Total returns the number of cards in the pile.
func (p Pile) Total() int {
	n := 0
	for _, c := range p {
		n += c
	}
	return n
}

// Positive returns the card type indices with a nonzero count, ascending.
func (p Pile) Positive() []int {
	var out []int
	for i, c := range p {
		if c > 0 {
			out = append(out, i)
		}
	}
	return out
}

func (p Pile) clone() Pile {
	out := make(Pile, len(p))
	copy(out, p)
	return out
}
