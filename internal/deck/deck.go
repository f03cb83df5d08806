package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned by Draw when no cards remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an ordered sequence of unique cards. A fresh deck holds all 52;
// cards are removed as they are drawn.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a new standard 52-card deck. The supplied RNG drives Shuffle;
// callers that need reproducible deals pass a seeded RNG.
func New(rng *rand.Rand) *Deck {
	return &Deck{cards: All(), rng: rng}
}

// NewPartial creates a deck with the excluded cards removed, for dealing
// completions of a partially known table.
func NewPartial(rng *rand.Rand, excluded ...Card) *Deck {
	skip := NewCardSet(excluded)
	cards := make([]Card, 0, 52-len(excluded))
	for _, c := range All() {
		if !skip.Contains(c) {
			cards = append(cards, c)
		}
	}
	return &Deck{cards: cards, rng: rng}
}

// All returns the 52 distinct cards of a standard deck in a fixed order.
func All() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card from the deck.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN draws n cards from the deck, failing without side effects if fewer
// than n remain.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
