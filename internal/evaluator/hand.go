package evaluator

import (
	"fmt"
	"strings"

	"github.com/tablestakes/holdem/internal/deck"
)

// Category represents the ranking class of a poker hand
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the string representation of a hand category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Hand is an evaluated five-card poker hand. Tiebreaks holds the ranks that
// decide ties within the same category, most significant first. Suits never
// participate in comparison.
type Hand struct {
	Cards     [5]deck.Card
	Category  Category
	Tiebreaks []deck.Rank
}

// String returns a string representation of the hand
func (h Hand) String() string {
	var cardStrs []string
	for _, card := range h.Cards {
		cardStrs = append(cardStrs, card.String())
	}
	return fmt.Sprintf("%s [%s]", h.Category, strings.Join(cardStrs, " "))
}

// Compare compares two hands and returns:
// -1 if h1 is weaker than h2
//  0 if h1 equals h2
//  1 if h1 is stronger than h2
func (h1 Hand) Compare(h2 Hand) int {
	if h1.Category < h2.Category {
		return -1
	}
	if h1.Category > h2.Category {
		return 1
	}

	// Same category, compare tiebreaks lexicographically
	for i := 0; i < len(h1.Tiebreaks) && i < len(h2.Tiebreaks); i++ {
		if h1.Tiebreaks[i] < h2.Tiebreaks[i] {
			return -1
		}
		if h1.Tiebreaks[i] > h2.Tiebreaks[i] {
			return 1
		}
	}

	return 0
}

// IsStrongerThan returns true if this hand beats the other hand
func (h1 Hand) IsStrongerThan(h2 Hand) bool {
	return h1.Compare(h2) > 0
}

// Equals returns true if both hands are equal in strength
func (h1 Hand) Equals(h2 Hand) bool {
	return h1.Compare(h2) == 0
}
