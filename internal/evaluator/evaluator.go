package evaluator

import (
	"fmt"
	"sort"

	"github.com/tablestakes/holdem/internal/deck"
)

// InvalidHandError is returned when the input cards cannot form a valid
// five-card hand.
type InvalidHandError struct {
	Reason string
}

func (e *InvalidHandError) Error() string {
	return fmt.Sprintf("invalid hand: %s", e.Reason)
}

// Evaluate finds the best five-card hand among the given cards. It accepts
// any number of cards from five to nine (two hole cards plus up to five
// community cards plus dead variations) and exhaustively checks every
// five-card subset.
func Evaluate(cards []deck.Card) (Hand, error) {
	if len(cards) < 5 {
		return Hand{}, &InvalidHandError{Reason: fmt.Sprintf("need at least 5 cards, got %d", len(cards))}
	}

	seen := deck.CardSet(0)
	for _, c := range cards {
		if seen.Contains(c) {
			return Hand{}, &InvalidHandError{Reason: fmt.Sprintf("duplicate card %s", c)}
		}
		seen.Add(c)
	}

	var best Hand
	first := true
	combin5(cards, func(subset [5]deck.Card) {
		hand := classify5(subset)
		if first || hand.Compare(best) > 0 {
			best = hand
			first = false
		}
	})

	return best, nil
}

// combin5 calls fn for every five-card subset of cards.
func combin5(cards []deck.Card, fn func([5]deck.Card)) {
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						fn([5]deck.Card{cards[a], cards[b], cards[c], cards[d], cards[e]})
					}
				}
			}
		}
	}
}

// classify5 determines the category and tiebreak ranks of exactly five cards.
func classify5(cards [5]deck.Card) Hand {
	sorted := cards
	sort.Slice(sorted[:], func(i, j int) bool { return sorted[i].Rank > sorted[j].Rank })

	flush := true
	for i := 1; i < 5; i++ {
		if sorted[i].Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	straightHigh, isStraight := straightHighRank(sorted)

	if isStraight && flush {
		return Hand{Cards: sorted, Category: StraightFlush, Tiebreaks: []deck.Rank{straightHigh}}
	}

	// Group ranks by multiplicity, then by rank, both descending. The
	// grouped order is exactly the tiebreak order for every paired category.
	type group struct {
		rank  deck.Rank
		count int
	}
	counts := make(map[deck.Rank]int, 5)
	for _, c := range sorted {
		counts[c.Rank]++
	}
	groups := make([]group, 0, 5)
	for rank, count := range counts {
		groups = append(groups, group{rank, count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	tiebreaks := make([]deck.Rank, len(groups))
	for i, g := range groups {
		tiebreaks[i] = g.rank
	}

	var category Category
	switch {
	case groups[0].count == 4:
		category = FourOfAKind
	case groups[0].count == 3 && groups[1].count == 2:
		category = FullHouse
	case flush:
		category = Flush
	case isStraight:
		category = Straight
		tiebreaks = []deck.Rank{straightHigh}
	case groups[0].count == 3:
		category = ThreeOfAKind
	case groups[0].count == 2 && groups[1].count == 2:
		category = TwoPair
	case groups[0].count == 2:
		category = OnePair
	default:
		category = HighCard
	}

	return Hand{Cards: sorted, Category: category, Tiebreaks: tiebreaks}
}

// straightHighRank reports whether five rank-descending cards form a
// straight, and the rank of its high card. The wheel (A-5-4-3-2) counts as a
// five-high straight.
func straightHighRank(sorted [5]deck.Card) (deck.Rank, bool) {
	run := true
	for i := 1; i < 5; i++ {
		if sorted[i-1].Rank != sorted[i].Rank+1 {
			run = false
			break
		}
	}
	if run {
		return sorted[0].Rank, true
	}

	if sorted[0].Rank == deck.Ace &&
		sorted[1].Rank == deck.Five &&
		sorted[2].Rank == deck.Four &&
		sorted[3].Rank == deck.Three &&
		sorted[4].Rank == deck.Two {
		return deck.Five, true
	}

	return 0, false
}
