package evaluator

import (
	"errors"
	"testing"

	"github.com/tablestakes/holdem/internal/deck"
)

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name     string
		cards    string // Card notation like "AsKsQsJsTs9h8h"
		expected Category
	}{
		{
			name:     "Royal Flush",
			cards:    "AsKsQsJsTs9h8h",
			expected: StraightFlush,
		},
		{
			name:     "Straight Flush",
			cards:    "9s8s7s6s5s4h3h",
			expected: StraightFlush,
		},
		{
			name:     "Wheel Straight Flush",
			cards:    "As5s4s3s2s9h8h",
			expected: StraightFlush,
		},
		{
			name:     "Four of a Kind",
			cards:    "AsAhAdAcKs2h3h",
			expected: FourOfAKind,
		},
		{
			name:     "Full House",
			cards:    "AsAhAdKsKh2h3h",
			expected: FullHouse,
		},
		{
			name:     "Flush",
			cards:    "AsKsQs8s6s4h3h",
			expected: Flush,
		},
		{
			name:     "Straight",
			cards:    "AsKhQdJcTs9h8h",
			expected: Straight,
		},
		{
			name:     "Wheel Straight",
			cards:    "Ah5s4d3c2s9h8c",
			expected: Straight,
		},
		{
			name:     "Three of a Kind",
			cards:    "AsAhAdKs9c7h5h",
			expected: ThreeOfAKind,
		},
		{
			name:     "Two Pair",
			cards:    "AsAhKdKs9c7h5h",
			expected: TwoPair,
		},
		{
			name:     "One Pair",
			cards:    "AsAhKdQs9c7h5h",
			expected: OnePair,
		},
		{
			name:     "High Card",
			cards:    "AsKhQd9s7c5h3h",
			expected: HighCard,
		},
		{
			name:     "Exactly five cards",
			cards:    "AsAhKdQs9c",
			expected: OnePair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := deck.MustParseCards(tt.cards)
			hand, err := Evaluate(cards)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if hand.Category != tt.expected {
				t.Errorf("Evaluate() category = %v, want %v", hand.Category, tt.expected)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	var invalidErr *InvalidHandError

	_, err := Evaluate(deck.MustParseCards("AsKhQd9s"))
	if !errors.As(err, &invalidErr) {
		t.Errorf("Evaluate() with 4 cards = %v, want *InvalidHandError", err)
	}

	_, err = Evaluate(deck.MustParseCards("AsAsKhQd9s"))
	if !errors.As(err, &invalidErr) {
		t.Errorf("Evaluate() with duplicate = %v, want *InvalidHandError", err)
	}
}

func TestEvaluatePicksBestSubset(t *testing.T) {
	// Seven cards containing both a flush and a straight, where the best
	// five-card hand is the flush
	cards := deck.MustParseCards("AsKsQs8s6sJhTd")
	hand, err := Evaluate(cards)
	if err != nil {
		t.Fatal(err)
	}
	if hand.Category != Flush {
		t.Errorf("best subset category = %v, want %v", hand.Category, Flush)
	}

	// Board plays: the straight on the board beats any pair improvement
	cards = deck.MustParseCards("2s2hKdQcJsTd9h")
	hand, err = Evaluate(cards)
	if err != nil {
		t.Fatal(err)
	}
	if hand.Category != Straight {
		t.Errorf("best subset category = %v, want %v", hand.Category, Straight)
	}
	if hand.Tiebreaks[0] != deck.King {
		t.Errorf("straight high card = %v, want King", hand.Tiebreaks[0])
	}
}

func TestCompareCategories(t *testing.T) {
	royal, _ := Evaluate(deck.MustParseCards("AsKsQsJsTs9h8h"))
	quads, _ := Evaluate(deck.MustParseCards("AsAhAdAcKs2h3h"))
	high, _ := Evaluate(deck.MustParseCards("AsKhQd9s7c5h3h"))

	if royal.Compare(quads) <= 0 {
		t.Errorf("straight flush should beat four of a kind: %s vs %s", royal, quads)
	}
	if quads.Compare(high) <= 0 {
		t.Errorf("four of a kind should beat high card: %s vs %s", quads, high)
	}
}

func TestCompareTiebreaks(t *testing.T) {
	tests := []struct {
		name     string
		stronger string
		weaker   string
	}{
		{"higher pair", "AsAhKdQs9c", "KsKhAdQs9c"},
		{"same pair higher kicker", "AsAhKdQs9c", "AdAcKhQd8c"},
		{"higher two pair", "AsAhKdKs9c", "AdAcQhQd9h"},
		{"two pair kicker", "AsAhKdKsQc", "AdAcKhKc9h"},
		{"higher straight", "KhQdJcTs9h", "QhJdTc9s8h"},
		{"ace high straight over wheel", "AsKhQdJcTs", "Ah5s4d3c2s"},
		{"six high straight over wheel", "6h5s4d3c2h", "Ah5d4c3s2s"},
		{"flush by second card", "AsKsQs8s6s", "AhQhJh8h6h"},
		{"full house by trips", "AsAhAdKsKh", "KdKcKhAcAd"},
		{"quads kicker", "AsAhAdAcKs", "AsAhAdAcQs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strong, err := Evaluate(deck.MustParseCards(tt.stronger))
			if err != nil {
				t.Fatal(err)
			}
			weak, err := Evaluate(deck.MustParseCards(tt.weaker))
			if err != nil {
				t.Fatal(err)
			}
			if strong.Compare(weak) <= 0 {
				t.Errorf("%s should beat %s", strong, weak)
			}
			if weak.Compare(strong) >= 0 {
				t.Errorf("%s should lose to %s", weak, strong)
			}
		})
	}
}

func TestCompareTieIgnoresSuits(t *testing.T) {
	spades, _ := Evaluate(deck.MustParseCards("AsKsQs9s7c"))
	hearts, _ := Evaluate(deck.MustParseCards("AhKhQh9h7d"))

	if spades.Compare(hearts) != 0 {
		t.Errorf("identical ranks in different suits should tie: %s vs %s", spades, hearts)
	}
	if !spades.Equals(hearts) {
		t.Error("Equals() should report a tie")
	}
}

func TestQuadsTieSameKicker(t *testing.T) {
	// Seven-card inputs sharing quads on the board resolve to the same hand
	a, _ := Evaluate(deck.MustParseCards("KsKhKdKcAs2h3d"))
	b, _ := Evaluate(deck.MustParseCards("KsKhKdKcAh2s3c"))
	if a.Compare(b) != 0 {
		t.Errorf("identical quads and kicker should tie: %s vs %s", a, b)
	}
}
