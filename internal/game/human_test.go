package game

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tablestakes/holdem/internal/deck"
)

func humanAct(t *testing.T, input string, view View) Action {
	t.Helper()
	agent := NewHumanAgent("you", strings.NewReader(input), io.Discard)
	action, err := agent.Act(context.Background(), view)
	if err != nil {
		t.Fatalf("Act(%q): %v", input, err)
	}
	return action
}

func TestHumanAgentParsesCommands(t *testing.T) {
	view := View{
		HoleCards: deck.MustParseCards("AsKh"),
		Chips:     100,
		TableBet:  10,
		ToCall:    10,
		Pot:       20,
	}

	tests := []struct {
		input    string
		expected Action
	}{
		{"fold\n", Fold()},
		{"f\n", Fold()},
		{"check\n", Check()},
		{"call\n", Bet(10)},
		{"bet 25\n", Bet(25)},
		{"raise 40\n", Bet(40)},
		{"allin\n", Bet(100)},
		{"  BET   7  \n", Bet(7)},
		{"huh\nfold\n", Fold()}, // junk is re-prompted
		{"bet nope\ncheck\n", Check()},
	}

	for _, tt := range tests {
		if got := humanAct(t, tt.input, view); got != tt.expected {
			t.Errorf("input %q = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestHumanAgentShortCallIsAllIn(t *testing.T) {
	view := View{Chips: 4, TableBet: 10, ToCall: 10}
	if got := humanAct(t, "call\n", view); got != Bet(4) {
		t.Errorf("short call = %v, want all-in Bet(4)", got)
	}
}

func TestHumanAgentEOF(t *testing.T) {
	agent := NewHumanAgent("you", strings.NewReader(""), io.Discard)
	_, err := agent.Act(context.Background(), View{})
	if !errors.Is(err, io.EOF) {
		t.Errorf("Act on empty input = %v, want io.EOF", err)
	}
}
