package game

import (
	"context"

	"github.com/tablestakes/holdem/internal/deck"
)

// View is the read-only state an agent sees when asked to act. Only the
// acting player's hole cards are visible.
type View struct {
	Phase     Phase
	HoleCards []deck.Card
	Community []deck.Card
	Pot       int
	TableBet  int
	Bet       int // the player's bet this round
	Chips     int
	ToCall    int
	Opponents int // players still contesting the pot besides the actor
	Ante      int
}

// Agent decides actions for one seat. Act may be called again with the same
// view if the returned action turns out to be illegal.
type Agent interface {
	Name() string
	Act(ctx context.Context, view View) (Action, error)
}

// viewFor builds the acting player's view of the table.
func (t *Table) viewFor(seat int) View {
	p := t.players[seat]
	return View{
		Phase:     t.phase,
		HoleCards: p.HoleCards,
		Community: t.community,
		Pot:       t.pot,
		TableBet:  t.tableBet,
		Bet:       p.Bet,
		Chips:     p.Chips,
		ToCall:    t.ToCall(seat),
		Opponents: len(t.InHand()) - 1,
		Ante:      t.ante,
	}
}
