package game

import "github.com/tablestakes/holdem/internal/deck"

// Player represents a player in a hand
type Player struct {
	Seat      int
	Name      string
	Chips     int
	HoleCards []deck.Card
	Folded    bool
	Bet       int // Current bet in this round
	TotalBet  int // Total bet in the hand
}

// InHand returns true if the player has not folded and was dealt in.
func (p *Player) InHand() bool {
	return !p.Folded && len(p.HoleCards) > 0
}

// CanAct returns true if the player can still take actions. Players who are
// all in stay in the hand but no longer act.
func (p *Player) CanAct() bool {
	return p.InHand() && p.Chips > 0
}
