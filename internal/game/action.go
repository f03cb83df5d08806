package game

import "fmt"

// ActionType represents the kind of action a player takes
type ActionType int

const (
	ActionFold ActionType = iota
	ActionCheck
	ActionBet
)

func (a ActionType) String() string {
	return [...]string{"fold", "check", "bet"}[a]
}

// Action is a player decision. Amount is only meaningful for bets, where it
// is the number of chips added on top of the player's current round bet.
type Action struct {
	Type   ActionType
	Amount int
}

// Fold gives up the hand.
func Fold() Action {
	return Action{Type: ActionFold}
}

// Check passes the action without betting.
func Check() Action {
	return Action{Type: ActionCheck}
}

// Bet adds amount chips to the player's bet this round. A bet of zero is
// the same as a check.
func Bet(amount int) Action {
	return Action{Type: ActionBet, Amount: amount}
}

func (a Action) String() string {
	if a.Type == ActionBet {
		return fmt.Sprintf("bet %d", a.Amount)
	}
	return a.Type.String()
}
