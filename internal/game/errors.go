package game

import (
	"errors"
	"fmt"
)

// ErrRoundNotClosed is returned by AdvancePhase while players still owe an
// action or chips this round.
var ErrRoundNotClosed = errors.New("betting round not closed")

// ErrHandComplete is returned when actions arrive after the hand has been
// settled.
var ErrHandComplete = errors.New("hand complete")

// IllegalActionError is returned when a player submits an action the rules
// do not allow in the current state. The table state is unchanged and the
// player may act again.
type IllegalActionError struct {
	Player string
	Action Action
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action by %s (%s): %s", e.Player, e.Action, e.Reason)
}
