package game

import (
	"context"
	rand "math/rand/v2"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/estimator"
)

// AIAgent plays a straightforward equity strategy. Preflop it ranks its
// hole cards against the starting hand percentile table; postflop it asks
// the estimator for win probability and compares it to the pot odds. Every
// action it produces is legal for the view it was given.
type AIAgent struct {
	name string
	est  *estimator.Estimator
	rng  *rand.Rand
}

// NewAIAgent creates an AI agent. The estimator drives postflop decisions
// and the RNG adds occasional raises so play isn't fully predictable.
func NewAIAgent(name string, est *estimator.Estimator, rng *rand.Rand) *AIAgent {
	return &AIAgent{name: name, est: est, rng: rng}
}

// Name returns the agent's display name.
func (a *AIAgent) Name() string { return a.name }

// Act decides an action for the view.
func (a *AIAgent) Act(ctx context.Context, view View) (Action, error) {
	strength, err := a.strength(ctx, view)
	if err != nil {
		// Estimation failed, play it safe.
		if view.ToCall == 0 {
			return Check(), nil
		}
		return Fold(), nil
	}

	if view.ToCall == 0 {
		if strength > a.raiseThreshold(view) && a.rng.IntN(3) > 0 {
			return Bet(a.raiseAmount(view)), nil
		}
		return Check(), nil
	}

	// Equity needed to break even on a call.
	potOdds := float64(view.ToCall) / float64(view.Pot+view.ToCall)

	switch {
	case strength > a.raiseThreshold(view) && a.rng.IntN(4) == 0:
		return Bet(a.raiseAmount(view)), nil
	case strength >= potOdds:
		return Bet(a.callAmount(view)), nil
	default:
		return Fold(), nil
	}
}

// strength estimates the chance this hand takes the pot, between 0 and 1.
func (a *AIAgent) strength(ctx context.Context, view View) (float64, error) {
	if view.Phase == Preflop {
		return deck.HandPercentile(view.HoleCards), nil
	}
	result, err := a.est.Estimate(ctx, view.HoleCards, view.Community, nil, view.Opponents)
	if err != nil {
		return 0, err
	}
	return result.Win + result.Tie/2, nil
}

// raiseThreshold scales with the field: more opponents need a stronger hand.
func (a *AIAgent) raiseThreshold(view View) float64 {
	return 0.55 + 0.05*float64(view.Opponents)
}

// callAmount matches the table bet, going all in if short.
func (a *AIAgent) callAmount(view View) int {
	if view.ToCall > view.Chips {
		return view.Chips
	}
	return view.ToCall
}

// raiseAmount calls and adds roughly half the pot, capped by the stack.
func (a *AIAgent) raiseAmount(view View) int {
	raise := view.Pot / 2
	if raise < 1 {
		raise = 1
	}
	amount := view.ToCall + raise
	if amount > view.Chips {
		amount = view.Chips
	}
	return amount
}
