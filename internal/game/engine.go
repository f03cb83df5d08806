package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Engine drives hands at a table, soliciting each agent in turn and
// applying their actions. One agent per seat.
type Engine struct {
	table   *Table
	agents  []Agent
	logger  *log.Logger
	retries int
}

// NewEngine pairs a table with its agents.
func NewEngine(table *Table, agents []Agent, logger *log.Logger) (*Engine, error) {
	if len(agents) != len(table.Players()) {
		return nil, fmt.Errorf("have %d agents for %d seats", len(agents), len(table.Players()))
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{table: table, agents: agents, logger: logger, retries: 3}, nil
}

// Run plays up to maxHands hands, stopping early when fewer than two
// players have chips.
func (e *Engine) Run(ctx context.Context, maxHands int) error {
	for hand := 0; hand < maxHands; hand++ {
		if e.table.FundedPlayers() < 2 {
			break
		}
		if _, err := e.PlayHand(ctx); err != nil {
			return fmt.Errorf("hand %d: %w", hand+1, err)
		}
	}
	return nil
}

// PlayHand plays one complete hand and returns its settlement.
func (e *Engine) PlayHand(ctx context.Context) (*Settlement, error) {
	if err := e.table.StartHand(); err != nil {
		return nil, err
	}

	for {
		if err := e.runBettingRound(ctx); err != nil {
			return nil, err
		}
		if len(e.table.InHand()) <= 1 {
			break
		}
		phase, err := e.table.AdvancePhase()
		if err != nil {
			return nil, err
		}
		if phase == Showdown {
			break
		}
	}

	settlement, err := e.table.Settle()
	if err != nil {
		return nil, err
	}

	for _, seat := range settlement.Winners {
		p := e.table.Players()[seat]
		fields := []any{"player", p.Name, "won", settlement.Payouts[seat], "chips", p.Chips}
		if h := settlement.Hands[seat]; h != nil {
			fields = append(fields, "hand", h.String())
		}
		e.logger.Info("pot awarded", fields...)
	}

	return settlement, nil
}

// runBettingRound solicits actions until the round closes. An agent that
// keeps submitting illegal actions is folded after a few attempts so one
// misbehaving seat cannot wedge the table.
func (e *Engine) runBettingRound(ctx context.Context) error {
	for !e.table.RoundClosed() {
		for _, seat := range e.table.BettingOrder() {
			if e.table.RoundClosed() {
				break
			}
			if !e.table.NeedsAction(seat) {
				continue
			}
			if err := e.solicit(ctx, seat); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) solicit(ctx context.Context, seat int) error {
	agent := e.agents[seat]

	for attempt := 0; attempt <= e.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		action, err := agent.Act(ctx, e.table.viewFor(seat))
		if err != nil {
			return fmt.Errorf("agent %s: %w", agent.Name(), err)
		}

		_, err = e.table.ApplyAction(seat, action)
		if err == nil {
			return nil
		}

		var illegal *IllegalActionError
		if !errors.As(err, &illegal) {
			return err
		}
		e.logger.Warn("illegal action", "player", agent.Name(), "action", action.String(), "reason", illegal.Reason)
	}

	// Out of attempts. Folding is always legal for a player who can act.
	_, err := e.table.ApplyAction(seat, Fold())
	return err
}
