package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// HumanAgent prompts for actions on a reader/writer pair, normally the
// terminal. Unparseable input is re-prompted; illegal actions are rejected
// by the table and come back through Act again.
type HumanAgent struct {
	name string
	in   *bufio.Scanner
	out  io.Writer
}

// NewHumanAgent creates a human agent reading commands from in.
func NewHumanAgent(name string, in io.Reader, out io.Writer) *HumanAgent {
	return &HumanAgent{name: name, in: bufio.NewScanner(in), out: out}
}

// Name returns the player's display name.
func (h *HumanAgent) Name() string { return h.name }

// Act shows the table state and reads one action.
func (h *HumanAgent) Act(ctx context.Context, view View) (Action, error) {
	fmt.Fprintf(h.out, "\n%s to act [%s]\n", h.name, view.Phase)
	fmt.Fprintf(h.out, "  hole: %s  board: %s\n", formatCards(view.HoleCards), formatCards(view.Community))
	fmt.Fprintf(h.out, "  pot: %d  to call: %d  chips: %d\n", view.Pot, view.ToCall, view.Chips)

	for {
		if err := ctx.Err(); err != nil {
			return Action{}, err
		}
		fmt.Fprintf(h.out, "  fold / check / call / bet <n> / allin > ")

		if !h.in.Scan() {
			if err := h.in.Err(); err != nil {
				return Action{}, err
			}
			return Action{}, io.EOF
		}

		action, ok := h.parse(strings.Fields(strings.ToLower(strings.TrimSpace(h.in.Text()))), view)
		if !ok {
			fmt.Fprintln(h.out, "  did not understand that")
			continue
		}
		return action, nil
	}
}

func (h *HumanAgent) parse(fields []string, view View) (Action, bool) {
	if len(fields) == 0 {
		return Action{}, false
	}
	switch fields[0] {
	case "fold", "f":
		return Fold(), true
	case "check", "k":
		return Check(), true
	case "call", "c":
		amount := view.ToCall
		if amount > view.Chips {
			amount = view.Chips
		}
		return Bet(amount), true
	case "bet", "b", "raise", "r":
		if len(fields) != 2 {
			return Action{}, false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Action{}, false
		}
		return Bet(n), true
	case "allin", "a":
		return Bet(view.Chips), true
	default:
		return Action{}, false
	}
}
