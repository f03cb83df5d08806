package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/evaluator"
)

// Table holds the state of a hold'em table across a hand: the players, the
// dealer button, the pot, the community cards and the betting round.
//
// Betting is additive. A bet adds chips on top of what the player already
// has in this round; the table bet only rises when the new total exceeds it.
// Submitting less than the amount needed to call is illegal unless the bet
// is the player's whole stack, in which case the short all-in stands.
type Table struct {
	players   []*Player
	dealer    int
	phase     Phase
	pot       int
	tableBet  int
	community []deck.Card
	cards     *deck.Deck
	acted     []bool // per seat, cleared when the table bet rises
	ante      int
	rng       *rand.Rand
	events    *Bus
	firstHand bool
	complete  bool
}

// ActionResult reports the table state after a legal action.
type ActionResult struct {
	RoundClosed bool
	TableBet    int
}

// Settlement reports how a hand's pot was distributed. Payouts and Hands
// are indexed by seat; Hands is nil for players who never showed.
type Settlement struct {
	Pot     int
	Winners []int // seats paid, in seat order from the dealer's left
	Payouts []int
	Hands   []*evaluator.Hand
}

// NewTable seats the named players with equal starting stacks. The ante
// fixes the blinds: the first player left of the dealer posts the ante as
// the small blind, the next posts twice the ante as the big blind.
func NewTable(names []string, chips, ante int, rng *rand.Rand, events *Bus) (*Table, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(names))
	}
	if chips <= 0 {
		return nil, fmt.Errorf("starting chips must be positive, got %d", chips)
	}
	if ante < 0 {
		return nil, fmt.Errorf("ante cannot be negative, got %d", ante)
	}
	if events == nil {
		events = NewBus()
	}

	players := make([]*Player, len(names))
	for i, name := range names {
		players[i] = &Player{Seat: i, Name: name, Chips: chips}
	}

	return &Table{
		players:   players,
		phase:     Preflop,
		acted:     make([]bool, len(players)),
		ante:      ante,
		rng:       rng,
		events:    events,
		firstHand: true,
		complete:  true, // no hand in progress until StartHand
	}, nil
}

// Players returns the seated players.
func (t *Table) Players() []*Player { return t.players }

// Phase returns the current phase of the hand.
func (t *Table) Phase() Phase { return t.phase }

// Pot returns the chips in the pot.
func (t *Table) Pot() int { return t.pot }

// TableBet returns the highest round bet any player has committed.
func (t *Table) TableBet() int { return t.tableBet }

// Community returns the community cards dealt so far.
func (t *Table) Community() []deck.Card { return t.community }

// Dealer returns the seat holding the dealer button.
func (t *Table) Dealer() int { return t.dealer }

// ToCall returns the chips the seat must add to match the table bet.
func (t *Table) ToCall(seat int) int {
	return t.tableBet - t.players[seat].Bet
}

// FundedPlayers returns how many players still have chips.
func (t *Table) FundedPlayers() int {
	n := 0
	for _, p := range t.players {
		if p.Chips > 0 {
			n++
		}
	}
	return n
}

// InHand returns the seats still contesting the pot, in seat order.
func (t *Table) InHand() []int {
	var seats []int
	for _, p := range t.players {
		if p.InHand() {
			seats = append(seats, p.Seat)
		}
	}
	return seats
}

// BettingOrder returns all seats starting from the dealer's left.
func (t *Table) BettingOrder() []int {
	n := len(t.players)
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		order = append(order, (t.dealer+i)%n)
	}
	return order
}

// StartHand begins a new hand: the button moves, stacks are dealt in, and
// the blinds are posted. The first hand places the button at random; after
// that it advances one funded seat per hand.
func (t *Table) StartHand() error {
	if !t.complete {
		return fmt.Errorf("hand already in progress")
	}
	if t.FundedPlayers() < 2 {
		return fmt.Errorf("need at least 2 funded players, have %d", t.FundedPlayers())
	}

	if t.firstHand {
		t.dealer = t.rng.IntN(len(t.players))
		t.firstHand = false
	} else {
		t.dealer = t.nextFundedSeat(t.dealer)
	}

	t.phase = Preflop
	t.pot = 0
	t.tableBet = 0
	t.community = nil
	t.complete = false
	for seat, p := range t.players {
		p.Bet = 0
		p.TotalBet = 0
		p.HoleCards = nil
		p.Folded = p.Chips == 0
		t.acted[seat] = false
	}

	t.cards = deck.New(t.rng)
	t.cards.Shuffle()

	var dealt []int
	for _, seat := range t.BettingOrder() {
		p := t.players[seat]
		if p.Folded {
			continue
		}
		hole, err := t.cards.DrawN(2)
		if err != nil {
			return err
		}
		p.HoleCards = hole
		dealt = append(dealt, seat)
	}

	t.events.Publish(Event{
		Type:   EventHandStart,
		Phase:  t.phase,
		Seat:   t.dealer,
		Player: t.players[t.dealer].Name,
	})

	if t.ante > 0 {
		t.postBlind(dealt[0], t.ante)
		t.postBlind(dealt[1], 2*t.ante)
	}

	return nil
}

// postBlind commits a forced bet, short if the player cannot cover it.
// Blinds do not count as the player's action for the round.
func (t *Table) postBlind(seat, amount int) {
	p := t.players[seat]
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	t.pot += amount
	if p.Bet > t.tableBet {
		t.tableBet = p.Bet
	}

	t.events.Publish(Event{
		Type:     EventBlindPosted,
		Phase:    t.phase,
		Seat:     seat,
		Player:   p.Name,
		Amount:   amount,
		Pot:      t.pot,
		TableBet: t.tableBet,
	})
}

// nextFundedSeat returns the first seat after from that still has chips.
func (t *Table) nextFundedSeat(from int) int {
	n := len(t.players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if t.players[seat].Chips > 0 {
			return seat
		}
	}
	return from
}

// ApplyAction applies one player action to the table. Illegal actions
// return *IllegalActionError and leave the state untouched so the player
// can act again.
func (t *Table) ApplyAction(seat int, action Action) (ActionResult, error) {
	if seat < 0 || seat >= len(t.players) {
		return ActionResult{}, fmt.Errorf("seat %d out of range", seat)
	}
	p := t.players[seat]

	if t.complete {
		return ActionResult{}, ErrHandComplete
	}
	if !t.phase.IsBetting() {
		return ActionResult{}, t.illegal(p, action, "no betting at showdown")
	}
	if !p.InHand() {
		return ActionResult{}, t.illegal(p, action, "player is not in the hand")
	}
	if p.Chips == 0 {
		return ActionResult{}, t.illegal(p, action, "player is all in")
	}
	if t.roundClosed() {
		return ActionResult{}, t.illegal(p, action, "betting round is closed")
	}

	switch action.Type {
	case ActionFold:
		p.Folded = true
		t.acted[seat] = true

	case ActionCheck:
		if p.Bet != t.tableBet {
			return ActionResult{}, t.illegal(p, action, fmt.Sprintf("cannot check facing %d to call", t.ToCall(seat)))
		}
		t.acted[seat] = true

	case ActionBet:
		if action.Amount < 0 {
			return ActionResult{}, t.illegal(p, action, "bet cannot be negative")
		}
		if action.Amount > p.Chips {
			return ActionResult{}, t.illegal(p, action, fmt.Sprintf("bet %d exceeds stack of %d", action.Amount, p.Chips))
		}

		newTotal := p.Bet + action.Amount
		if newTotal < t.tableBet && action.Amount != p.Chips {
			return ActionResult{}, t.illegal(p, action,
				fmt.Sprintf("bet of %d leaves player at %d, short of table bet %d", action.Amount, newTotal, t.tableBet))
		}

		p.Chips -= action.Amount
		p.Bet = newTotal
		p.TotalBet += action.Amount
		t.pot += action.Amount

		if newTotal > t.tableBet {
			// A raise reopens the action for everyone else.
			t.tableBet = newTotal
			for s := range t.acted {
				t.acted[s] = s == seat
			}
		} else {
			t.acted[seat] = true
		}

	default:
		return ActionResult{}, t.illegal(p, action, "unknown action")
	}

	t.events.Publish(Event{
		Type:     EventPlayerAction,
		Phase:    t.phase,
		Seat:     seat,
		Player:   p.Name,
		Action:   action,
		Amount:   action.Amount,
		Pot:      t.pot,
		TableBet: t.tableBet,
	})

	return ActionResult{RoundClosed: t.roundClosed(), TableBet: t.tableBet}, nil
}

func (t *Table) illegal(p *Player, action Action, reason string) error {
	return &IllegalActionError{Player: p.Name, Action: action, Reason: reason}
}

// RoundClosed reports whether the betting round is complete.
func (t *Table) RoundClosed() bool {
	return t.roundClosed()
}

// NeedsAction reports whether the seat still owes an action this round.
func (t *Table) NeedsAction(seat int) bool {
	if !t.phase.IsBetting() {
		return false
	}
	p := t.players[seat]
	return p.CanAct() && (!t.acted[seat] || p.Bet != t.tableBet)
}

// roundClosed is true when no betting remains at this phase, at most one
// player contests the pot, or every player who can still act has acted
// since the last raise and matched the table bet. Players who are all in
// are exempt.
func (t *Table) roundClosed() bool {
	if !t.phase.IsBetting() {
		return true
	}
	if len(t.InHand()) <= 1 {
		return true
	}
	for seat, p := range t.players {
		if !p.CanAct() {
			continue
		}
		if !t.acted[seat] || p.Bet != t.tableBet {
			return false
		}
	}
	return true
}

// AdvancePhase moves the hand to the next phase and deals the community
// cards it calls for. It fails with ErrRoundNotClosed while the current
// round is still open.
func (t *Table) AdvancePhase() (Phase, error) {
	if t.complete {
		return t.phase, ErrHandComplete
	}
	if t.phase == Showdown {
		return t.phase, ErrHandComplete
	}
	if !t.roundClosed() {
		return t.phase, ErrRoundNotClosed
	}

	t.tableBet = 0
	for seat, p := range t.players {
		p.Bet = 0
		t.acted[seat] = false
	}

	t.phase++
	need := t.phase.CommunityCount() - len(t.community)
	if need > 0 {
		cards, err := t.cards.DrawN(need)
		if err != nil {
			return t.phase, err
		}
		t.community = append(t.community, cards...)
	}

	t.events.Publish(Event{
		Type:      EventPhaseChange,
		Phase:     t.phase,
		Pot:       t.pot,
		Community: t.community,
	})

	return t.phase, nil
}

// Settle resolves the hand and pays the pot. It is legal at showdown, or
// earlier once every other player has folded. The pot splits evenly among
// the winners; odd chips go one each to winners in seat order from the
// dealer's left.
func (t *Table) Settle() (*Settlement, error) {
	if t.complete {
		return nil, ErrHandComplete
	}

	inHand := t.InHand()
	if len(inHand) > 1 && t.phase != Showdown {
		return nil, fmt.Errorf("cannot settle during %s with %d players in hand", t.phase, len(inHand))
	}
	if len(inHand) == 0 {
		return nil, fmt.Errorf("no players left in hand")
	}

	s := &Settlement{
		Pot:     t.pot,
		Payouts: make([]int, len(t.players)),
		Hands:   make([]*evaluator.Hand, len(t.players)),
	}

	if len(inHand) == 1 {
		// Uncontested pot, no cards shown.
		s.Winners = inHand
	} else {
		var best evaluator.Hand
		for _, seat := range inHand {
			p := t.players[seat]
			cards := make([]deck.Card, 0, 7)
			cards = append(cards, p.HoleCards...)
			cards = append(cards, t.community...)
			hand, err := evaluator.Evaluate(cards)
			if err != nil {
				return nil, err
			}
			s.Hands[seat] = &hand
			if len(s.Winners) == 0 || hand.Compare(best) > 0 {
				best = hand
				s.Winners = []int{seat}
			}
		}
		for _, seat := range t.BettingOrder() {
			h := s.Hands[seat]
			if h != nil && seat != s.Winners[0] && h.Compare(best) == 0 {
				s.Winners = append(s.Winners, seat)
			}
		}
		s.Winners = t.orderFromDealerLeft(s.Winners)
	}

	share := t.pot / len(s.Winners)
	remainder := t.pot % len(s.Winners)
	for i, seat := range s.Winners {
		payout := share
		if i < remainder {
			payout++
		}
		s.Payouts[seat] = payout
		t.players[seat].Chips += payout
	}

	t.pot = 0
	t.phase = Showdown
	t.complete = true

	t.events.Publish(Event{
		Type:    EventHandEnd,
		Phase:   t.phase,
		Pot:     s.Pot,
		Winners: s.Winners,
	})

	return s, nil
}

// orderFromDealerLeft sorts the given seats into seat order starting from
// the dealer's left.
func (t *Table) orderFromDealerLeft(seats []int) []int {
	member := make(map[int]bool, len(seats))
	for _, s := range seats {
		member[s] = true
	}
	ordered := make([]int, 0, len(seats))
	for _, seat := range t.BettingOrder() {
		if member[seat] {
			ordered = append(ordered, seat)
		}
	}
	return ordered
}
