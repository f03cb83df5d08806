package game

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tablestakes/holdem/internal/deck"
)

// EventType identifies a table event
type EventType string

const (
	EventHandStart    EventType = "hand_start"
	EventBlindPosted  EventType = "blind_posted"
	EventPlayerAction EventType = "player_action"
	EventPhaseChange  EventType = "phase_change"
	EventHandEnd      EventType = "hand_end"
)

// Event describes something that happened at the table. Fields are
// populated as relevant for the event type.
type Event struct {
	Type      EventType
	Phase     Phase
	Seat      int
	Player    string
	Action    Action
	Amount    int
	Pot       int
	TableBet  int
	Community []deck.Card
	Winners   []int
}

// Bus fans table events out to subscribers. Publish is synchronous;
// subscribers run on the publishing goroutine in subscription order.
type Bus struct {
	subs []func(Event)
}

// NewBus creates an event bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.subs = append(b.subs, fn)
}

// Publish delivers an event to every subscriber.
func (b *Bus) Publish(e Event) {
	for _, fn := range b.subs {
		fn(e)
	}
}

// LogSubscriber returns a subscriber that writes each event as a structured
// log line.
func LogSubscriber(logger *log.Logger) func(Event) {
	return func(e Event) {
		switch e.Type {
		case EventHandStart:
			logger.Info("hand started", "dealer", e.Player)
		case EventBlindPosted:
			logger.Info("blind posted", "player", e.Player, "amount", e.Amount, "pot", e.Pot)
		case EventPlayerAction:
			logger.Info("action", "phase", e.Phase.String(), "player", e.Player,
				"action", e.Action.String(), "pot", e.Pot, "table_bet", e.TableBet)
		case EventPhaseChange:
			logger.Info("phase", "phase", e.Phase.String(), "board", formatCards(e.Community), "pot", e.Pot)
		case EventHandEnd:
			logger.Info("hand over", "pot", e.Pot, "winners", e.Winners)
		}
	}
}

func formatCards(cards []deck.Card) string {
	strs := make([]string, len(cards))
	for i, c := range cards {
		strs[i] = c.String()
	}
	return strings.Join(strs, " ")
}
