package game

// Phase represents the stage of a hand
type Phase int

const (
	Preflop Phase = iota
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[p]
}

// CommunityCount returns how many community cards are on the table during
// this phase.
func (p Phase) CommunityCount() int {
	return [...]int{0, 3, 4, 5, 5}[p]
}

// IsBetting reports whether players act during this phase.
func (p Phase) IsBetting() bool {
	return p != Showdown
}
