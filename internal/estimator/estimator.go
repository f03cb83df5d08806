package estimator

import (
	"context"
	"fmt"
	"math"
	rand "math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/evaluator"
	"github.com/tablestakes/holdem/internal/randutil"
)

// Mode reports how an estimate was produced.
type Mode int

const (
	// ModeExhaustive means every possible completion of the table was
	// enumerated and the probabilities are exact.
	ModeExhaustive Mode = iota
	// ModeSampled means the probabilities come from Monte Carlo samples,
	// either because the outcome space exceeded the work budget or because
	// the context deadline cut enumeration short.
	ModeSampled
)

// String returns the string representation of a mode
func (m Mode) String() string {
	switch m {
	case ModeExhaustive:
		return "exhaustive"
	case ModeSampled:
		return "sampled"
	default:
		return "unknown"
	}
}

// Estimate holds win/tie/loss probabilities for the hero's hand. The three
// probabilities sum to 1. Outcomes is the number of completions tallied.
type Estimate struct {
	Win      float64
	Tie      float64
	Loss     float64
	Mode     Mode
	Outcomes int64
}

// EvaluationError is returned when an estimate cannot be computed from the
// given inputs.
type EvaluationError struct {
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed: %s", e.Reason)
}

// Estimator computes win/tie/loss probabilities by completing the unseen
// cards of a hold'em table, either exhaustively or by sampling.
type Estimator struct {
	workers int
	budget  int64
	samples int
	seed    int64
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithBudget sets the maximum outcome count enumerated exhaustively. Larger
// spaces fall back to sampling.
func WithBudget(n int64) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.budget = n
		}
	}
}

// WithSamples sets the Monte Carlo sample count used when sampling.
func WithSamples(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.samples = n
		}
	}
}

// WithSeed fixes the RNG seed so sampled estimates are reproducible.
func WithSeed(seed int64) Option {
	return func(e *Estimator) {
		e.seed = seed
	}
}

// New creates an Estimator with sensible defaults.
func New(opts ...Option) *Estimator {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	e := &Estimator{
		workers: workers,
		budget:  10_000_000,
		samples: 100_000,
		seed:    time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// tally accumulates outcome counts. Loss is derived as total-win-tie.
type tally struct {
	wins  int64
	ties  int64
	total int64
}

func (t *tally) add(o tally) {
	t.wins += o.wins
	t.ties += o.ties
	t.total += o.total
}

// Estimate computes the probability that the hero's hand wins, ties, or
// loses at showdown. hole is the hero's two hole cards, board the community
// cards dealt so far (0, 3, 4 or 5), and dead any further cards known to be
// out of play. Unseen community cards and all opponent hole cards are
// completed from the remaining deck.
//
// When the outcome space fits the work budget every completion is
// enumerated and the result is exact; otherwise the estimator samples.
// A context deadline cuts work short and normalizes whatever was tallied.
func (e *Estimator) Estimate(ctx context.Context, hole, board, dead []deck.Card, opponents int) (Estimate, error) {
	if len(hole) != 2 {
		return Estimate{}, &EvaluationError{Reason: fmt.Sprintf("need exactly 2 hole cards, got %d", len(hole))}
	}
	if len(board) > 5 {
		return Estimate{}, &EvaluationError{Reason: fmt.Sprintf("board has %d cards, max 5", len(board))}
	}
	if opponents < 0 {
		return Estimate{}, &EvaluationError{Reason: fmt.Sprintf("negative opponent count %d", opponents)}
	}

	seen := deck.CardSet(0)
	for _, group := range [][]deck.Card{hole, board, dead} {
		for _, c := range group {
			if seen.Contains(c) {
				return Estimate{}, &EvaluationError{Reason: fmt.Sprintf("card %s appears twice", c)}
			}
			seen.Add(c)
		}
	}

	var unseen []deck.Card
	for _, c := range deck.All() {
		if !seen.Contains(c) {
			unseen = append(unseen, c)
		}
	}

	need := (5 - len(board)) + 2*opponents
	if len(unseen) < need {
		return Estimate{}, &EvaluationError{
			Reason: fmt.Sprintf("need %d unseen cards, only %d remain", need, len(unseen)),
		}
	}

	communityNeeded := 5 - len(board)
	total := totalOutcomes(len(unseen), communityNeeded, opponents)
	if total <= e.budget {
		return e.estimateExhaustive(ctx, hole, board, unseen, communityNeeded, opponents, total)
	}
	return e.estimateSampled(ctx, hole, board, unseen, communityNeeded, opponents)
}

// totalOutcomes is C(unseen, community) times the number of ways to deal two
// cards to each opponent from what remains. Saturates at MaxInt64.
func totalOutcomes(unseen, community, opponents int) int64 {
	n := binomial(unseen, community)
	remaining := unseen - community
	for i := 0; i < opponents; i++ {
		n = satMul(n, binomial(remaining, 2))
		remaining -= 2
	}
	return n
}

func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	result := int64(1)
	for i := 0; i < k; i++ {
		result = satMul(result, int64(n-i))
		result /= int64(i + 1)
	}
	return result
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// estimateExhaustive enumerates every community completion and every
// opponent deal. Community completions are distributed across workers; each
// worker's tallies are pure counts so the combined result is identical for
// any worker count.
func (e *Estimator) estimateExhaustive(ctx context.Context, hole, board, unseen []deck.Card, communityNeeded, opponents int, total int64) (Estimate, error) {
	combos := communityCombos(unseen, communityNeeded)

	g, gctx := errgroup.WithContext(ctx)
	results := make([]tally, e.workers)

	for w := 0; w < e.workers; w++ {
		g.Go(func() error {
			var t tally
			defer func() { results[w] = t }()

			ev := newDealEvaluator(hole, board, unseen, opponents)
			for i := w; i < len(combos); i += e.workers {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				ev.tallyCombo(combos[i], &t)
			}
			return nil
		})
	}

	err := g.Wait()

	var combined tally
	for _, t := range results {
		combined.add(t)
	}

	if err != nil {
		// Deadline or cancellation: report what was tallied as a sample.
		if combined.total == 0 {
			return Estimate{}, err
		}
		return normalize(combined, ModeSampled), nil
	}

	combined.total = total
	return normalize(combined, ModeExhaustive), nil
}

// estimateSampled draws random completions of the table. Each worker owns an
// RNG derived from the estimator seed and its worker index, so results don't
// depend on scheduling.
func (e *Estimator) estimateSampled(ctx context.Context, hole, board, unseen []deck.Card, communityNeeded, opponents int) (Estimate, error) {
	perWorker := e.samples / e.workers
	remainder := e.samples % e.workers

	g, gctx := errgroup.WithContext(ctx)
	results := make([]tally, e.workers)

	for w := 0; w < e.workers; w++ {
		samples := perWorker
		if w < remainder {
			samples++
		}
		rng := randutil.New(randutil.Derive(e.seed, w))

		g.Go(func() error {
			var t tally
			defer func() { results[w] = t }()

			ev := newDealEvaluator(hole, board, unseen, opponents)
			pool := make([]deck.Card, len(unseen))
			for i := 0; i < samples; i++ {
				if i%1024 == 0 && gctx.Err() != nil {
					return gctx.Err()
				}
				ev.tallySample(pool, rng, &t)
			}
			return nil
		})
	}

	err := g.Wait()

	var combined tally
	for _, t := range results {
		combined.add(t)
	}

	if combined.total == 0 {
		if err != nil {
			return Estimate{}, err
		}
		return Estimate{}, &EvaluationError{Reason: "no samples completed"}
	}
	return normalize(combined, ModeSampled), nil
}

func normalize(t tally, mode Mode) Estimate {
	total := float64(t.total)
	win := float64(t.wins) / total
	tie := float64(t.ties) / total
	return Estimate{
		Win:      win,
		Tie:      tie,
		Loss:     1 - win - tie,
		Mode:     mode,
		Outcomes: t.total,
	}
}

// communityCombos returns every k-card subset of the unseen cards, as index
// slices into unseen.
func communityCombos(unseen []deck.Card, k int) [][]int {
	if k == 0 {
		return [][]int{{}}
	}
	var combos [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	n := len(unseen)
	for {
		combo := make([]int, k)
		copy(combo, idx)
		combos = append(combos, combo)

		// Advance to the next combination in lexicographic order.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return combos
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// dealEvaluator evaluates completed deals for one goroutine. It owns its
// scratch buffers so workers never share state.
type dealEvaluator struct {
	hole      []deck.Card
	board     []deck.Card
	unseen    []deck.Card
	opponents int

	heroCards []deck.Card // hole + board + community completion
	oppCards  []deck.Card // opponent hole + board + community completion
	used      []bool      // marks unseen indices consumed by the current deal
}

func newDealEvaluator(hole, board, unseen []deck.Card, opponents int) *dealEvaluator {
	ev := &dealEvaluator{
		hole:      hole,
		board:     board,
		unseen:    unseen,
		opponents: opponents,
		heroCards: make([]deck.Card, 7),
		oppCards:  make([]deck.Card, 7),
		used:      make([]bool, len(unseen)),
	}
	copy(ev.heroCards, hole)
	copy(ev.heroCards[2:], board)
	copy(ev.oppCards[2:], board)
	return ev
}

// tallyCombo enumerates every opponent deal for one community completion and
// adds the outcomes to t.
func (ev *dealEvaluator) tallyCombo(combo []int, t *tally) {
	for i, idx := range combo {
		ev.heroCards[2+len(ev.board)+i] = ev.unseen[idx]
		ev.oppCards[2+len(ev.board)+i] = ev.unseen[idx]
		ev.used[idx] = true
	}

	heroHand, err := evaluator.Evaluate(ev.heroCards)
	if err == nil {
		ev.enumOpponents(0, heroHand, false, false, t)
	}

	for _, idx := range combo {
		ev.used[idx] = false
	}
}

// enumOpponents recursively deals two cards to each remaining opponent.
// beaten and tied carry the comparison state of opponents already dealt.
// Once the hero is beaten the remaining deals all classify as losses, so
// they are counted in bulk instead of enumerated.
func (ev *dealEvaluator) enumOpponents(dealt int, heroHand evaluator.Hand, beaten, tied bool, t *tally) {
	if beaten {
		remaining := 0
		for _, u := range ev.used {
			if !u {
				remaining++
			}
		}
		count := int64(1)
		for i := dealt; i < ev.opponents; i++ {
			count = satMul(count, binomial(remaining, 2))
			remaining -= 2
		}
		t.total += count
		return
	}

	if dealt == ev.opponents {
		t.total++
		if tied {
			t.ties++
		} else {
			t.wins++
		}
		return
	}

	n := len(ev.unseen)
	for i := 0; i < n-1; i++ {
		if ev.used[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if ev.used[j] {
				continue
			}
			ev.used[i], ev.used[j] = true, true
			ev.oppCards[0] = ev.unseen[i]
			ev.oppCards[1] = ev.unseen[j]

			oppHand, err := evaluator.Evaluate(ev.oppCards)
			if err == nil {
				switch heroHand.Compare(oppHand) {
				case -1:
					ev.enumOpponents(dealt+1, heroHand, true, tied, t)
				case 0:
					ev.enumOpponents(dealt+1, heroHand, false, true, t)
				default:
					ev.enumOpponents(dealt+1, heroHand, false, tied, t)
				}
			}

			ev.used[i], ev.used[j] = false, false
		}
	}
}

// tallySample deals one random completion and adds its outcome to t. pool is
// a caller-owned scratch slice the size of unseen.
func (ev *dealEvaluator) tallySample(pool []deck.Card, rng *rand.Rand, t *tally) {
	copy(pool, ev.unseen)
	need := (5 - len(ev.board)) + 2*ev.opponents

	// Partial Fisher-Yates: the first need entries become the deal.
	for i := 0; i < need; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	for i := 0; i < 5-len(ev.board); i++ {
		ev.heroCards[2+len(ev.board)+i] = pool[i]
		ev.oppCards[2+len(ev.board)+i] = pool[i]
	}

	heroHand, err := evaluator.Evaluate(ev.heroCards)
	if err != nil {
		return
	}

	next := 5 - len(ev.board)
	beaten, tied := false, false
	for o := 0; o < ev.opponents && !beaten; o++ {
		ev.oppCards[0] = pool[next]
		ev.oppCards[1] = pool[next+1]
		next += 2

		oppHand, err := evaluator.Evaluate(ev.oppCards)
		if err != nil {
			return
		}
		switch heroHand.Compare(oppHand) {
		case -1:
			beaten = true
		case 0:
			tied = true
		}
	}

	t.total++
	if beaten {
		return
	}
	if tied {
		t.ties++
	} else {
		t.wins++
	}
}
