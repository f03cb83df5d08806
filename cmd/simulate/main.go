package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/tablestakes/holdem/internal/config"
	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/estimator"
	"github.com/tablestakes/holdem/internal/evaluator"
	"github.com/tablestakes/holdem/internal/game"
	"github.com/tablestakes/holdem/internal/randutil"
)

type CLI struct {
	Config  string `short:"c" default:"holdem.hcl" help:"Path to HCL config file"`
	Hands   int    `short:"n" help:"Number of hands to play (overrides config)"`
	Seed    int64  `default:"0" help:"RNG seed (0 for random)"`
	Verify  bool   `help:"Check evaluator category frequencies instead of playing"`
	Deals   int    `default:"200000" help:"Random deals for --verify"`
	Verbose bool   `short:"v" help:"Log every table event"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("simulate"),
		kong.Description("Run AI-only hold'em sessions in batch."))

	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if cli.Verify {
		if err := verify(cli.Deals, seed); err != nil {
			fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
			kctx.Exit(1)
		}
		return
	}

	if err := run(cli, seed); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		kctx.Exit(1)
	}
}

func run(cli CLI, seed int64) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.Hands > 0 {
		cfg.Table.MaxHands = cli.Hands
	}

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, ReportTimestamp: false})

	estOpts := []estimator.Option{
		estimator.WithBudget(cfg.Estimator.Budget),
		estimator.WithSamples(cfg.Estimator.Samples),
		estimator.WithSeed(randutil.Derive(seed, 0)),
	}
	if cfg.Estimator.Workers > 0 {
		estOpts = append(estOpts, estimator.WithWorkers(cfg.Estimator.Workers))
	}
	est := estimator.New(estOpts...)

	names := make([]string, cfg.Table.Players)
	agents := make([]game.Agent, cfg.Table.Players)
	for i := range names {
		names[i] = fmt.Sprintf("AI %d", i+1)
		agents[i] = game.NewAIAgent(names[i], est, randutil.New(randutil.Derive(seed, i+1)))
	}

	events := game.NewBus()
	if cli.Verbose {
		events.Subscribe(game.LogSubscriber(logger))
	}
	handsPlayed := 0
	events.Subscribe(func(e game.Event) {
		if e.Type == game.EventHandEnd {
			handsPlayed++
		}
	})

	table, err := game.NewTable(names, cfg.Table.StartingChips, cfg.Table.Ante, randutil.New(seed), events)
	if err != nil {
		return err
	}
	engine, err := game.NewEngine(table, agents, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := engine.Run(context.Background(), cfg.Table.MaxHands); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("played %d hands in %s (seed %d)\n\n", handsPlayed, elapsed.Round(time.Millisecond), seed)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "player\tchips\tnet")
	for _, p := range table.Players() {
		fmt.Fprintf(w, "%s\t%d\t%+d\n", p.Name, p.Chips, p.Chips-cfg.Table.StartingChips)
	}
	return w.Flush()
}

// expectedFrequency is the probability of each category for the best hand of
// a random 7-card deal.
var expectedFrequency = map[evaluator.Category]float64{
	evaluator.HighCard:      0.1741,
	evaluator.OnePair:       0.4382,
	evaluator.TwoPair:       0.2350,
	evaluator.ThreeOfAKind:  0.0483,
	evaluator.Straight:      0.0462,
	evaluator.Flush:         0.0303,
	evaluator.FullHouse:     0.0260,
	evaluator.FourOfAKind:   0.00168,
	evaluator.StraightFlush: 0.000311,
}

// verify deals random 7-card hands and compares observed category
// frequencies to the known distribution. A gross mismatch means the
// evaluator or the shuffle is broken.
func verify(deals int, seed int64) error {
	rng := randutil.New(seed)
	counts := make(map[evaluator.Category]int)

	for i := 0; i < deals; i++ {
		d := deck.New(rng)
		d.Shuffle()
		cards, err := d.DrawN(7)
		if err != nil {
			return err
		}
		hand, err := evaluator.Evaluate(cards)
		if err != nil {
			return err
		}
		counts[hand.Category]++
	}

	fmt.Printf("category frequencies over %d deals (seed %d)\n\n", deals, seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "category\tobserved\texpected\tstatus")

	failures := 0
	for cat := evaluator.HighCard; cat <= evaluator.StraightFlush; cat++ {
		observed := float64(counts[cat]) / float64(deals)
		expected := expectedFrequency[cat]

		// Allow five standard deviations of sampling noise.
		sigma := math.Sqrt(expected * (1 - expected) / float64(deals))
		status := "ok"
		if math.Abs(observed-expected) > 5*sigma {
			status = "MISMATCH"
			failures++
		}
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%s\n", cat, observed, expected, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%d categories outside tolerance", failures)
	}
	fmt.Println("\nall categories within tolerance")
	return nil
}
