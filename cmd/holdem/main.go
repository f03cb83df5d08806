package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tablestakes/holdem/internal/config"
	"github.com/tablestakes/holdem/internal/estimator"
	"github.com/tablestakes/holdem/internal/game"
	"github.com/tablestakes/holdem/internal/randutil"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

type CLI struct {
	Config  string `short:"c" default:"holdem.hcl" help:"Path to HCL config file"`
	Players int    `short:"p" help:"Players at the table, you plus AI (overrides config)"`
	Name    string `default:"You" help:"Your display name"`
	Seed    *int64 `help:"Random seed for reproducible deals"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Play Texas hold'em against AI opponents."))

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "holdem: %v\n", err)
		kctx.Exit(1)
	}
	if cli.Players > 0 {
		cfg.Table.Players = cli.Players
	}

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           parseLevel(cfg.Table.LogLevel),
		ReportTimestamp: false,
	})

	if err := run(cli, cfg, seed, logger); err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Println("\nbye")
			return
		}
		fmt.Fprintf(os.Stderr, "holdem: %v\n", err)
		kctx.Exit(1)
	}
}

func run(cli CLI, cfg *config.Config, seed int64, logger *log.Logger) error {
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
	names[0] = cli.Name
	agents[0] = game.NewHumanAgent(cli.Name, os.Stdin, os.Stdout)
	for i := 1; i < cfg.Table.Players; i++ {
		names[i] = fmt.Sprintf("AI %d", i)
		agents[i] = game.NewAIAgent(names[i], est, randutil.New(randutil.Derive(seed, i)))
	}

	events := game.NewBus()
	events.Subscribe(game.LogSubscriber(logger))

	table, err := game.NewTable(names, cfg.Table.StartingChips, cfg.Table.Ante, randutil.New(seed), events)
	if err != nil {
		return err
	}
	engine, err := game.NewEngine(table, agents, logger)
	if err != nil {
		return err
	}

	if err := engine.Run(context.Background(), cfg.Table.MaxHands); err != nil {
		return err
	}

	fmt.Println("\n" + headerStyle.Render("Final standings:"))
	best := 0
	for _, p := range table.Players() {
		if p.Chips > best {
			best = p.Chips
		}
	}
	for _, p := range table.Players() {
		line := fmt.Sprintf("  %-10s %d chips", p.Name, p.Chips)
		if p.Chips == best && best > 0 {
			line = winnerStyle.Render(line)
		}
		fmt.Println(line)
	}
	return nil
}

func parseLevel(s string) log.Level {
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
