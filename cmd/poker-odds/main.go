package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/estimator"
)

type CLI struct {
	Hand      string        `arg:"" help:"Hero hole cards, e.g. 'AsKh'" required:""`
	Board     string        `short:"b" help:"Community cards dealt so far, e.g. 'Td7s8h'"`
	Dead      string        `short:"d" help:"Known dead cards out of play"`
	Opponents int           `short:"o" default:"1" help:"Number of opponents"`
	Workers   int           `help:"Parallel workers (0 for CPU count)"`
	Budget    int64         `default:"10000000" help:"Max outcomes to enumerate exhaustively"`
	Samples   int           `default:"100000" help:"Monte Carlo samples when over budget"`
	Seed      *int64        `help:"Random seed for reproducible sampling"`
	Timeout   time.Duration `default:"30s" help:"Give up and report partial results after this long"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Win/tie/loss odds for a hold'em hand."))

	hole, err := deck.ParseCards(cli.Hand)
	if err != nil {
		fatal(kctx, "parsing hand: %v", err)
	}
	if len(hole) != 2 {
		fatal(kctx, "hand must be exactly 2 cards, got %d", len(hole))
	}

	var board []deck.Card
	if cli.Board != "" {
		if board, err = deck.ParseCards(cli.Board); err != nil {
			fatal(kctx, "parsing board: %v", err)
		}
	}

	var dead []deck.Card
	if cli.Dead != "" {
		if dead, err = deck.ParseCards(cli.Dead); err != nil {
			fatal(kctx, "parsing dead cards: %v", err)
		}
	}

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}

	opts := []estimator.Option{
		estimator.WithBudget(cli.Budget),
		estimator.WithSamples(cli.Samples),
		estimator.WithSeed(seed),
	}
	if cli.Workers > 0 {
		opts = append(opts, estimator.WithWorkers(cli.Workers))
	}
	est := estimator.New(opts...)

	ctx, cancel := context.WithTimeout(context.Background(), cli.Timeout)
	defer cancel()

	start := time.Now()
	result, err := est.Estimate(ctx, hole, board, dead, cli.Opponents)
	if err != nil {
		fatal(kctx, "%v", err)
	}
	elapsed := time.Since(start)

	printResult(hole, board, cli.Opponents, result, elapsed)
}

func printResult(hole, board []deck.Card, opponents int, result estimator.Estimate, elapsed time.Duration) {
	fmt.Println(headerStyle.Render("Hold'em Odds"))
	fmt.Printf("%s vs %d opponent(s)", handStyle.Render(cardString(hole)), opponents)
	if len(board) > 0 {
		fmt.Printf("  board %s", handStyle.Render(cardString(board)))
	}
	fmt.Println()
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", winStyle.Render("Win"), winStyle.Render(fmt.Sprintf("%6.2f%%", result.Win*100)))
	fmt.Fprintf(w, "%s\t%s\n", tieStyle.Render("Tie"), tieStyle.Render(fmt.Sprintf("%6.2f%%", result.Tie*100)))
	fmt.Fprintf(w, "%s\t%s\n", lossStyle.Render("Loss"), lossStyle.Render(fmt.Sprintf("%6.2f%%", result.Loss*100)))
	w.Flush()

	fmt.Println()
	fmt.Println(modeStyle.Render(fmt.Sprintf("%s over %d outcomes in %s", result.Mode, result.Outcomes, elapsed.Round(time.Millisecond))))
}

func cardString(cards []deck.Card) string {
	s := ""
	for i, c := range cards {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s
}

func fatal(kctx *kong.Context, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "poker-odds: "+format+"\n", args...)
	kctx.Exit(1)
}
