package estimator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablestakes/holdem/internal/deck"
)

func TestEstimateProbabilitiesSumToOne(t *testing.T) {
	est := New(WithWorkers(4), WithSeed(1), WithSamples(5000))

	hole := deck.MustParseCards("AsKh")
	board := deck.MustParseCards("2c7d9h")

	result, err := est.Estimate(context.Background(), hole, board, nil, 2)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Win+result.Tie+result.Loss, 1e-9)
	assert.GreaterOrEqual(t, result.Win, 0.0)
	assert.GreaterOrEqual(t, result.Tie, 0.0)
	assert.GreaterOrEqual(t, result.Loss, 0.0)
}

func TestEstimateNoOpponentsFullBoard(t *testing.T) {
	est := New(WithSeed(1))

	hole := deck.MustParseCards("AsKh")
	board := deck.MustParseCards("2c7d9hJsQd")

	result, err := est.Estimate(context.Background(), hole, board, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, ModeExhaustive, result.Mode)
	assert.Equal(t, int64(1), result.Outcomes)
	assert.Equal(t, 1.0, result.Win)
	assert.Equal(t, 0.0, result.Tie)
	assert.Equal(t, 0.0, result.Loss)
}

func TestEstimateBoardPlaysRoyalFlush(t *testing.T) {
	est := New(WithWorkers(2), WithSeed(1))

	// The board is a royal flush, so every showdown splits.
	hole := deck.MustParseCards("2c7d")
	board := deck.MustParseCards("AsKsQsJsTs")

	result, err := est.Estimate(context.Background(), hole, board, nil, 1)
	require.NoError(t, err)

	assert.Equal(t, ModeExhaustive, result.Mode)
	assert.Equal(t, 1.0, result.Tie)
	assert.Equal(t, 0.0, result.Win)
}

func TestEstimateUnbeatableQuads(t *testing.T) {
	est := New(WithWorkers(2), WithSeed(1))

	// Quad aces on a rainbow board no opponent can outdraw.
	hole := deck.MustParseCards("AsAh")
	board := deck.MustParseCards("AdAc2s7h9d")

	result, err := est.Estimate(context.Background(), hole, board, nil, 1)
	require.NoError(t, err)

	assert.Equal(t, ModeExhaustive, result.Mode)
	assert.Equal(t, 1.0, result.Win)
}

func TestEstimateExhaustiveIdenticalAcrossWorkerCounts(t *testing.T) {
	hole := deck.MustParseCards("QsQh")
	board := deck.MustParseCards("2c7d9hJs")

	var estimates []Estimate
	for _, workers := range []int{1, 2, 5} {
		est := New(WithWorkers(workers), WithSeed(1))
		result, err := est.Estimate(context.Background(), hole, board, nil, 1)
		require.NoError(t, err)
		require.Equal(t, ModeExhaustive, result.Mode)
		estimates = append(estimates, result)
	}

	assert.Equal(t, estimates[0], estimates[1])
	assert.Equal(t, estimates[0], estimates[2])
}

func TestEstimateSampledWhenOverBudget(t *testing.T) {
	est := New(WithWorkers(2), WithSeed(42), WithBudget(100), WithSamples(2000))

	hole := deck.MustParseCards("AsKh")
	board := deck.MustParseCards("2c7d9hJsQd")

	result, err := est.Estimate(context.Background(), hole, board, nil, 1)
	require.NoError(t, err)

	assert.Equal(t, ModeSampled, result.Mode)
	assert.Equal(t, int64(2000), result.Outcomes)
	assert.InDelta(t, 1.0, result.Win+result.Tie+result.Loss, 1e-9)
}

func TestEstimateSampledReproduciblePerSeed(t *testing.T) {
	run := func(seed int64) Estimate {
		est := New(WithWorkers(3), WithSeed(seed), WithSamples(5000))
		result, err := est.Estimate(context.Background(), deck.MustParseCards("AsAh"), nil, nil, 1)
		require.NoError(t, err)
		require.Equal(t, ModeSampled, result.Mode)
		return result
	}

	assert.Equal(t, run(7), run(7))
}

func TestEstimatePocketAcesPreflop(t *testing.T) {
	est := New(WithWorkers(4), WithSeed(1), WithSamples(20000))

	result, err := est.Estimate(context.Background(), deck.MustParseCards("AsAh"), nil, nil, 1)
	require.NoError(t, err)

	// AA vs one random hand wins roughly 85% of the time.
	assert.InDelta(t, 0.85, result.Win, 0.03)
}

func TestEstimateDeadCardsShrinkOutcomeSpace(t *testing.T) {
	hole := deck.MustParseCards("AsKh")
	board := deck.MustParseCards("2c7d9hJsQd")

	est := New(WithWorkers(1), WithSeed(1))

	without, err := est.Estimate(context.Background(), hole, board, nil, 1)
	require.NoError(t, err)

	dead := deck.MustParseCards("2h3h4h")
	with, err := est.Estimate(context.Background(), hole, board, dead, 1)
	require.NoError(t, err)

	assert.Greater(t, without.Outcomes, with.Outcomes)
}

func TestEstimateInputErrors(t *testing.T) {
	est := New(WithSeed(1))
	ctx := context.Background()

	var evalErr *EvaluationError

	_, err := est.Estimate(ctx, deck.MustParseCards("As"), nil, nil, 1)
	assert.ErrorAs(t, err, &evalErr)

	_, err = est.Estimate(ctx, deck.MustParseCards("AsKh"), deck.MustParseCards("2c7d9hJsQd8s"), nil, 1)
	assert.ErrorAs(t, err, &evalErr)

	// Hole card repeated on the board
	_, err = est.Estimate(ctx, deck.MustParseCards("AsKh"), deck.MustParseCards("As7d9h"), nil, 1)
	assert.ErrorAs(t, err, &evalErr)

	// Board card in the dead pile
	_, err = est.Estimate(ctx, deck.MustParseCards("AsKh"), deck.MustParseCards("2c7d9h"), deck.MustParseCards("2c"), 1)
	assert.ErrorAs(t, err, &evalErr)

	// Too many opponents for the remaining deck
	_, err = est.Estimate(ctx, deck.MustParseCards("AsKh"), nil, nil, 24)
	assert.ErrorAs(t, err, &evalErr)
}

func TestEstimateCancelledContext(t *testing.T) {
	est := New(WithWorkers(2), WithSeed(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := est.Estimate(ctx, deck.MustParseCards("AsKh"), deck.MustParseCards("2c7d9hJsQd"), nil, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
