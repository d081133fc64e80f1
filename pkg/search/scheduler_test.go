package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/board/fen"
	"github.com/herohde/branchwise/pkg/eval"
	"github.com/herohde/branchwise/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerReturnsMoveFromInitialPosition(t *testing.T) {
	b := mustBoard(t, fen.Initial)
	sched := search.NewScheduler(eval.Heuristic{}, 4)

	result, err := sched.Search(context.Background(), b, eval.GamePhase{}, 100*time.Millisecond)
	require.NoError(t, err)
	assert.NotNil(t, result.Board)
}

func TestSchedulerFindsMateInOneForWhite(t *testing.T) {
	b := mustBoard(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")
	sched := search.NewScheduler(eval.Heuristic{}, 4)

	result, err := sched.Search(context.Background(), b, eval.GamePhase{}, 50*time.Millisecond)
	require.NoError(t, err)

	side, depth, ok := result.Eval.IsMate()
	require.True(t, ok, "expected a forced mate, got %v", result.Eval)
	assert.Equal(t, board.White, side)
	assert.Equal(t, 1, depth)

	m, ok := result.Board.LastMove()
	require.True(t, ok)
	ra8, err := board.ParseMove("a1a8")
	require.NoError(t, err)
	assert.True(t, m.Equals(ra8), "expected Ra8#, got %v", m)
}

func TestSchedulerFindsMateInOneForBlack(t *testing.T) {
	// Mirror of the white mate-in-one: white king trapped behind its own pawns, black rook
	// delivers Ra1#.
	b := mustBoard(t, "r6k/8/8/8/8/8/5PPP/6K1 b - - 0 1")
	sched := search.NewScheduler(eval.Heuristic{}, 4)

	result, err := sched.Search(context.Background(), b, eval.GamePhase{}, 50*time.Millisecond)
	require.NoError(t, err)

	side, depth, ok := result.Eval.IsMate()
	require.True(t, ok, "expected a forced mate, got %v", result.Eval)
	assert.Equal(t, board.Black, side)
	assert.Equal(t, 1, depth)

	m, ok := result.Board.LastMove()
	require.True(t, ok)
	ra1, err := board.ParseMove("a8a1")
	require.NoError(t, err)
	assert.True(t, m.Equals(ra1), "expected Ra1#, got %v", m)
}

func TestSchedulerChoosesObviousCapture(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	sched := search.NewScheduler(eval.Heuristic{}, 4)

	result, err := sched.Search(context.Background(), b, eval.GamePhase{}, 100*time.Millisecond)
	require.NoError(t, err)

	m, ok := result.Board.LastMove()
	require.True(t, ok)
	exd5, err := board.ParseMove("e4d5")
	require.NoError(t, err)
	assert.True(t, m.Equals(exd5), "expected exd5, got %v", m)
}

// TestSchedulerAgreesAcrossWorkerCounts is the concurrency-stress scenario (§8, scenario 6):
// a single-worker and an eight-worker run over the same budget must agree on the top move.
// The capture exd5 wins the queen outright, so both runs pick it at whatever depth each
// reaches within the budget.
func TestSchedulerAgreesAcrossWorkerCounts(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")

	solo := search.NewScheduler(eval.Heuristic{}, 1)
	soloResult, err := solo.Search(context.Background(), b, eval.GamePhase{}, 100*time.Millisecond)
	require.NoError(t, err)

	parallel := search.NewScheduler(eval.Heuristic{}, 8)
	parallelResult, err := parallel.Search(context.Background(), b, eval.GamePhase{}, 100*time.Millisecond)
	require.NoError(t, err)

	soloMove, ok := soloResult.Board.LastMove()
	require.True(t, ok)
	parallelMove, ok := parallelResult.Board.LastMove()
	require.True(t, ok)
	assert.True(t, soloMove.Equals(parallelMove), "solo picked %v, parallel picked %v", soloMove, parallelMove)
}

func TestSchedulerRejectsPositionWithNoLegalMoves(t *testing.T) {
	b := mustBoard(t, "R6k/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	sched := search.NewScheduler(eval.Heuristic{}, 2)

	_, err := sched.Search(context.Background(), b, eval.GamePhase{}, 10*time.Millisecond)
	assert.Error(t, err)
}
