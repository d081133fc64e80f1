package book_test

import (
	"context"
	"testing"

	"github.com/herohde/branchwise/pkg/board/fen"
	"github.com/herohde/branchwise/pkg/book"
	"github.com/herohde/branchwise/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBook(t *testing.T) *book.SQLiteBook {
	t.Helper()

	ctx := context.Background()
	b, err := book.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	seed := []string{
		`INSERT INTO boards (id, fen) VALUES (0, '` + fen.Initial + `')`,
		`INSERT INTO boards (id, fen) VALUES (1, 'rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1')`,
		`INSERT INTO boards (id, fen) VALUES (2, 'rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1')`,
		`INSERT INTO boards (id, fen) VALUES (3, 'rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2')`,
		`INSERT INTO moves (id, parent_move, san, eval, frequency, terminal) VALUES (1, 0, 'e2e4', 0.3, 12, 0)`,
		`INSERT INTO moves (id, parent_move, san, eval, frequency, terminal) VALUES (2, 0, 'd2d4', 0.1, 2, 0)`,  // below consensus
		`INSERT INTO moves (id, parent_move, san, eval, frequency, terminal) VALUES (3, 1, 'e7e5', 0.2, 20, 1)`, // terminal leaf
	}
	for _, stmt := range seed {
		_, err := b.DB().ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return b
}

func TestPlayBookMovePicksHighestFrequencyAboveConsensus(t *testing.T) {
	b := openTestBook(t)
	ctx := context.Background()

	f, phase, ok, err := b.PlayBookMove(ctx, book.RootID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", f)
	assert.Equal(t, eval.NewOpening(1), phase)
}

func TestPlayBookMoveTerminalReturnsMiddleGame(t *testing.T) {
	b := openTestBook(t)
	ctx := context.Background()

	_, phase, ok, err := b.PlayBookMove(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, eval.GamePhase{Kind: eval.MiddleGame}, phase)
}

func TestPlayBookMoveNoConsensusFallsBackToMiddleGame(t *testing.T) {
	b := openTestBook(t)
	ctx := context.Background()

	// Node 2 has no recorded children at all.
	_, phase, ok, err := b.PlayBookMove(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, eval.GamePhase{Kind: eval.MiddleGame}, phase)
}

func TestSearchManualFindsTrackedReply(t *testing.T) {
	b := openTestBook(t)
	ctx := context.Background()

	phase, ok := b.SearchManual(ctx, book.RootID, "e2e4")
	require.True(t, ok)
	assert.Equal(t, eval.NewOpening(1), phase)

	_, ok = b.SearchManual(ctx, book.RootID, "g1f3")
	assert.False(t, ok)

	_, ok = b.SearchManual(ctx, 1, "e7e5")
	assert.False(t, ok, "a terminal book leaf has no phase to track")
}
