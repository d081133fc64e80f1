package eval_test

import (
	"context"
	"testing"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/board/fen"
	"github.com/herohde/branchwise/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, pos string, depth int) eval.Eval {
	t.Helper()

	p, side, noprogress, fullmoves, err := fen.Decode(pos)
	require.NoError(t, err)

	zt := board.NewZobristTable(0)
	b := board.NewBoard(zt, p, side, noprogress, fullmoves)
	return eval.Heuristic{}.Evaluate(context.Background(), b, depth)
}

func TestHeuristicClassifiesTerminalPositions(t *testing.T) {
	const mated = "R6k/5ppp/8/8/8/8/8/6K1 b - - 0 1"

	tests := []struct {
		name  string
		pos   string
		depth int
		want  eval.Eval
	}{
		{"checkmate at the search root", mated, 0, eval.Mate(0, board.White)},
		{"checkmate one ply from the search root", mated, 1, eval.Mate(1, board.White)},
		{"stalemate is a draw", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 1, eval.Numeric(0)},
	}
	for _, tt := range tests {
		got := evaluate(t, tt.pos, tt.depth)
		assert.Equal(t, 0, eval.Compare(tt.want, got), "%v: want %v, got %v", tt.name, tt.want, got)
	}
}

func TestHeuristicSymmetricPositionIsBalanced(t *testing.T) {
	got := evaluate(t, fen.Initial, 0)
	v, ok := got.Value()
	require.True(t, ok)
	// All terms cancel except the tempo bonus (10 centipawns) for White, the side to move.
	assert.Equal(t, eval.Pawns(0.1), v)
}

func TestHeuristicMaterialAdvantageFavorsWhite(t *testing.T) {
	got := evaluate(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", 0)
	v, ok := got.Value()
	require.True(t, ok)
	assert.Positive(t, float64(v))
}

func TestHeuristicTempoFavorsSideToMove(t *testing.T) {
	white := evaluate(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0)
	black := evaluate(t, "4k3/8/8/8/8/8/8/4K3 b - - 0 1", 0)

	wv, ok := white.Value()
	require.True(t, ok)
	bv, ok := black.Value()
	require.True(t, ok)
	assert.Greater(t, float64(wv), float64(bv))
}
