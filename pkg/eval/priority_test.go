package eval_test

import (
	"testing"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/board/fen"
	"github.com/herohde/branchwise/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPlay(t *testing.T, pos, move string) (*board.Board, *board.Board) {
	t.Helper()

	p, side, noprogress, fullmoves, err := fen.Decode(pos)
	require.NoError(t, err)

	zt := board.NewZobristTable(0)
	parent := board.NewBoard(zt, p, side, noprogress, fullmoves)
	child := parent.Fork()

	parsed, err := board.ParseMove(move)
	require.NoError(t, err)

	// ParseMove carries no move type or captured piece; take those from the matching legal move.
	m := parsed
	for _, legal := range parent.Position().LegalMoves(parent.Turn()) {
		if legal.Equals(parsed) {
			m = legal
			break
		}
	}
	require.True(t, child.PushMove(m), "illegal move %v from %v", move, parent)

	return parent, child
}

func TestPriorityPassesThroughNonNumeric(t *testing.T) {
	parent, child := mustPlay(t, fen.Initial, "e2e4")
	mate := eval.Mate(0, board.White)

	got := eval.Priority(parent, child, 3, mate)
	assert.Equal(t, 0, eval.Compare(mate, got))
}

func TestPriorityFlipsSignForBlackToMove(t *testing.T) {
	parent, child := mustPlay(t, fen.Initial, "e2e4")
	require.Equal(t, board.Black, child.Turn())

	got := eval.Priority(parent, child, 1, eval.Numeric(2))
	v, ok := got.Value()
	require.True(t, ok)
	assert.Equal(t, eval.Pawns(-2)-10, v) // sign-flipped, then depth 1 * DEPTH_PENALTY(10) subtracted
}

func TestPriorityPenalizesDepth(t *testing.T) {
	parent, child := mustPlay(t, fen.Initial, "e2e4")

	shallow := eval.Priority(parent, child, 1, eval.Numeric(0))
	deep := eval.Priority(parent, child, 5, eval.Numeric(0))

	sv, _ := shallow.Value()
	dv, _ := deep.Value()
	assert.Greater(t, float64(sv), float64(dv))
}

func TestPriorityRewardsCapture(t *testing.T) {
	parent, quiet := mustPlay(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", "e1f1")
	_, capture := mustPlay(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", "e4d5")

	quietPrio := eval.Priority(parent, quiet, 1, eval.Numeric(0))
	capturePrio := eval.Priority(parent, capture, 1, eval.Numeric(0))

	qv, _ := quietPrio.Value()
	cv, _ := capturePrio.Value()
	assert.Greater(t, float64(cv), float64(qv))
}
