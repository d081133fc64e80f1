package search_test

import (
	"context"
	"testing"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/board/fen"
	"github.com/herohde/branchwise/pkg/eval"
	"github.com/herohde/branchwise/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, f string) *board.Board {
	t.Helper()

	pos, turn, noprogress, fullmoves, err := fen.Decode(f)
	require.NoError(t, err)

	zt := board.NewZobristTable(0)
	return board.NewBoard(zt, pos, turn, noprogress, fullmoves)
}

func TestExpandLegalMoveClosure(t *testing.T) {
	b := mustBoard(t, fen.Initial)
	root := search.NewRoot(b, eval.GamePhase{})

	search.EvaluateSelf(context.Background(), root, eval.Heuristic{}, 0)
	search.Expand(context.Background(), root, eval.Heuristic{}, 1)

	assert.False(t, root.IsTerminal)
	assert.Len(t, root.Children, len(b.Position().LegalMoves(b.Turn())))

	seen := map[board.Move]bool{}
	for _, child := range root.Children {
		assert.True(t, child.IsTerminal)
		assert.True(t, child.Evaluated)

		m, ok := child.Board.LastMove()
		require.True(t, ok)
		assert.False(t, seen[m], "duplicate child move")
		seen[m] = true
	}
}

func TestFindSurfaceTerminalFindsRoot(t *testing.T) {
	b := mustBoard(t, fen.Initial)
	root := search.NewRoot(b, eval.GamePhase{})

	loc, ok := search.FindSurfaceTerminal(root, nil)
	require.True(t, ok)
	assert.Empty(t, loc)
}

func TestFindSurfaceTerminalAfterExpand(t *testing.T) {
	b := mustBoard(t, fen.Initial)
	root := search.NewRoot(b, eval.GamePhase{})
	search.EvaluateSelf(context.Background(), root, eval.Heuristic{}, 0)
	search.Expand(context.Background(), root, eval.Heuristic{}, 1)

	loc, ok := search.FindSurfaceTerminal(root, nil)
	require.True(t, ok)
	require.Len(t, loc, 1)
	assert.True(t, search.Locate(root, loc).IsTerminal)
}

func TestInsertAtPreservesSiblingLocations(t *testing.T) {
	b := mustBoard(t, fen.Initial)
	root := search.NewRoot(b, eval.GamePhase{})
	search.EvaluateSelf(context.Background(), root, eval.Heuristic{}, 0)
	search.Expand(context.Background(), root, eval.Heuristic{}, 1)

	siblingLoc := search.Location{1}
	sibling := search.Locate(root, siblingLoc)
	before := sibling.Board.String()

	target := search.Location{0}
	snapshot := search.Locate(root, target).Clone()
	search.Expand(context.Background(), snapshot, eval.Heuristic{}, 2)
	search.InsertAt(root, target, snapshot)

	assert.False(t, search.Locate(root, target).IsTerminal)
	assert.Equal(t, before, search.Locate(root, siblingLoc).Board.String())
}

func TestSimpleMinimaxRollsUpMaxForWhite(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	root := &search.Branch{Board: b, IsTerminal: false}

	worse := &search.Branch{Board: b, Eval: eval.Numeric(-1), Evaluated: true, IsTerminal: true}
	better := &search.Branch{Board: b, Eval: eval.Numeric(2), Evaluated: true, IsTerminal: true}
	unfinished := &search.Branch{Board: b, IsTerminal: true} // Evaluated == false: must be skipped

	root.Children = []*search.Branch{worse, better, unfinished}

	e, loc := search.SimpleMinimax(root, nil, true)
	require.Equal(t, eval.Numeric(2), e)
	assert.Equal(t, search.Location{1}, loc)
	assert.Equal(t, eval.Numeric(2), root.Eval)
}

func TestMateBeatsMaterial(t *testing.T) {
	// White to move, mate in one: Ra8#.
	b := mustBoard(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")
	root := search.NewRoot(b, eval.GamePhase{})

	ctx := context.Background()
	search.EvaluateSelf(ctx, root, eval.Heuristic{}, 0)
	search.Expand(ctx, root, eval.Heuristic{}, 1)

	best, ok := search.BestChild(root, true)
	require.True(t, ok)

	side, depth, isMate := root.Children[best].Eval.IsMate()
	require.True(t, isMate)
	assert.Equal(t, board.White, side)
	assert.Equal(t, 1, depth) // ply from root, not from the mated position

	// The root's own rolled-up eval must match: SimpleMinimax is a pure pass-through of
	// whichever child it selects, so root.Eval should equal the same Mate(1, White).
	rootSide, rootDepth, rootIsMate := root.Eval.IsMate()
	require.True(t, rootIsMate)
	assert.Equal(t, board.White, rootSide)
	assert.Equal(t, 1, rootDepth)
}
