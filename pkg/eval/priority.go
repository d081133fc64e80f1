package eval

import "github.com/herohde/branchwise/pkg/board"

// Priority is the move-ordering scorer C2: it re-scales a child's Eval into "how promising
// is extending this node next", independent of side to move, favoring shallow frontier
// nodes and rewarding the capture that produced the child.
//
// Non-numeric evals (mate, +/-inf) pass through unchanged: they are already maximally or
// minimally attractive regardless of depth or material, and DEPTH_PENALTY/CAPTURE_BONUS
// arithmetic is undefined on them (Eval.Add panics outside Numeric).
func Priority(parent, child *board.Board, depth int, e Eval) Eval {
	v, ok := e.Value()
	if !ok {
		return e
	}

	if child.Turn() == board.Black {
		v = -v
	}
	v -= Pawns(depth) * depthPenalty

	if captured, ok := capturedPieceValue(parent, child); ok {
		v += captured * (captureBonus - Pawns(depth)*depthPenalty)
	}

	return Numeric(v)
}

// capturedPieceValue detects a capture by diffing the side-to-move's piece bitboards
// between parent and child, and returns the nominal value of whatever piece vanished.
func capturedPieceValue(parent, child *board.Board) (Pawns, bool) {
	opp := parent.Turn().Opponent()
	pp, cp := parent.Position(), child.Position()

	for p := board.Pawn; p < board.NumPieces; p++ {
		before := pp.Piece(opp, p).PopCount()
		after := cp.Piece(opp, p).PopCount()
		if after < before {
			return NominalValue(p) * Pawns(before-after), true
		}
	}
	return 0, false
}
