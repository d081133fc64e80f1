package eval

import "github.com/herohde/branchwise/pkg/board"

// nearKingZone[color][kingSq] is the king's 8-neighbour ring plus the square two ranks
// ahead on the king's own file (the "one extra square directly in front" called for by the
// evaluator's mobility/king-attack step). It is direction-sensitive, hence keyed by color as
// well as square, and computed once here rather than per evaluation.
var nearKingZone [board.NumColors][board.NumSquares]board.Bitboard

func init() {
	for c := board.ZeroColor; c < board.NumColors; c++ {
		for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
			zone := board.KingAttackboard(sq)
			if front, ok := twoRanksAhead(sq, c); ok {
				zone |= board.BitMask(front)
			}
			nearKingZone[c][sq] = zone
		}
	}
}

// IsNearKing reports whether sq lies in the king zone of the king of the given color at kingSq.
func IsNearKing(c board.Color, kingSq, sq board.Square) bool {
	return nearKingZone[c][kingSq].IsSet(sq)
}

func twoRanksAhead(sq board.Square, c board.Color) (board.Square, bool) {
	r := sq.Rank()
	if c == board.White {
		if r > board.Rank6 {
			return 0, false
		}
		return board.NewSquare(sq.File(), r+2), true
	}
	if r < board.Rank3 {
		return 0, false
	}
	return board.NewSquare(sq.File(), r-2), true
}
