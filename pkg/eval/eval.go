// Package eval contains position evaluation logic and utilities: the static heuristic
// evaluator, the move-ordering priority scorer, and the Eval value type they share.
package eval

import (
	"context"
	"fmt"

	"github.com/herohde/branchwise/pkg/board"
)

// Pawns is the unit of a numeric evaluation: positive favors White, negative favors Black.
type Pawns float64

// class is the discriminant of an Eval.
type class uint8

const (
	classNegInfinity class = iota
	classMateBlack
	classNumeric
	classMateWhite
	classInfinity
)

// Eval is a tagged value representing a position score. It forms a hand-written total
// order:
//
//	NegInfinity < Mate(d, Black) < Numeric(x) < Mate(d, White) < Infinity
//
// Within the Mate variants, a shorter mate is more extreme for the side that delivers it:
// Mate(1, White) ranks above Mate(5, White) (a faster win is better for White), while
// Mate(1, Black) ranks below Mate(5, Black) (a faster loss is worse for White). Arithmetic
// (Add, Negate) is only meaningful on the Numeric variant; Negate is defined on every
// variant since "the position from the other side's perspective" is always well-formed,
// but Add panics outside of Numeric.
type Eval struct {
	class class
	depth int   // meaningful for classMateBlack/classMateWhite
	value Pawns // meaningful for classNumeric
}

// NegInfinity is strictly worse than every other Eval, for either side.
func NegInfinity() Eval { return Eval{class: classNegInfinity} }

// Infinity is strictly better than every other Eval, for either side.
func Infinity() Eval { return Eval{class: classInfinity} }

// Numeric wraps a finite heuristic value.
func Numeric(v Pawns) Eval { return Eval{class: classNumeric, value: v} }

// Mate represents a forced mate in depth plies delivered by side.
func Mate(depth int, side board.Color) Eval {
	if side == board.White {
		return Eval{class: classMateWhite, depth: depth}
	}
	return Eval{class: classMateBlack, depth: depth}
}

// IsNumeric reports whether the Eval carries a finite numeric value.
func (e Eval) IsNumeric() bool {
	return e.class == classNumeric
}

// Numeric returns the finite value carried by the Eval, if any.
func (e Eval) Value() (Pawns, bool) {
	return e.value, e.class == classNumeric
}

// IsMate reports whether the Eval represents a forced mate, and for which side and depth.
func (e Eval) IsMate() (side board.Color, depth int, ok bool) {
	switch e.class {
	case classMateWhite:
		return board.White, e.depth, true
	case classMateBlack:
		return board.Black, e.depth, true
	default:
		return 0, 0, false
	}
}

// Add returns e + v. Panics unless e is Numeric.
func (e Eval) Add(v Pawns) Eval {
	if e.class != classNumeric {
		panic(fmt.Sprintf("arithmetic on non-numeric eval: %v", e))
	}
	return Numeric(e.value + v)
}

// Negate returns the Eval from the other side's perspective.
func (e Eval) Negate() Eval {
	switch e.class {
	case classNegInfinity:
		return Infinity()
	case classInfinity:
		return NegInfinity()
	case classMateBlack:
		return Eval{class: classMateWhite, depth: e.depth}
	case classMateWhite:
		return Eval{class: classMateBlack, depth: e.depth}
	case classNumeric:
		return Numeric(-e.value)
	default:
		return e
	}
}

func (e Eval) rank() (class, float64) {
	switch e.class {
	case classMateBlack:
		return e.class, float64(e.depth)
	case classMateWhite:
		return e.class, -float64(e.depth)
	case classNumeric:
		return e.class, float64(e.value)
	default:
		return e.class, 0
	}
}

// Compare returns -1, 0 or 1 as a is worse than, equal to, or better than b.
func Compare(a, b Eval) int {
	ca, ta := a.rank()
	cb, tb := b.rank()
	switch {
	case ca < cb:
		return -1
	case ca > cb:
		return 1
	case ta < tb:
		return -1
	case ta > tb:
		return 1
	default:
		return 0
	}
}

// Less reports whether a is strictly worse than b.
func Less(a, b Eval) bool {
	return Compare(a, b) < 0
}

// Max returns the better of a and b.
func Max(a, b Eval) Eval {
	if Less(a, b) {
		return b
	}
	return a
}

// Min returns the worse of a and b.
func Min(a, b Eval) Eval {
	if Less(b, a) {
		return b
	}
	return a
}

func (e Eval) String() string {
	switch e.class {
	case classNegInfinity:
		return "-inf"
	case classInfinity:
		return "+inf"
	case classMateWhite:
		return fmt.Sprintf("mate(%v, w)", e.depth)
	case classMateBlack:
		return fmt.Sprintf("mate(%v, b)", e.depth)
	case classNumeric:
		return fmt.Sprintf("%.2f", float64(e.value))
	default:
		return "?"
	}
}

// Evaluator is a static position evaluator. It must classify terminal positions (mate,
// stalemate, draws) before falling back to a heuristic Numeric value, and it must be pure:
// no side effects, no randomness, no hidden state beyond the position itself. depth is the
// ply from the search root at which b occurs, passed in by the search so that a forced mate
// can be tagged with its distance from root rather than from the mated position itself.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board, depth int) Eval
}

// terminalEval classifies a concluded or immediately-decidable position. Returns ok=false
// if the game is ongoing and the caller should fall back to heuristic evaluation.
func terminalEval(b *board.Board, depth int) (Eval, bool) {
	if moves := b.Position().LegalMoves(b.Turn()); len(moves) == 0 {
		result := b.AdjudicateNoLegalMoves()
		if winner, ok := result.Winner(); ok {
			return Mate(depth, winner), true
		}
		return Numeric(0), true
	}
	if result := b.Result(); result.IsDone() {
		return Numeric(0), true
	}
	return Eval{}, false
}

// NominalValue the absolute nominal value in pawns of a piece. The King has an arbitrary value of 100 pawns.
func NominalValue(p board.Piece) Pawns {
	switch p {
	case board.Pawn:
		return 1
	case board.Bishop, board.Knight:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	case board.King:
		return 100
	default:
		return 0
	}
}
