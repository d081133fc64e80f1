package eval

import "github.com/herohde/branchwise/pkg/board"

// GamePhaseKind distinguishes the three stages of a game relevant to book lookup and
// evaluation blending.
type GamePhaseKind uint8

const (
	Opening GamePhaseKind = iota
	MiddleGame
	EndGame
)

// GamePhase identifies the current stage of a game. Only Opening carries a key (the book
// node id the controller is currently tracking); the others are bare.
type GamePhase struct {
	Kind   GamePhaseKind
	BookID int64 // meaningful iff Kind == Opening
}

// NewOpening returns the Opening phase tracking the given book node.
func NewOpening(id int64) GamePhase {
	return GamePhase{Kind: Opening, BookID: id}
}

func (p GamePhase) String() string {
	switch p.Kind {
	case Opening:
		return "opening"
	case MiddleGame:
		return "middlegame"
	case EndGame:
		return "endgame"
	default:
		return "?"
	}
}

// materialPhase is the classic tapered-eval phase counter: 24 at the start of the game,
// trending towards 0 as material is traded off. It has no bearing on GamePhase above, which
// is about book tracking, not evaluation blending.
func materialPhase(pos *board.Position) int {
	phase := 0
	phase += (pos.Piece(board.White, board.Knight).PopCount() + pos.Piece(board.Black, board.Knight).PopCount()) * knightPhase
	phase += (pos.Piece(board.White, board.Bishop).PopCount() + pos.Piece(board.Black, board.Bishop).PopCount()) * bishopPhase
	phase += (pos.Piece(board.White, board.Rook).PopCount() + pos.Piece(board.Black, board.Rook).PopCount()) * rookPhase
	phase += (pos.Piece(board.White, board.Queen).PopCount() + pos.Piece(board.Black, board.Queen).PopCount()) * queenPhase
	if phase > totalPhase {
		phase = totalPhase
	}
	return phase
}

const (
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	totalPhase  = 24
)
