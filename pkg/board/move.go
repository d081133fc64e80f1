package board

import (
	"fmt"
	"strings"
)

// MoveType indicates the type of move. The no-progress counter is reset with any non-Normal move.
type MoveType uint8

const (
	Normal    MoveType = iota
	Push               // Pawn move
	Jump               // Pawn 2-square move
	EnPassant          // Implicitly a pawn capture
	QueenSideCastle
	KingSideCastle
	Capture
	Promotion
	CapturePromotion
)

// TODO(herohde) 2/21/2021: add remarks, like "dubious", to represent standard notation?

// Move represents a not-necessarily legal move along with contextual metadata.
type Move struct {
	Type      MoveType
	Piece     Piece    // piece that is moving.
	From, To  Square
	Promotion Piece // desired piece for promotion, if any.
	Capture   Piece // captured piece, if any.
}

// IsCapture returns true iff the move captures a piece, including en passant.
func (m Move) IsCapture() bool {
	return m.Type == Capture || m.Type == CapturePromotion || m.Type == EnPassant
}

// IsPromotion returns true iff the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Type == Promotion || m.Type == CapturePromotion
}

// EnPassantCapture returns the square of the pawn captured en passant, if any.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return 0, false
	}
	if m.To.Rank() == Rank6 {
		return NewSquare(m.To.File(), Rank5), true
	}
	return NewSquare(m.To.File(), Rank4), true
}

// EnPassantTarget returns the square that becomes en-passant-capturable after this move, if any.
func (m Move) EnPassantTarget() (Square, bool) {
	if m.Type != Jump {
		return 0, false
	}
	if m.To.Rank() == Rank4 {
		return NewSquare(m.To.File(), Rank3), true
	}
	return NewSquare(m.To.File(), Rank6), true
}

// CastlingRookMove returns the rook's from/to squares for a castling move.
func (m Move) CastlingRookMove() (from, to Square, ok bool) {
	switch m.Type {
	case KingSideCastle:
		if m.To.Rank() == Rank1 {
			return H1, F1, true
		}
		return H8, F8, true
	case QueenSideCastle:
		if m.To.Rank() == Rank1 {
			return A1, D1, true
		}
		return A8, D8, true
	default:
		return 0, 0, false
	}
}

// CastlingRightsLost returns the castling rights given up as a side effect of this move,
// based on the squares touched (king/rook moving, or rook being captured).
func (m Move) CastlingRightsLost() Castling {
	var lost Castling
	lost |= castlingRightsForSquare(m.From)
	lost |= castlingRightsForSquare(m.To)
	return lost
}

func castlingRightsForSquare(sq Square) Castling {
	switch sq {
	case E1:
		return WhiteKingSideCastle | WhiteQueenSideCastle
	case A1:
		return WhiteQueenSideCastle
	case H1:
		return WhiteKingSideCastle
	case E8:
		return BlackKingSideCastle | BlackQueenSideCastle
	case A8:
		return BlackQueenSideCastle
	case H8:
		return BlackKingSideCastle
	default:
		return 0
	}
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q".
// The parsed move does not contain contextual information like castling or en passant.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}

	return Move{From: from, To: to}, nil
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

func (m Move) String() string {
	if m.Promotion.IsValid() {
		return strings.ToLower(fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion))
	}
	return strings.ToLower(fmt.Sprintf("%v%v", m.From, m.To))
}
