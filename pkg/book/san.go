package book

import (
	"fmt"
	"strings"

	"github.com/herohde/branchwise/pkg/board"
)

// ParseSAN resolves a single standard algebraic notation token (e.g. "Nf3", "exd5",
// "O-O", "e8=Q+") against the legal moves of pos for turn. Used only by Ingest: the live
// controller and console never see SAN, only the long algebraic notation board.ParseMove
// understands (see DESIGN.md's "SAN for manual move entry" decision) — this exists solely
// to translate a PGN corpus into that convention at book-build time.
func ParseSAN(pos *board.Position, turn board.Color, token string) (board.Move, error) {
	san := strings.TrimRight(token, "+#!?")
	if san == "" {
		return board.Move{}, fmt.Errorf("san: empty token")
	}

	moves := pos.LegalMoves(turn)

	if san == "O-O" || san == "0-0" {
		return findCastle(moves, board.KingSideCastle, san)
	}
	if san == "O-O-O" || san == "0-0-0" {
		return findCastle(moves, board.QueenSideCastle, san)
	}

	var promotion board.Piece
	if i := strings.IndexByte(san, '='); i >= 0 {
		p, ok := board.ParsePiece(rune(san[i+1]))
		if !ok {
			return board.Move{}, fmt.Errorf("san: invalid promotion in %q", token)
		}
		promotion = p
		san = san[:i]
	}
	san = strings.ReplaceAll(san, "x", "")

	piece := board.Pawn
	if p, ok := board.ParsePiece(rune(san[0])); ok && san[0] != 'b' {
		// Lowercase 'b' is ambiguous between the bishop and the b-file; a leading
		// lowercase letter is only ever a file in SAN, never a piece.
		piece = p
		san = san[1:]
	}

	if len(san) < 2 {
		return board.Move{}, fmt.Errorf("san: too short: %q", token)
	}
	to, err := board.ParseSquareStr(san[len(san)-2:])
	if err != nil {
		return board.Move{}, fmt.Errorf("san: invalid destination in %q: %w", token, err)
	}
	disambig := san[:len(san)-2]

	var fromFile board.File
	var fromRank board.Rank
	haveFile, haveRank := false, false
	for _, r := range disambig {
		if f, ok := board.ParseFile(r); ok {
			fromFile, haveFile = f, true
			continue
		}
		if rk, ok := board.ParseRank(r); ok {
			fromRank, haveRank = rk, true
			continue
		}
	}

	var match board.Move
	found := 0
	for _, m := range moves {
		if m.Piece != piece || m.To != to || m.Promotion != promotion {
			continue
		}
		if haveFile && m.From.File() != fromFile {
			continue
		}
		if haveRank && m.From.Rank() != fromRank {
			continue
		}
		match, found = m, found+1
	}
	switch found {
	case 1:
		return match, nil
	case 0:
		return board.Move{}, fmt.Errorf("san: no legal move matches %q", token)
	default:
		return board.Move{}, fmt.Errorf("san: %q is ambiguous among %v legal moves", token, found)
	}
}

func findCastle(moves []board.Move, typ board.MoveType, token string) (board.Move, error) {
	for _, m := range moves {
		if m.Type == typ {
			return m, nil
		}
	}
	return board.Move{}, fmt.Errorf("san: no legal castle matches %q", token)
}
