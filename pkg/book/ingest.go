package book

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/board/fen"
)

// MaxPlies bounds how deep into a game Ingest records moves, grounded on
// original_source/chess_openings/src/main.rs's "go no deeper than 12 moves" cutoff (there,
// 12 full moves; here, in plies, since the book is keyed ply by ply).
const MaxPlies = 24

// game is one parsed PGN game: its tag pairs and its move tokens in SAN order.
type game struct {
	tags  map[string]string
	moves []string
}

var (
	tagLine     = regexp.MustCompile(`^\[(\S+)\s+"([^"]*)"\]$`)
	commentRun  = regexp.MustCompile(`\{[^}]*\}`)
	nag         = regexp.MustCompile(`\$\d+`)
	moveNumber  = regexp.MustCompile(`^\d+\.+`)
	resultToken = regexp.MustCompile(`^(1-0|0-1|1/2-1/2|\*)$`)
)

// parsePGN splits r into games, grouping consecutive tag-pair lines as one game's metadata
// and the following non-tag lines (until the next tag-pair run) as its movetext. Grounded
// on original_source/chess_openings/src/main.rs's add_from_file, which splits on "[Event"
// boundaries; this does the same split by structure rather than by a literal marker, so it
// tolerates PGN exports with tags in any order.
func parsePGN(r io.Reader) ([]game, error) {
	var games []game
	var tags map[string]string
	var text strings.Builder

	flush := func() {
		if tags == nil && text.Len() == 0 {
			return
		}
		games = append(games, game{tags: tags, moves: tokenizeMovetext(text.String())})
		tags, text = nil, strings.Builder{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if m := tagLine.FindStringSubmatch(line); m != nil {
			if tags == nil {
				flush()
				tags = map[string]string{}
			} else if text.Len() > 0 {
				flush()
				tags = map[string]string{}
			}
			tags[m[1]] = m[2]
			continue
		}
		text.WriteString(line)
		text.WriteString(" ")
	}
	flush()
	return games, scanner.Err()
}

func tokenizeMovetext(text string) []string {
	text = commentRun.ReplaceAllString(text, " ")
	text = nag.ReplaceAllString(text, " ")

	var moves []string
	for _, f := range strings.Fields(text) {
		f = moveNumber.ReplaceAllString(f, "")
		if f == "" || resultToken.MatchString(f) {
			continue
		}
		moves = append(moves, f)
	}
	return moves
}

// IngestResult summarizes one call to Ingest.
type IngestResult struct {
	Games   int
	Skipped int
}

// Ingest reads a PGN corpus from r and folds every game's opening moves into the book,
// grounded on original_source/chess_openings/src/main.rs's add_game/add_move: each move
// seen is either a new child of the current book node (inserted with frequency 1) or an
// existing one (frequency incremented). A game with an unparseable move anywhere in its
// first MaxPlies plies is truncated at that point rather than rejected outright, mirroring
// the original's "break" on SAN parse failure.
func (b *SQLiteBook) Ingest(ctx context.Context, r io.Reader) (IngestResult, error) {
	games, err := parsePGN(r)
	if err != nil {
		return IngestResult{}, fmt.Errorf("book: parse pgn: %w", err)
	}

	var res IngestResult
	for _, g := range games {
		ok, err := b.ingestGame(ctx, g)
		if err != nil {
			return res, err
		}
		if ok {
			res.Games++
		} else {
			res.Skipped++
		}
	}

	if _, err := b.db.ExecContext(ctx,
		`UPDATE moves SET terminal = 1 WHERE id NOT IN (SELECT DISTINCT parent_move FROM moves)`); err != nil {
		return res, fmt.Errorf("book: mark leaves terminal: %w", err)
	}
	return res, nil
}

func (b *SQLiteBook) ingestGame(ctx context.Context, g game) (bool, error) {
	score, err := gameResultScore(g.tags)
	if err != nil {
		return false, nil // missing/malformed metadata: skip, don't fail the whole corpus
	}

	pos, turn, noprogress, fullmoves, err := fen.Decode(fen.Initial)
	if err != nil {
		return false, err
	}
	zt := board.NewZobristTable(0)
	bd := board.NewBoard(zt, pos, turn, noprogress, fullmoves)

	parent := RootID
	for i, san := range g.moves {
		if i >= MaxPlies {
			break
		}

		m, err := ParseSAN(bd.Position(), bd.Turn(), san)
		if err != nil {
			break // rest of the game is unreachable without this move; stop here
		}
		if !bd.PushMove(m) {
			break
		}

		weight := moveWeight(score, g.tags, bd.Turn().Opponent())
		id, err := b.addMove(ctx, parent, m.String(), weight)
		if err != nil {
			return false, err
		}
		if err := b.addBoard(ctx, id, fen.Encode(bd.Position(), bd.Turn(), bd.NoProgress(), bd.FullMoves())); err != nil {
			return false, err
		}
		parent = id
	}
	return true, nil
}

// addMove records one san as a child of parent, incrementing frequency if already present.
func (b *SQLiteBook) addMove(ctx context.Context, parent int64, san string, weight float64) (int64, error) {
	row := b.db.QueryRowContext(ctx, `SELECT id FROM moves WHERE parent_move = ? AND san = ?`, parent, san)
	var id int64
	switch err := row.Scan(&id); {
	case err == nil:
		_, err := b.db.ExecContext(ctx,
			`UPDATE moves SET eval = eval + ?, frequency = frequency + 1 WHERE id = ?`, weight, id)
		return id, err
	default:
		res, err := b.db.ExecContext(ctx,
			`INSERT INTO moves (parent_move, san, eval, frequency, terminal) VALUES (?, ?, ?, 1, 0)`,
			parent, san, weight)
		if err != nil {
			return 0, fmt.Errorf("book: insert move %v/%v: %w", parent, san, err)
		}
		return res.LastInsertId()
	}
}

func (b *SQLiteBook) addBoard(ctx context.Context, id int64, f string) error {
	row := b.db.QueryRowContext(ctx, `SELECT 1 FROM boards WHERE id = ?`, id)
	var exists int
	if err := row.Scan(&exists); err == nil {
		return nil
	}
	_, err := b.db.ExecContext(ctx, `INSERT INTO boards (id, fen) VALUES (?, ?)`, id, f)
	return err
}

// gameResultScore reads the PGN Result tag from white's perspective: 1 for a win, 0.5 for a
// draw, 0 for a loss.
func gameResultScore(tags map[string]string) (float64, error) {
	switch tags["Result"] {
	case "1-0":
		return 1, nil
	case "0-1":
		return 0, nil
	case "1/2-1/2":
		return 0.5, nil
	default:
		return 0, fmt.Errorf("book: missing or unrecognized Result tag")
	}
}

// moveWeight weights a move by the result (from the mover's side) and the mover's Elo,
// grounded on original_source/chess_openings/src/main.rs's eval_modifier (score * elo / 1000).
func moveWeight(whiteScore float64, tags map[string]string, mover board.Color) float64 {
	score := whiteScore
	eloKey := "WhiteElo"
	if mover == board.Black {
		score = 1 - whiteScore
		eloKey = "BlackElo"
	}
	elo, _ := strconv.Atoi(tags[eloKey])
	return score * float64(elo) / 1000
}
