package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/herohde/branchwise/pkg/eval"
	_ "modernc.org/sqlite"
)

// Schema is the DDL for a fresh book database (spec.md §6.4). Open executes it on every
// database it opens; Ingest (used by cmd/bookgen) populates the tables from a PGN corpus.
const Schema = `
CREATE TABLE IF NOT EXISTS boards (
	id  INTEGER PRIMARY KEY,
	fen TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS moves (
	id          INTEGER PRIMARY KEY,
	parent_move INTEGER NOT NULL,
	san         TEXT NOT NULL,
	eval        REAL NOT NULL,
	frequency   INTEGER NOT NULL DEFAULT 1,
	terminal    INTEGER NOT NULL DEFAULT 0,
	UNIQUE(parent_move, san)
);
CREATE INDEX IF NOT EXISTS moves_by_parent ON moves (parent_move);
`

// SQLiteBook is a Book backed by a SQLite database (modernc.org/sqlite: a pure-Go driver,
// no cgo) with the two tables spec.md §6.4 names: moves(id, parent_move, san, eval,
// frequency, terminal) and boards(id, fen).
type SQLiteBook struct {
	db *sql.DB
}

// Open opens (and, if absent, initializes) a book database at path.
func Open(ctx context.Context, path string) (*SQLiteBook, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("book: open %v: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("book: init schema %v: %w", path, err)
	}
	return &SQLiteBook{db: db}, nil
}

func (b *SQLiteBook) Close() error {
	return b.db.Close()
}

// DB exposes the underlying connection. Only the tests call it, to seed rows; cmd/bookgen
// writes through Ingest.
func (b *SQLiteBook) DB() *sql.DB {
	return b.db
}

type bookMove struct {
	id        int64
	san       string
	frequency int64
	terminal  bool
}

func (b *SQLiteBook) PlayBookMove(ctx context.Context, id int64) (string, eval.GamePhase, bool, error) {
	chosen, ok, err := b.findBestByParent(ctx, id)
	if err != nil {
		return "", eval.GamePhase{}, false, err
	}
	if !ok {
		return "", eval.GamePhase{Kind: eval.MiddleGame}, false, nil
	}

	f, err := b.boardFEN(ctx, chosen.id)
	if err != nil {
		return "", eval.GamePhase{}, false, err
	}

	phase := eval.NewOpening(chosen.id)
	if chosen.terminal {
		phase = eval.GamePhase{Kind: eval.MiddleGame}
	}
	return f, phase, true, nil
}

func (b *SQLiteBook) SearchManual(ctx context.Context, parentID int64, move string) (eval.GamePhase, bool) {
	row := b.db.QueryRowContext(ctx,
		`SELECT id, terminal FROM moves WHERE parent_move = ? AND san = ?`, parentID, move)

	var id int64
	var terminal int
	if err := row.Scan(&id, &terminal); err != nil {
		return eval.GamePhase{}, false
	}
	if terminal != 0 {
		return eval.GamePhase{}, false
	}
	return eval.NewOpening(id), true
}

// findBestByParent returns the highest-frequency child of parentID at or above
// ConsensusThreshold, grounded on original_source/chess_engine/src/engine/opening_book.rs's
// find_best_by_parent.
func (b *SQLiteBook) findBestByParent(ctx context.Context, parentID int64) (bookMove, bool, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT id, san, frequency, terminal FROM moves WHERE parent_move = ? AND frequency >= ?`,
		parentID, ConsensusThreshold)
	if err != nil {
		return bookMove{}, false, fmt.Errorf("book: query moves for %v: %w", parentID, err)
	}
	defer rows.Close()

	var best bookMove
	found := false
	for rows.Next() {
		var m bookMove
		var terminal int
		if err := rows.Scan(&m.id, &m.san, &m.frequency, &terminal); err != nil {
			return bookMove{}, false, fmt.Errorf("book: scan move row: %w", err)
		}
		m.terminal = terminal != 0
		if !found || m.frequency > best.frequency {
			best, found = m, true
		}
	}
	return best, found, rows.Err()
}

func (b *SQLiteBook) boardFEN(ctx context.Context, id int64) (string, error) {
	row := b.db.QueryRowContext(ctx, `SELECT fen FROM boards WHERE id = ?`, id)

	var f string
	if err := row.Scan(&f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("book: no board for move %v", id)
		}
		return "", fmt.Errorf("book: read board %v: %w", id, err)
	}
	return f, nil
}
