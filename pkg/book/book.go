// Package book implements the opening-book external collaborator (spec.md §6.2/§6.4): a
// persistent, keyed store of prior-game move statistics that the controller consults before
// each search. The core only ever reads it; cmd/bookgen is the only writer.
package book

import (
	"context"

	"github.com/herohde/branchwise/pkg/eval"
)

// ConsensusThreshold is the minimum recorded frequency a book move needs before the
// controller will play it automatically.
const ConsensusThreshold = 3

// RootID is the book node id of the starting position.
const RootID int64 = 0

// Book is the opening-book contract (spec.md §6.2).
type Book interface {
	// PlayBookMove looks up the child of book node id with the highest frequency at or
	// above ConsensusThreshold and returns its resulting position (as FEN, so the caller
	// decodes it with its own *board.ZobristTable) and the phase to track next (either the
	// child's own book id, or MiddleGame if the child is a book leaf). Returns ok=false with
	// an empty fen if no child meets the consensus threshold.
	PlayBookMove(ctx context.Context, id int64) (f string, phase eval.GamePhase, ok bool, err error)

	// SearchManual finds the book child of parentID reached by move, for tracking a human
	// opponent's reply against the book. Returns ok=false if move has no matching book entry,
	// or if the matching entry is itself a book leaf (no further phase to track).
	SearchManual(ctx context.Context, parentID int64, move string) (phase eval.GamePhase, ok bool)
}
