// Package engine implements the controller (C6): the outer loop that drives a game to
// completion by consulting the opening book, falling back to the scheduler, applying the
// chosen move and alternating sides.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/board/fen"
	"github.com/herohde/branchwise/pkg/book"
	"github.com/herohde/branchwise/pkg/eval"
	"github.com/herohde/branchwise/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 1, 0)

// Options are controller creation options.
type Options struct {
	// Budget is the wall-clock search budget per move.
	Budget time.Duration
	// Workers is the size of the scheduler's worker pool.
	Workers int
}

func (o Options) String() string {
	return fmt.Sprintf("{budget=%v, workers=%v}", o.Budget, o.Workers)
}

// Controller encapsulates game-playing logic: book lookup, search and move application (C6).
// A nil book is legal: the controller then always falls through to search.
type Controller struct {
	name, author string

	sched *search.Scheduler
	bk    book.Book
	zt    *board.ZobristTable
	opts  Options

	b     *board.Board
	phase eval.GamePhase
	mu    sync.Mutex
}

// Option is a controller creation option.
type Option func(*Controller)

// WithBook configures the controller to consult bk before each search.
func WithBook(bk book.Book) Option {
	return func(c *Controller) {
		c.bk = bk
	}
}

// WithZobrist configures the controller to use the given random seed instead of the default
// seed of zero.
func WithZobrist(seed int64) Option {
	return func(c *Controller) {
		c.zt = board.NewZobristTable(seed)
	}
}

func New(ctx context.Context, name, author string, ev eval.Evaluator, opts Options, options ...Option) *Controller {
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	c := &Controller{
		name:   name,
		author: author,
		sched:  search.NewScheduler(ev, opts.Workers),
		opts:   opts,
	}
	for _, fn := range options {
		fn(c)
	}
	if c.zt == nil {
		c.zt = board.NewZobristTable(0)
	}

	_ = c.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized controller: %v, options=%v", c.Name(), c.opts)
	return c
}

// Name returns the controller name and version.
func (c *Controller) Name() string {
	return fmt.Sprintf("%v %v", c.name, version)
}

// Author returns the author.
func (c *Controller) Author() string {
	return c.author
}

// Board returns a forked board.
func (c *Controller) Board() *board.Board {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.b.Fork()
}

// Position returns the current position in FEN format. Convenience function.
func (c *Controller) Position() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return fen.Encode(c.b.Position(), c.b.Turn(), c.b.NoProgress(), c.b.FullMoves())
}

// Reset resets the controller to a new starting position in FEN format. The book phase is
// re-armed only if position is the canonical starting position; any other position begins
// in the middlegame phase, since a book is keyed on path from the starting position.
func (c *Controller) Reset(ctx context.Context, position string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	logw.Infof(ctx, "Reset %v, options=%v", position, c.opts)

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	if err != nil {
		return err
	}
	c.b = board.NewBoard(c.zt, pos, turn, noprogress, fullmoves)

	c.phase = eval.GamePhase{Kind: eval.MiddleGame}
	if c.bk != nil && position == fen.Initial {
		c.phase = eval.NewOpening(book.RootID)
	}

	logw.Infof(ctx, "New board: %v", c.b)
	return nil
}

// Move plays the given move, usually an opponent's, entered in long algebraic notation
// (e.g. "e2e4", "a7a8q"). If a book is configured and the current phase is still in the
// opening, the book is consulted to keep phase tracking in sync with recorded theory; a move
// the book has no record of simply drops the controller into the middlegame phase.
func (c *Controller) Move(ctx context.Context, move string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	found := false
	for _, m := range c.b.Position().PseudoLegalMoves(c.b.Turn()) {
		if !candidate.Equals(m) {
			continue
		}
		if !c.b.PushMove(m) {
			return fmt.Errorf("illegal move: %v", m)
		}
		found = true
		break
	}
	if !found {
		return fmt.Errorf("invalid move: %v", candidate)
	}

	c.advancePhase(ctx, move)

	logw.Infof(ctx, "Move %v: %v", move, c.b)
	return nil
}

// advancePhase updates the tracked game phase after move is played, by asking the book
// whether it recognizes move as a child of the current book node. Must be called with mu held.
func (c *Controller) advancePhase(ctx context.Context, move string) {
	if c.bk == nil || c.phase.Kind != eval.Opening {
		return
	}
	if next, ok := c.bk.SearchManual(ctx, c.phase.BookID, move); ok {
		c.phase = next
		return
	}
	c.phase = eval.GamePhase{Kind: eval.MiddleGame}
}

// TakeBack undoes the latest move.
func (c *Controller) TakeBack(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.b.PopMove()
	if !ok {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback %v", m)
	return nil
}

// Play picks a move for the side to move: a book move if one meets consensus, else the
// scheduler's top choice over opts.Budget. The chosen move is applied to the board and the
// tracked phase is advanced accordingly.
func (c *Controller) Play(ctx context.Context) (board.Move, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if result := c.b.Result(); result.IsDone() {
		return board.Move{}, fmt.Errorf("game over: %v", result)
	}
	if len(c.b.Position().LegalMoves(c.b.Turn())) == 0 {
		result := c.b.AdjudicateNoLegalMoves()
		return board.Move{}, fmt.Errorf("game over: %v", result)
	}

	if c.bk != nil && c.phase.Kind == eval.Opening {
		if m, ok, err := c.playBook(ctx); err != nil {
			logw.Errorf(ctx, "Book lookup failed, falling back to search: %v", err)
		} else if ok {
			return m, nil
		}
		// else: book failed or has no consensus move here; fall through to search.
	}

	logw.Infof(ctx, "Search %v, budget=%v", c.b, c.opts.Budget)

	result, err := c.sched.Search(ctx, c.b, c.phase, c.opts.Budget)
	if err != nil {
		return board.Move{}, fmt.Errorf("search: %w", err)
	}

	m, ok := result.Board.LastMove()
	if !ok {
		return board.Move{}, fmt.Errorf("search: chosen board has no last move")
	}

	c.b = result.Board
	c.phase = eval.GamePhase{Kind: eval.MiddleGame}

	logw.Infof(ctx, "Played %v: %v", m, c.b)
	return m, nil
}

// playBook consults the book for the current node and, if it meets consensus, applies the
// resulting position directly: the book stores whole positions rather than individual moves,
// so (unlike search) this replaces c.b outright rather than pushing a single move onto it.
// Must be called with mu held.
func (c *Controller) playBook(ctx context.Context) (board.Move, bool, error) {
	f, phase, ok, err := c.bk.PlayBookMove(ctx, c.phase.BookID)
	if err != nil {
		return board.Move{}, false, fmt.Errorf("book: %w", err)
	}
	if !ok {
		return board.Move{}, false, nil
	}

	pos, turn, noprogress, fullmoves, err := fen.Decode(f)
	if err != nil {
		return board.Move{}, false, fmt.Errorf("book: decode %v: %w", f, err)
	}
	next := board.NewBoard(c.zt, pos, turn, noprogress, fullmoves)

	m, ok := diffMove(c.b, next)
	if !ok {
		return board.Move{}, false, fmt.Errorf("book: %v is not reachable by one move from %v", f, c.b)
	}

	c.b = next
	c.phase = phase

	logw.Infof(ctx, "Book move %v: %v", m, c.b)
	return m, true, nil
}

// diffMove recovers the single legal move from parent that produces a position equal to
// next's, since the book gives us the resulting FEN rather than the move itself.
func diffMove(parent, next *board.Board) (board.Move, bool) {
	for _, m := range parent.Position().LegalMoves(parent.Turn()) {
		candidate := parent.Fork()
		if !candidate.PushMove(m) {
			continue
		}
		if candidate.Position().String() == next.Position().String() {
			return m, true
		}
	}
	return board.Move{}, false
}
