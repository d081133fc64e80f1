package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/eval"
	"github.com/seekerror/logw"
)

// PreliminaryShare is the fraction of the total search budget spent on Phase 1 (wide).
// The remainder goes to Phase 2 (deep).
const PreliminaryShare = 0.5

// Result is the outcome of one scheduled search: the chosen board, its phase (for book
// tracking continuity) and the rolled-up root evaluation.
type Result struct {
	Board *board.Board
	Phase eval.GamePhase
	Eval  eval.Eval
}

func (r Result) String() string {
	return fmt.Sprintf("{board=%v, eval=%v}", r.Board, r.Eval)
}

// Scheduler is the search coordinator (C5): a worker pool of fixed size over a single
// reader/writer-locked tree, run in two deadline-driven phases.
type Scheduler struct {
	Eval    eval.Evaluator
	Workers int
}

// NewScheduler returns a Scheduler with the given evaluator and worker pool size.
func NewScheduler(ev eval.Evaluator, workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{Eval: ev, Workers: workers}
}

// Search explores from b for up to budget wall time and returns the chosen successor
// position. The tree is built and discarded within this call; only the Result survives.
func (s *Scheduler) Search(ctx context.Context, b *board.Board, phase eval.GamePhase, budget time.Duration) (Result, error) {
	if len(b.Position().LegalMoves(b.Turn())) == 0 {
		return Result{}, fmt.Errorf("search: no legal moves from %v", b)
	}

	root := NewRoot(b, phase)
	var mu sync.RWMutex

	t1 := time.Duration(float64(budget) * PreliminaryShare)
	t2 := budget - t1

	logw.Debugf(ctx, "Base expand: %v", b)
	EvaluateSelf(ctx, root, s.Eval, 0)
	Expand(ctx, root, s.Eval, 1)

	logw.Debugf(ctx, "Phase 1 (wide), budget=%v", t1)
	s.runPhase(ctx, root, &mu, Wide, t1)

	logw.Debugf(ctx, "Phase 2 (deep), budget=%v", t2)
	s.runPhase(ctx, root, &mu, Deep, t2)

	maximize := b.Turn() == board.White
	i, ok := BestChild(root, maximize)
	if !ok {
		return Result{}, fmt.Errorf("search: no children rolled up from %v", b)
	}

	best := root.Children[i]
	return Result{Board: best.Board, Phase: best.Phase, Eval: best.Eval}, nil
}

// runPhase recomputes territories from the current root children and runs one lane per
// territory until the phase deadline, then waits for in-flight lanes to finish and merge
// their final results (§5, cancellation/timeout: workers are never interrupted mid-unit).
func (s *Scheduler) runPhase(ctx context.Context, root *Branch, mu *sync.RWMutex, kind Kind, budget time.Duration) {
	territories := divideTerritory(s.Workers, len(root.Children))
	if len(territories) == 0 {
		return
	}

	deadline := time.Now().Add(budget)

	var wg sync.WaitGroup
	wg.Add(len(territories))
	for _, t := range territories {
		go runLane(ctx, root, mu, s.Eval, kind, t, deadline, &wg)
	}
	wg.Wait()
}
