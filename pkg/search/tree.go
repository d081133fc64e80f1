// Package search implements the parallel best-move search: a shared tree (Branch),
// the per-node operations that read and mutate it (this file), the worker unit of
// work, and the scheduler that coordinates a fixed worker pool over it.
package search

import (
	"context"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/eval"
)

// Location addresses a Branch by the sequence of child indices from the root. The root
// itself is the empty Location. Locations are plain index paths, not pointers: the tree
// has no parent links, so a Location remains meaningful across merges of other subtrees.
type Location []int

// Child returns the location of the i'th child of loc.
func (l Location) Child(i int) Location {
	next := make(Location, len(l)+1)
	copy(next, l)
	next[len(l)] = i
	return next
}

// Branch is one node of the search tree: a board position, its evaluation and move-
// ordering priority (relative to its parent), the game phase it inherited, and whether
// it is still an unexpanded frontier leaf.
type Branch struct {
	Board *board.Board

	Eval      eval.Eval // valid iff Evaluated
	Evaluated bool
	Priority  eval.Eval // the node's priority relative to its parent; meaningless for the root

	Phase eval.GamePhase

	IsTerminal bool // true iff this node has not yet been expanded
	Children   []*Branch
}

// NewRoot creates the unexpanded root of a new search tree.
func NewRoot(b *board.Board, phase eval.GamePhase) *Branch {
	return &Branch{Board: b, Phase: phase, IsTerminal: true}
}

// Clone returns an independent copy of a terminal Branch, suitable for a worker to expand
// without holding the tree lock. Only meaningful for terminal (childless) branches: it is
// used exclusively to snapshot frontier leaves before expansion.
func (b *Branch) Clone() *Branch {
	return &Branch{
		Board:      b.Board.Fork(),
		Eval:       b.Eval,
		Evaluated:  b.Evaluated,
		Priority:   b.Priority,
		Phase:      b.Phase,
		IsTerminal: b.IsTerminal,
	}
}

// Locate walks loc from root. Out-of-range locations are a programmer error and panic,
// per the tree's contract: the caller is expected to have validated the location, or to
// treat a located subtree search, not a located pointer, as the reliable shared state.
func Locate(root *Branch, loc Location) *Branch {
	n := root
	for _, i := range loc {
		n = n.Children[i]
	}
	return n
}

// InsertAt replaces the subtree rooted at loc with subtree, preserving the parent's child
// order. Locations not under loc remain valid (T1): only the pointer at loc is replaced,
// and even the root case preserves the caller's root pointer by overwriting its contents.
func InsertAt(root *Branch, loc Location, subtree *Branch) {
	if len(loc) == 0 {
		*root = *subtree
		return
	}
	parent := Locate(root, loc[:len(loc)-1])
	parent.Children[loc[len(loc)-1]] = subtree
}

// EvaluateSelf evaluates branch's own position at the given root-relative depth. Used once,
// for the root (depth 0), since every other branch is evaluated as a leaf at the moment its
// parent creates it.
func EvaluateSelf(ctx context.Context, branch *Branch, ev eval.Evaluator, depth int) {
	branch.Eval = ev.Evaluate(ctx, branch.Board, depth)
	branch.Evaluated = true
}

// Expand generates all legal children of branch, evaluates each as a leaf (eval and
// priority relative to branch's board), and marks branch itself non-terminal. branch's
// own eval is untouched: it was set when branch became a leaf (or, for the root, by
// EvaluateSelf). childDepth is the ply depth of the children being created, used to scale
// their priority's depth penalty.
func Expand(ctx context.Context, branch *Branch, ev eval.Evaluator, childDepth int) {
	legal := branch.Board.Position().LegalMoves(branch.Board.Turn())

	children := make([]*Branch, 0, len(legal))
	for _, m := range legal {
		child := branch.Board.Fork()
		if !child.PushMove(m) {
			continue // programmer error: LegalMoves returned a move Position.Move rejects.
		}

		ce := ev.Evaluate(ctx, child, childDepth)
		pr := eval.Priority(branch.Board, child, childDepth, ce)

		children = append(children, &Branch{
			Board:      child,
			Eval:       ce,
			Evaluated:  true,
			Priority:   pr,
			Phase:      branch.Phase,
			IsTerminal: true,
		})
	}

	branch.Children = children
	branch.IsTerminal = false
}

// FindSurfaceTerminal searches breadth-first from (from, fromLoc) for up to 11 levels and
// returns the location of the first terminal descendant encountered. Never modifies the
// tree (T2).
func FindSurfaceTerminal(from *Branch, fromLoc Location) (Location, bool) {
	if from.IsTerminal {
		return fromLoc, true
	}
	for level := 0; level <= 10; level++ {
		if loc, ok := findTerminalAtLevel(from, fromLoc, level); ok {
			return loc, true
		}
	}
	return nil, false
}

func findTerminalAtLevel(b *Branch, loc Location, level int) (Location, bool) {
	if level == 0 {
		for i, child := range b.Children {
			if child.IsTerminal {
				return loc.Child(i), true
			}
		}
		return nil, false
	}
	for i, child := range b.Children {
		if l, ok := findTerminalAtLevel(child, loc.Child(i), level-1); ok {
			return l, true
		}
	}
	return nil, false
}

// SearchAbsolutePriority returns the maximum priority, and its location, over all terminal
// descendants of (from, fromLoc). No alpha-beta pruning: used by the deep phase to find
// the single most promising frontier leaf in a worker's sub-forest. Never modifies the
// tree (T2).
func SearchAbsolutePriority(from *Branch, fromLoc Location) (eval.Eval, Location) {
	if from.IsTerminal {
		return from.Priority, fromLoc
	}

	best := eval.NegInfinity()
	var bestLoc Location
	for i, child := range from.Children {
		prio, loc := SearchAbsolutePriority(child, fromLoc.Child(i))
		if eval.Less(best, prio) {
			best = prio
			bestLoc = loc
		}
	}
	return best, bestLoc
}

// SimpleMinimax is a pure roll-up after exploration ends: no re-evaluation, just picking
// max (White to move) or min (Black to move) of children's already-computed evals,
// writing the result back into each internal node's Eval. Nodes with Evaluated == false
// are skipped (T3); they represent unfinished work that did not make it into this tree
// snapshot.
func SimpleMinimax(branch *Branch, loc Location, maximize bool) (eval.Eval, Location) {
	if branch.IsTerminal {
		return branch.Eval, loc
	}

	var best eval.Eval
	var bestLoc Location
	found := false

	for i, child := range branch.Children {
		e, l := SimpleMinimax(child, loc.Child(i), !maximize)
		if !child.Evaluated {
			continue
		}

		switch {
		case !found:
			best, bestLoc, found = e, l, true
		case maximize && eval.Less(best, e):
			best, bestLoc = e, l
		case !maximize && eval.Less(e, best):
			best, bestLoc = e, l
		}
	}

	if found {
		branch.Eval = best
		branch.Evaluated = true
	}
	return branch.Eval, bestLoc
}

// BestChild runs SimpleMinimax from the root and returns the index of the child whose
// rolled-up eval equals the root's. Ties resolve to the first in enumeration order.
func BestChild(root *Branch, maximize bool) (int, bool) {
	rootEval, _ := SimpleMinimax(root, nil, maximize)
	for i, child := range root.Children {
		if eval.Compare(child.Eval, rootEval) == 0 {
			return i, true
		}
	}
	return 0, false
}
