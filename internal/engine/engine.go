// Package engine picks computer moves with a depth-limited minimax search and
// alpha-beta pruning over the legal moves produced by package rules.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"
)

const (
	DefaultDepth = 3
	MaxDepth     = core.MaxSearchDepth

	inf = 1 << 30
)

// Engine is not safe for concurrent use: the shuffle source is shared by every
// call. Give each goroutine its own instance.
type Engine struct {
	depth int
	rng   *rand.Rand
	nodes int
}

type SearchResult struct {
	Move  *core.Move
	Score int
	Depth int
	Nodes int
}

// New creates an engine searching depth plies, shuffling with src
func New(depth int, src rand.Source) *Engine {
	if depth < 1 {
		depth = DefaultDepth
	} else if depth > MaxDepth {
		depth = MaxDepth
	}
	return &Engine{
		depth: depth,
		rng:   rand.New(src),
	}
}

// NewSeeded creates an engine shuffling from a clock-seeded source
func NewSeeded(depth int) *Engine {
	return New(depth, rand.NewSource(time.Now().UnixNano()))
}

func (e *Engine) Depth() int {
	return e.depth
}

// SetDepth changes the search depth, clamped to 1..MaxDepth
func (e *Engine) SetDepth(depth int) {
	if depth < 1 {
		depth = 1
	} else if depth > MaxDepth {
		depth = MaxDepth
	}
	e.depth = depth
}

// BestMove returns the chosen move for side, or nil when there is none.
// The root maximizes for Black and minimizes for White, so either side can
// be searched. Search failures are swallowed and also reported as nil.
func (e *Engine) BestMove(b board.Board, side core.Side) *core.Move {
	result, err := e.Search(b, side)
	if err != nil {
		return nil
	}
	return result.Move
}

// Search runs the minimax search from the root and reports its metadata. The
// evaluation is Black-positive, so Black maximizes and White minimizes.
func (e *Engine) Search(b board.Board, side core.Side) (result *SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("search failed: %v", r)
		}
	}()

	e.nodes = 0
	score, move := e.Minimax(b, e.depth, side == core.SideBlack, side, -inf, inf)

	return &SearchResult{
		Move:  move,
		Score: score,
		Depth: e.depth,
		Nodes: e.nodes,
	}, nil
}

// Minimax returns the score of b searched depth plies with side to move, and
// the move achieving it at this node. Equal scores keep the earlier move in
// shuffled order.
func (e *Engine) Minimax(b board.Board, depth int, maximizing bool, side core.Side, alpha, beta int) (int, *core.Move) {
	e.nodes++

	if depth == 0 {
		return Evaluate(b), nil
	}

	moves := rules.LegalMoves(b, side).All()
	if len(moves) == 0 {
		return Evaluate(b), nil
	}

	e.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})

	opponent := core.OppositeSide(side)
	var best *core.Move

	if maximizing {
		bestScore := -inf
		for i := range moves {
			score, _ := e.Minimax(rules.ApplyMove(b, moves[i]), depth-1, false, opponent, alpha, beta)
			if score > bestScore {
				bestScore = score
				best = &moves[i]
			}
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return bestScore, best
	}

	bestScore := inf
	for i := range moves {
		score, _ := e.Minimax(rules.ApplyMove(b, moves[i]), depth-1, true, opponent, alpha, beta)
		if score < bestScore {
			bestScore = score
			best = &moves[i]
		}
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return bestScore, best
}
