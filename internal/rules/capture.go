package rules

import (
	"checkers/internal/board"
	"checkers/internal/core"
)

// squareSet marks captured squares by packed index
type squareSet uint64

func (s squareSet) has(p core.Position) bool {
	return s&(1<<uint(p.Index())) != 0
}

func (s squareSet) with(p core.Position) squareSet {
	return s | 1<<uint(p.Index())
}

// chainSearch walks capture chains for one piece without touching the board.
// The moving piece stays on its origin and captured pieces stay in place, so
// both keep blocking lines until the move is applied.
type chainSearch struct {
	b      *board.Board
	origin core.Position
	side   core.Side
	king   bool
	chains []core.Move
}

// CaptureChains returns the maximal capture chains starting at pos. The
// captured argument lists squares already taken earlier in the chain; pass nil
// for a fresh search. isKing selects the long-range capture geometry and does
// not change mid-chain.
func CaptureChains(b board.Board, pos core.Position, side core.Side, captured []core.Position, isKing bool) []core.Move {
	s := &chainSearch{b: &b, origin: pos, side: side, king: isKing}

	var set squareSet
	for _, p := range captured {
		set = set.with(p)
	}
	path := captured[:len(captured):len(captured)]

	s.walk(pos, set, path)
	return s.chains
}

// walk explores jumps from pos and reports whether any jump was found. A
// landing square is emitted as a chain end only when nothing continues from it.
func (s *chainSearch) walk(pos core.Position, captured squareSet, path []core.Position) bool {
	if s.king {
		return s.walkKing(pos, captured, path)
	}
	return s.walkMan(pos, captured, path)
}

func (s *chainSearch) walkMan(pos core.Position, captured squareSet, path []core.Position) bool {
	found := false
	for _, d := range diagonals {
		over := pos.Add(d[0], d[1])
		land := over.Add(d[0], d[1])
		if !land.Valid() {
			continue
		}
		if !isEnemy(s.b.At(over), s.side) || captured.has(over) {
			continue
		}
		if s.b.At(land) != core.Empty {
			continue
		}
		found = true
		s.jump(land, over, captured, path)
	}
	return found
}

func (s *chainSearch) walkKing(pos core.Position, captured squareSet, path []core.Position) bool {
	found := false
	for _, d := range diagonals {
		over := pos.Add(d[0], d[1])
		for over.Valid() && s.b.At(over) == core.Empty {
			over = over.Add(d[0], d[1])
		}
		if !over.Valid() {
			continue
		}
		// Friendly piece, origin square or an already taken piece blocks the line
		if !isEnemy(s.b.At(over), s.side) || captured.has(over) {
			continue
		}
		for land := over.Add(d[0], d[1]); land.Valid() && s.b.At(land) == core.Empty; land = land.Add(d[0], d[1]) {
			found = true
			s.jump(land, over, captured, path)
		}
	}
	return found
}

func (s *chainSearch) jump(land, over core.Position, captured squareSet, path []core.Position) {
	// Full slice expression forces a copy so sibling branches never share a backing array
	next := append(path[:len(path):len(path)], over)
	if !s.walk(land, captured.with(over), next) {
		s.emit(core.Move{From: s.origin, To: land, Captures: next})
	}
}

// emit records a finished chain. King chains that differ only in intermediate
// landing squares produce the same move and are kept once.
func (s *chainSearch) emit(m core.Move) {
	for _, c := range s.chains {
		if c.Equal(m) {
			return
		}
	}
	s.chains = append(s.chains, m)
}
