// Package rules enumerates legal checkers moves and applies them.
//
// Capturing is mandatory side-wide: when any piece of the side to move can
// capture, only capture chains are legal. Chains are maximal per branch; a jump
// that can be continued is never offered on its own.
package rules

import (
	"checkers/internal/board"
	"checkers/internal/core"
)

// MoveMap groups legal moves by origin square
type MoveMap map[core.Position][]core.Move

var diagonals = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// IsMyPiece reports ownership only; men and kings are treated alike
func IsMyPiece(cell core.Cell, side core.Side) bool {
	return cell != core.Empty && cell.Owner() == side
}

func isEnemy(cell core.Cell, side core.Side) bool {
	return cell != core.Empty && cell.Owner() == core.OppositeSide(side)
}

// LegalMoves returns every legal move for side keyed by origin
func LegalMoves(b board.Board, side core.Side) MoveMap {
	moves := make(MoveMap)

	// Capture phase
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			cell := b[r][c]
			if !IsMyPiece(cell, side) {
				continue
			}
			pos := core.Position{Row: r, Col: c}
			if chains := CaptureChains(b, pos, side, nil, cell.IsKing()); len(chains) > 0 {
				moves[pos] = chains
			}
		}
	}
	if len(moves) > 0 {
		return moves
	}

	// Normal phase
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			cell := b[r][c]
			if !IsMyPiece(cell, side) {
				continue
			}
			pos := core.Position{Row: r, Col: c}
			var steps []core.Move
			if cell.IsKing() {
				steps = kingSteps(&b, pos)
			} else {
				steps = manSteps(&b, pos, side)
			}
			if len(steps) > 0 {
				moves[pos] = steps
			}
		}
	}

	return moves
}

func manSteps(b *board.Board, pos core.Position, side core.Side) []core.Move {
	var moves []core.Move
	dr := side.Forward()
	for _, dc := range [2]int{-1, 1} {
		to := pos.Add(dr, dc)
		if to.Valid() && b.At(to) == core.Empty {
			moves = append(moves, core.Move{From: pos, To: to})
		}
	}
	return moves
}

func kingSteps(b *board.Board, pos core.Position) []core.Move {
	var moves []core.Move
	for _, d := range diagonals {
		for to := pos.Add(d[0], d[1]); to.Valid() && b.At(to) == core.Empty; to = to.Add(d[0], d[1]) {
			moves = append(moves, core.Move{From: pos, To: to})
		}
	}
	return moves
}

// HasMoves reports whether side has at least one legal move
func HasMoves(b board.Board, side core.Side) bool {
	return len(LegalMoves(b, side)) > 0
}

// All flattens the map in row-major origin order so results are reproducible
func (m MoveMap) All() []core.Move {
	var all []core.Move
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			all = append(all, m[core.Position{Row: r, Col: c}]...)
		}
	}
	return all
}

// Count returns the total number of moves
func (m MoveMap) Count() int {
	n := 0
	for _, moves := range m {
		n += len(moves)
	}
	return n
}

// IsCapture reports whether the map holds capture moves (mandatory capture in effect)
func (m MoveMap) IsCapture() bool {
	for _, moves := range m {
		return len(moves) > 0 && moves[0].IsCapture()
	}
	return false
}

// Contains reports whether the exact move is legal
func (m MoveMap) Contains(move core.Move) bool {
	for _, legal := range m[move.From] {
		if legal.Equal(move) {
			return true
		}
	}
	return false
}

// Match returns the legal moves from origin to destination. When captures is
// non-empty only the chain with that exact capture order matches.
func (m MoveMap) Match(from, to core.Position, captures []core.Position) []core.Move {
	var found []core.Move
	for _, legal := range m[from] {
		if legal.To != to {
			continue
		}
		if len(captures) > 0 && !legal.Equal(core.Move{From: from, To: to, Captures: captures}) {
			continue
		}
		found = append(found, legal)
	}
	return found
}
