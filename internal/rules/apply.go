package rules

import (
	"checkers/internal/board"
	"checkers/internal/core"
)

// ApplyMove returns a new board with the move played: captured squares are
// cleared, the piece is relocated, and a man reaching its back rank on the
// final square is promoted. The input board is never modified.
func ApplyMove(b board.Board, move core.Move) board.Board {
	next := b.Clone()

	for _, p := range move.Captures {
		next.Set(p, core.Empty)
	}

	piece := next.At(move.From)
	next.Set(move.From, core.Empty)
	next.Set(move.To, promote(piece, move.To))

	return next
}

// Promotes reports whether applying move on b turns a man into a king
func Promotes(b board.Board, move core.Move) bool {
	piece := b.At(move.From)
	return !piece.IsKing() && promote(piece, move.To) != piece
}

func promote(piece core.Cell, to core.Position) core.Cell {
	switch {
	case piece == core.WhiteMan && to.Row == core.SideWhite.PromotionRow():
		return core.WhiteKing
	case piece == core.BlackMan && to.Row == core.SideBlack.PromotionRow():
		return core.BlackKing
	default:
		return piece
	}
}
