package engine

import (
	"checkers/internal/board"
	"checkers/internal/core"
)

// Material weights. Positive values favor Black regardless of who searches.
const (
	ManValue  = 10
	KingValue = 100
)

var cellValue = [...]int{
	core.Empty:     0,
	core.WhiteMan:  -ManValue,
	core.BlackMan:  ManValue,
	core.WhiteKing: -KingValue,
	core.BlackKing: KingValue,
}

// Evaluate sums material over all 64 squares
func Evaluate(b board.Board) int {
	score := 0
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if cell := b[r][c]; cell.Valid() {
				score += cellValue[cell]
			}
		}
	}
	return score
}
