// Package board holds the 8x8 checkers grid, its text layout notation and rendering.
package board

import (
	"fmt"
	"strings"

	"checkers/internal/core"
)

const (
	StartingLayout = "1b1b1b1b/b1b1b1b1/1b1b1b1b/8/8/w1w1w1w1/1w1w1w1w/w1w1w1w1 w"
	Size           = 8
)

// Board is a value type; assigning or passing a Board copies every square.
type Board [Size][Size]core.Cell

// Standard returns the starting position: men on the dark squares of the three back rows per side
func Standard() Board {
	var b Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if (r+c)%2 == 0 {
				continue
			}
			switch {
			case r < 3:
				b[r][c] = core.BlackMan
			case r > 4:
				b[r][c] = core.WhiteMan
			}
		}
	}
	return b
}

// FromGrid converts the wire representation
func FromGrid(g core.Grid) Board {
	return Board(g)
}

func (b Board) Grid() core.Grid {
	return core.Grid(b)
}

func (b Board) Clone() Board {
	return b
}

// At returns Empty for positions off the board
func (b *Board) At(p core.Position) core.Cell {
	if !p.Valid() {
		return core.Empty
	}
	return b[p.Row][p.Col]
}

func (b *Board) Set(p core.Position, c core.Cell) {
	b[p.Row][p.Col] = c
}

// Count returns how many squares hold the given cell value
func (b *Board) Count(cell core.Cell) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == cell {
				n++
			}
		}
	}
	return n
}

// Pieces returns the number of pieces owned by side
func (b *Board) Pieces(side core.Side) int {
	return b.Count(core.KingOf(side)) + b.Count(manOf(side))
}

// Validate rejects cell values outside the five defined states
func (b *Board) Validate() error {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if !b[r][c].Valid() {
				return fmt.Errorf("invalid cell value %d at %s", b[r][c], core.Position{Row: r, Col: c})
			}
		}
	}
	return nil
}

// ParseLayout reads the row notation followed by the side to move
func ParseLayout(layout string) (Board, core.Side, error) {
	var b Board

	parts := strings.Fields(layout)
	if len(parts) != 2 {
		return b, core.SideNone, fmt.Errorf("invalid layout: expected 2 parts, got %d", len(parts))
	}

	rows := strings.Split(parts[0], "/")
	if len(rows) != Size {
		return b, core.SideNone, fmt.Errorf("invalid layout: expected %d rows, got %d", Size, len(rows))
	}

	for r := 0; r < Size; r++ {
		col := 0
		for i := 0; i < len(rows[r]); i++ {
			ch := rows[r][i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			cell, ok := core.CellFromSymbol(ch)
			if !ok {
				return b, core.SideNone, fmt.Errorf("invalid layout: unknown piece %q in row %d", ch, r)
			}
			if col >= Size {
				return b, core.SideNone, fmt.Errorf("invalid layout: too many squares in row %d", r)
			}
			b[r][col] = cell
			col++
		}
		if col != Size {
			return b, core.SideNone, fmt.Errorf("invalid layout: row %d has %d squares", r, col)
		}
	}

	side, err := core.ParseSide(parts[1])
	if err != nil {
		return b, core.SideNone, fmt.Errorf("invalid layout: %w", err)
	}

	return b, side, nil
}

// Layout encodes the board and side to move; runs of empty squares collapse to digits
func (b *Board) Layout(side core.Side) string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < Size; c++ {
			if b[r][c] == core.Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(b[r][c].Symbol())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(side.String())
	return sb.String()
}

// ToASCII creates an ASCII representation of the board
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for c := 0; c < Size; c++ {
			sb.WriteByte(b[r][c].Symbol())
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}

func manOf(s core.Side) core.Cell {
	if s == core.SideWhite {
		return core.WhiteMan
	}
	return core.BlackMan
}
