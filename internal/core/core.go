package core

import "fmt"

type State int

const (
	StateOngoing State = iota
	StatePending       // Computer is calculating a move
	StateStuck         // Computer failed to produce a move
	StateWhiteWins
	StateBlackWins
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStuck:
		return "stuck"
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether the game reached a terminal result
func (s State) IsOver() bool {
	return s == StateWhiteWins || s == StateBlackWins
}

// Side is the color of the player to move. White moves toward row 0, Black toward row 7.
type Side byte

const (
	SideNone Side = iota
	SideWhite
	SideBlack
)

func (s Side) String() string {
	switch s {
	case SideWhite:
		return "w"
	case SideBlack:
		return "b"
	default:
		return "-"
	}
}

// Name returns the capitalized color name used in user-facing text
func (s Side) Name() string {
	switch s {
	case SideWhite:
		return "White"
	case SideBlack:
		return "Black"
	default:
		return "None"
	}
}

// Forward is the row delta of a man's non-capturing step
func (s Side) Forward() int {
	if s == SideWhite {
		return -1
	}
	return 1
}

// PromotionRow is the back rank where a man of this side becomes a king
func (s Side) PromotionRow() int {
	if s == SideWhite {
		return 0
	}
	return 7
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// ParseSide accepts "w"/"b" and the full color names
func ParseSide(s string) (Side, error) {
	switch s {
	case "w", "white", "White":
		return SideWhite, nil
	case "b", "black", "Black":
		return SideBlack, nil
	default:
		return SideNone, fmt.Errorf("invalid side %q: must be 'w' or 'b'", s)
	}
}

func OppositeSide(s Side) Side {
	if s == SideWhite {
		return SideBlack
	}
	return SideWhite
}

// WinState returns the terminal state in which the given side has won
func WinState(winner Side) State {
	if winner == SideWhite {
		return StateWhiteWins
	}
	return StateBlackWins
}

// Cell is the content of one board square
type Cell uint8

const (
	Empty Cell = iota
	WhiteMan
	BlackMan
	WhiteKing
	BlackKing
)

// IsKing reports whether the cell holds a promoted piece
func (c Cell) IsKing() bool {
	return c == WhiteKing || c == BlackKing
}

// Owner returns the side owning the piece, SideNone for an empty square
func (c Cell) Owner() Side {
	switch c {
	case WhiteMan, WhiteKing:
		return SideWhite
	case BlackMan, BlackKing:
		return SideBlack
	default:
		return SideNone
	}
}

// Valid reports whether c is one of the five defined cell values
func (c Cell) Valid() bool {
	return c <= BlackKing
}

// Symbol is the single-character notation: '.', 'w', 'b', 'W', 'B'
func (c Cell) Symbol() byte {
	switch c {
	case WhiteMan:
		return 'w'
	case BlackMan:
		return 'b'
	case WhiteKing:
		return 'W'
	case BlackKing:
		return 'B'
	default:
		return '.'
	}
}

// CellFromSymbol is the inverse of Cell.Symbol for piece characters
func CellFromSymbol(ch byte) (Cell, bool) {
	switch ch {
	case 'w':
		return WhiteMan, true
	case 'b':
		return BlackMan, true
	case 'W':
		return WhiteKing, true
	case 'B':
		return BlackKing, true
	case '.':
		return Empty, true
	default:
		return Empty, false
	}
}

// KingOf returns the promoted cell for a side
func KingOf(s Side) Cell {
	if s == SideWhite {
		return WhiteKing
	}
	return BlackKing
}
