package core

import (
	"fmt"
	"strings"
)

// Position addresses a square; row 0 is the top rank, col 0 the a-file
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

// Index packs the position into 0..63
func (p Position) Index() int {
	return p.Row*8 + p.Col
}

// Add offsets the position by dr rows and dc columns
func (p Position) Add(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// String returns the square name, e.g. (0,0) is "a8" and (7,7) is "h1"
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%c", 'a'+p.Col, '8'-p.Row)
}

func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	file, rank := s[0], s[1]
	if file >= 'A' && file <= 'H' {
		file += 'a' - 'A'
	}
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return Position{Row: int('8' - rank), Col: int(file - 'a')}, nil
}

// Move is one full turn: origin, final destination and every captured square in order
type Move struct {
	From     Position   `json:"from"`
	To       Position   `json:"to"`
	Captures []Position `json:"captures"`
}

func (m Move) IsCapture() bool {
	return len(m.Captures) > 0
}

// Equal compares origin, destination and the ordered capture list
func (m Move) Equal(o Move) bool {
	if m.From != o.From || m.To != o.To || len(m.Captures) != len(o.Captures) {
		return false
	}
	for i := range m.Captures {
		if m.Captures[i] != o.Captures[i] {
			return false
		}
	}
	return true
}

// String returns "c3-d4" for a step and "a1xe5(b2,d4)" for a capture
func (m Move) String() string {
	if !m.IsCapture() {
		return m.From.String() + "-" + m.To.String()
	}
	caps := make([]string, len(m.Captures))
	for i, c := range m.Captures {
		caps[i] = c.String()
	}
	return m.From.String() + "x" + m.To.String() + "(" + strings.Join(caps, ",") + ")"
}

// ParseMove reads the notation produced by Move.String. The capture list is
// optional; when omitted the returned move has capture set but no captures, and
// the caller resolves it against the legal moves.
func ParseMove(s string) (move Move, capture bool, err error) {
	s = strings.TrimSpace(s)
	if len(s) < 5 {
		return Move{}, false, fmt.Errorf("invalid move %q", s)
	}

	sep := s[2]
	switch sep {
	case '-':
	case 'x', 'X':
		capture = true
	default:
		return Move{}, false, fmt.Errorf("invalid move %q: expected '-' or 'x' separator", s)
	}

	if move.From, err = ParsePosition(s[:2]); err != nil {
		return Move{}, false, err
	}
	if move.To, err = ParsePosition(s[3:5]); err != nil {
		return Move{}, false, err
	}

	rest := s[5:]
	if rest == "" {
		return move, capture, nil
	}
	if !capture || !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return Move{}, false, fmt.Errorf("invalid move %q", s)
	}
	for _, sq := range strings.Split(rest[1:len(rest)-1], ",") {
		p, err := ParsePosition(strings.TrimSpace(sq))
		if err != nil {
			return Move{}, false, err
		}
		move.Captures = append(move.Captures, p)
	}
	return move, capture, nil
}
