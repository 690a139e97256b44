package rules

import (
	"math/rand"
	"testing"

	"checkers/internal/board"
	"checkers/internal/core"
)

func pos(r, c int) core.Position {
	return core.Position{Row: r, Col: c}
}

func place(pieces map[core.Position]core.Cell) board.Board {
	var b board.Board
	for p, cell := range pieces {
		b.Set(p, cell)
	}
	return b
}

func TestStandardOpeningMoves(t *testing.T) {
	moves := LegalMoves(board.Standard(), core.SideWhite)
	if moves.IsCapture() {
		t.Fatalf("no captures expected in the opening")
	}
	if got := moves.Count(); got != 7 {
		t.Fatalf("expected 7 opening moves for white, got %d", got)
	}
	for from, list := range moves {
		if from.Row != 5 {
			t.Errorf("only the front row can move, got origin %s", from)
		}
		for _, m := range list {
			if m.To.Row != 4 {
				t.Errorf("white man must step to row 4, got %s", m)
			}
		}
	}
}

func TestManMovesForwardOnly(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(5, 0): core.WhiteMan,
		pos(0, 7): core.BlackMan,
	})

	moves := LegalMoves(b, core.SideWhite)
	list := moves[pos(5, 0)]
	if !moves.Contains(core.Move{From: pos(5, 0), To: pos(4, 1)}) {
		t.Fatalf("expected (5,0)->(4,1) in %v", list)
	}
	for _, m := range list {
		if m.To.Row == 6 {
			t.Fatalf("man moved backward: %s", m)
		}
	}
	if len(list) != 1 {
		t.Fatalf("edge man should have exactly one step, got %v", list)
	}

	black := LegalMoves(b, core.SideBlack)
	if !black.Contains(core.Move{From: pos(0, 7), To: pos(1, 6)}) {
		t.Fatalf("black man should step downward, got %v", black.All())
	}
}

func TestSingleCapture(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(3, 3): core.WhiteMan,
		pos(2, 2): core.BlackMan,
	})

	moves := LegalMoves(b, core.SideWhite)
	list := moves[pos(3, 3)]
	if len(list) != 1 {
		t.Fatalf("expected exactly one capture, got %v", list)
	}
	want := core.Move{From: pos(3, 3), To: pos(1, 1), Captures: []core.Position{pos(2, 2)}}
	if !list[0].Equal(want) {
		t.Fatalf("got %s, want %s", list[0], want)
	}
}

func TestEdgePieceCannotBeJumped(t *testing.T) {
	// A piece on a8 has no square behind it, so the chain ends at b7
	b := place(map[core.Position]core.Cell{
		pos(3, 3): core.WhiteMan,
		pos(2, 2): core.BlackMan,
		pos(0, 0): core.BlackMan,
	})

	list := LegalMoves(b, core.SideWhite)[pos(3, 3)]
	if len(list) != 1 || len(list[0].Captures) != 1 || list[0].To != pos(1, 1) {
		t.Fatalf("expected single capture to (1,1), got %v", list)
	}
}

func TestDoubleCaptureSuppressesPrefix(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(5, 5): core.WhiteMan,
		pos(4, 4): core.BlackMan,
		pos(2, 2): core.BlackMan,
	})

	list := LegalMoves(b, core.SideWhite)[pos(5, 5)]
	if len(list) != 1 {
		t.Fatalf("expected one maximal chain, got %v", list)
	}
	want := core.Move{From: pos(5, 5), To: pos(1, 1), Captures: []core.Position{pos(4, 4), pos(2, 2)}}
	if !list[0].Equal(want) {
		t.Fatalf("got %s, want %s", list[0], want)
	}
}

func TestMandatoryCaptureIsSideWide(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(5, 1): core.WhiteMan, // can capture
		pos(4, 2): core.BlackMan,
		pos(6, 6): core.WhiteMan, // can only step
		pos(0, 7): core.BlackMan,
	})

	moves := LegalMoves(b, core.SideWhite)
	if !moves.IsCapture() {
		t.Fatalf("expected capture moves")
	}
	if _, ok := moves[pos(6, 6)]; ok {
		t.Fatalf("piece without capture must not contribute moves: %v", moves[pos(6, 6)])
	}
	for _, m := range moves.All() {
		if !m.IsCapture() {
			t.Fatalf("non-capture %s mixed into capture result", m)
		}
	}
}

func TestManCapturesBackward(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(3, 3): core.WhiteMan,
		pos(4, 4): core.BlackMan,
	})

	want := core.Move{From: pos(3, 3), To: pos(5, 5), Captures: []core.Position{pos(4, 4)}}
	if !LegalMoves(b, core.SideWhite).Contains(want) {
		t.Fatalf("expected backward capture %s", want)
	}
}

func TestManDoesNotGainKingRangeMidChain(t *testing.T) {
	// The man touches row 0 mid-chain and continues as a man
	b := place(map[core.Position]core.Cell{
		pos(2, 5): core.WhiteMan,
		pos(1, 4): core.BlackMan,
		pos(1, 2): core.BlackMan,
		pos(4, 3): core.BlackMan, // only a king could take this from (2,1)
	})

	list := LegalMoves(b, core.SideWhite)[pos(2, 5)]
	if len(list) != 1 {
		t.Fatalf("expected one chain, got %v", list)
	}
	want := core.Move{From: pos(2, 5), To: pos(2, 1), Captures: []core.Position{pos(1, 4), pos(1, 2)}}
	if !list[0].Equal(want) {
		t.Fatalf("got %s, want %s", list[0], want)
	}

	next := ApplyMove(b, list[0])
	if next.At(pos(2, 1)) != core.WhiteMan {
		t.Fatalf("man must not promote on an intermediate square, got %d", next.At(pos(2, 1)))
	}
}

func TestKingSlides(t *testing.T) {
	b := place(map[core.Position]core.Cell{pos(4, 4): core.WhiteKing})

	list := LegalMoves(b, core.SideWhite)[pos(4, 4)]
	if len(list) != 13 {
		t.Fatalf("expected 13 king moves, got %d: %v", len(list), list)
	}
	if !LegalMoves(b, core.SideWhite).Contains(core.Move{From: pos(4, 4), To: pos(0, 0)}) {
		t.Fatalf("king should reach the corner")
	}
}

func TestKingStopsBeforeObstruction(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(7, 0): core.WhiteKing,
		pos(3, 4): core.WhiteMan,
	})

	list := LegalMoves(b, core.SideWhite)[pos(7, 0)]
	if len(list) != 3 {
		t.Fatalf("expected 3 king moves up to the friendly piece, got %v", list)
	}
	last := list[len(list)-1]
	if last.To != pos(4, 3) {
		t.Fatalf("expected last landing (4,3), got %s", last.To)
	}
}

func TestKingLongCapture(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(7, 0): core.WhiteKing,
		pos(4, 3): core.BlackMan,
	})

	// One chain per landing square (3,4) (2,5) (1,6) (0,7), no duplicates
	moves := LegalMoves(b, core.SideWhite)
	list := moves[pos(7, 0)]
	if len(list) != 4 {
		t.Fatalf("expected exactly 4 distinct chains, got %v", list)
	}
	seen := make(map[core.Position]bool)
	for _, m := range list {
		if seen[m.To] {
			t.Fatalf("duplicate chain to %s", m.To)
		}
		seen[m.To] = true
		if len(m.Captures) != 1 || m.Captures[0] != pos(4, 3) {
			t.Fatalf("unexpected captures in %s", m)
		}
		if m.To.Row > 3 {
			t.Fatalf("landing must be beyond the captured piece, got %s", m.To)
		}
	}
}

func TestKingCannotJumpTwoInARow(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(7, 0): core.WhiteKing,
		pos(5, 2): core.BlackMan,
		pos(4, 3): core.BlackMan,
	})

	moves := LegalMoves(b, core.SideWhite)
	if moves.IsCapture() {
		t.Fatalf("adjacent enemies leave no landing square, got %v", moves.All())
	}
	list := moves[pos(7, 0)]
	if len(list) != 1 || list[0].To != pos(6, 1) {
		t.Fatalf("expected single step to (6,1), got %v", list)
	}
}

func TestKingChainPrefersContinuation(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(7, 0): core.WhiteKing,
		pos(6, 1): core.BlackMan,
		pos(2, 5): core.BlackMan,
	})

	// Three intermediate landings lead to the same two outcomes
	list := LegalMoves(b, core.SideWhite)[pos(7, 0)]
	if len(list) != 2 {
		t.Fatalf("expected 2 distinct two-capture chains, got %d: %v", len(list), list)
	}
	for _, m := range list {
		if len(m.Captures) != 2 {
			t.Fatalf("shorter chain %s offered despite continuation", m)
		}
		if m.To != pos(1, 6) && m.To != pos(0, 7) {
			t.Fatalf("unexpected final landing %s", m.To)
		}
	}
}

func TestCaptureChainsWithPriorCaptures(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(3, 3): core.WhiteMan,
		pos(2, 2): core.BlackMan,
		pos(2, 4): core.BlackMan,
	})

	chains := CaptureChains(b, pos(3, 3), core.SideWhite, []core.Position{pos(2, 2)}, false)
	if len(chains) != 1 {
		t.Fatalf("expected only the uncaptured piece to be jumped, got %v", chains)
	}
	if got := chains[0].Captures; len(got) != 2 || got[0] != pos(2, 2) || got[1] != pos(2, 4) {
		t.Fatalf("unexpected capture list %v", got)
	}
}

func TestIsMyPiece(t *testing.T) {
	tests := []struct {
		cell core.Cell
		side core.Side
		want bool
	}{
		{core.WhiteMan, core.SideWhite, true},
		{core.WhiteKing, core.SideWhite, true},
		{core.BlackMan, core.SideWhite, false},
		{core.BlackKing, core.SideBlack, true},
		{core.Empty, core.SideWhite, false},
		{core.Empty, core.SideBlack, false},
	}
	for _, tt := range tests {
		if got := IsMyPiece(tt.cell, tt.side); got != tt.want {
			t.Errorf("IsMyPiece(%d, %s) = %v, want %v", tt.cell, tt.side, got, tt.want)
		}
	}
}

func TestApplyMove(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(5, 5): core.WhiteMan,
		pos(4, 4): core.BlackMan,
		pos(2, 2): core.BlackMan,
		pos(0, 7): core.BlackMan,
	})
	before := b
	move := core.Move{From: pos(5, 5), To: pos(1, 1), Captures: []core.Position{pos(4, 4), pos(2, 2)}}

	next := ApplyMove(b, move)

	if b != before {
		t.Fatalf("input board was mutated")
	}
	if next.At(pos(5, 5)) != core.Empty || next.At(pos(4, 4)) != core.Empty || next.At(pos(2, 2)) != core.Empty {
		t.Fatalf("origin and captured squares must be cleared")
	}
	if next.At(pos(1, 1)) != core.WhiteMan {
		t.Fatalf("piece not relocated")
	}
	if next.At(pos(0, 7)) != core.BlackMan {
		t.Fatalf("unrelated piece changed")
	}
}

func TestApplyMovePromotion(t *testing.T) {
	tests := []struct {
		name  string
		piece core.Cell
		move  core.Move
		want  core.Cell
	}{
		{"white man on row 0", core.WhiteMan, core.Move{From: pos(1, 2), To: pos(0, 1)}, core.WhiteKing},
		{"black man on row 7", core.BlackMan, core.Move{From: pos(6, 1), To: pos(7, 2)}, core.BlackKing},
		{"white man short of back rank", core.WhiteMan, core.Move{From: pos(2, 1), To: pos(1, 2)}, core.WhiteMan},
		{"black man reaching row 0 stays man", core.BlackMan, core.Move{From: pos(1, 2), To: pos(0, 1)}, core.BlackMan},
		{"king unchanged", core.WhiteKing, core.Move{From: pos(1, 2), To: pos(0, 1)}, core.WhiteKing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := place(map[core.Position]core.Cell{tt.move.From: tt.piece})
			next := ApplyMove(b, tt.move)
			if got := next.At(tt.move.To); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
			if Promotes(b, tt.move) != (tt.want != tt.piece) {
				t.Fatalf("Promotes disagrees with ApplyMove")
			}
		})
	}
}

func TestMatch(t *testing.T) {
	b := place(map[core.Position]core.Cell{
		pos(7, 0): core.WhiteKing,
		pos(4, 3): core.BlackMan,
	})
	moves := LegalMoves(b, core.SideWhite)

	found := moves.Match(pos(7, 0), pos(2, 5), nil)
	if len(found) != 1 {
		t.Fatalf("expected one match, got %v", found)
	}
	if got := moves.Match(pos(7, 0), pos(2, 5), []core.Position{pos(5, 2)}); len(got) != 0 {
		t.Fatalf("wrong capture list should not match, got %v", got)
	}
}

// randomBoard scatters pieces over the dark squares
func randomBoard(rng *rand.Rand) board.Board {
	var b board.Board
	cells := []core.Cell{core.Empty, core.Empty, core.Empty, core.WhiteMan, core.BlackMan, core.WhiteKing, core.BlackKing}
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			if (r+c)%2 == 1 {
				b[r][c] = cells[rng.Intn(len(cells))]
			}
		}
	}
	return b
}

func TestRandomBoardProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		b := randomBoard(rng)
		for _, side := range []core.Side{core.SideWhite, core.SideBlack} {
			moves := LegalMoves(b, side)
			capture := moves.IsCapture()

			for from, list := range moves {
				if len(list) == 0 {
					t.Fatalf("empty entry for %s", from)
				}
				if !IsMyPiece(b.At(from), side) {
					t.Fatalf("move from square not owned by %s: %s", side, from)
				}
				for j, m := range list {
					for _, other := range list[:j] {
						if other.Equal(m) {
							t.Fatalf("move %s listed twice", m)
						}
					}
					if m.IsCapture() != capture {
						t.Fatalf("capture and non-capture moves mixed on board %s", b.Layout(side))
					}
					if b.At(m.To) != core.Empty {
						t.Fatalf("landing on occupied square: %s", m)
					}

					seen := make(map[core.Position]bool)
					for _, c := range m.Captures {
						if seen[c] {
							t.Fatalf("square %s captured twice in %s", c, m)
						}
						seen[c] = true
						if b.At(c).Owner() != core.OppositeSide(side) {
							t.Fatalf("captured square %s holds no enemy", c)
						}
					}

					if capture {
						// Resume the search at the chain end; the origin stays occupied as during the walk
						resumed := b
						resumed.Set(m.To, b.At(from))
						if more := CaptureChains(resumed, m.To, side, m.Captures, b.At(from).IsKing()); len(more) > 0 {
							t.Fatalf("chain %s stops although %s continues it", m, more[0])
						}
					}

					next := ApplyMove(b, m)
					if got, want := next.Pieces(core.OppositeSide(side)), b.Pieces(core.OppositeSide(side))-len(m.Captures); got != want {
						t.Fatalf("expected %d enemy pieces after %s, got %d", want, m, got)
					}
				}
			}
		}
	}
}
