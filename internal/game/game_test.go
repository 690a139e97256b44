package game

import (
	"errors"
	"testing"

	"checkers/internal/board"
	"checkers/internal/core"
)

func pos(r, c int) core.Position {
	return core.Position{Row: r, Col: c}
}

func newPlayers() (*core.Player, *core.Player) {
	white := core.NewPlayer(core.PlayerConfig{Type: core.PlayerHuman}, core.SideWhite)
	black := core.NewPlayer(core.PlayerConfig{Type: core.PlayerComputer, Depth: 2}, core.SideBlack)
	return white, black
}

func mustLayout(t *testing.T, layout string) (board.Board, core.Side) {
	t.Helper()
	b, side, err := board.ParseLayout(layout)
	if err != nil {
		t.Fatalf("ParseLayout(%q): %v", layout, err)
	}
	return b, side
}

func TestNewGame(t *testing.T) {
	white, black := newPlayers()
	g := New(board.Standard(), core.SideWhite, white, black)

	if g.State() != core.StateOngoing || g.Winner() != core.SideNone {
		t.Fatalf("state %s winner %s, want ongoing with no winner", g.State(), g.Winner())
	}
	if g.NextPlayer() != white {
		t.Fatalf("white should move first")
	}
	if got := g.InitialLayout(); got != board.StartingLayout {
		t.Fatalf("InitialLayout = %q", got)
	}
	if n := g.LegalMoves().Count(); n != 7 {
		t.Fatalf("%d opening moves, want 7", n)
	}
	if len(g.Moves()) != 0 || g.MoveCount() != 0 {
		t.Fatalf("fresh game has history %v", g.Moves())
	}
}

func TestResolveAndApply(t *testing.T) {
	white, black := newPlayers()
	g := New(board.Standard(), core.SideWhite, white, black)

	move, err := g.ResolveMove("c3-d4")
	if err != nil {
		t.Fatalf("ResolveMove: %v", err)
	}
	want := core.Move{From: pos(5, 2), To: pos(4, 3)}
	if !move.Equal(want) {
		t.Fatalf("resolved %v, want %v", move, want)
	}

	res, err := g.ApplyMove(move)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if res.Player != core.SideWhite || res.GameState != core.StateOngoing || res.Promoted {
		t.Fatalf("unexpected result %+v", res)
	}
	if g.NextTurn() != core.SideBlack {
		t.Fatalf("turn did not pass to black")
	}
	if g.CurrentSnapshot().PlayerID != white.ID {
		t.Fatalf("snapshot not attributed to the white seat")
	}
	cur := g.CurrentBoard()
	if cur.At(pos(5, 2)) != core.Empty || cur.At(pos(4, 3)) != core.WhiteMan {
		t.Fatalf("board not updated:\n%s", cur.ToASCII())
	}
	if moves := g.Moves(); len(moves) != 1 || moves[0] != "c3-d4" {
		t.Fatalf("Moves = %v", moves)
	}
}

func TestRejectsIllegalMoves(t *testing.T) {
	white, black := newPlayers()
	g := New(board.Standard(), core.SideWhite, white, black)

	for _, notation := range []string{"c3-c4", "a3-b2", "b6-a5", "zz-d4", "c3xe5"} {
		if _, err := g.ResolveMove(notation); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ResolveMove(%q) error = %v, want ErrIllegalMove", notation, err)
		}
	}

	if _, err := g.ApplyMove(core.Move{From: pos(5, 0), To: pos(3, 2)}); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("ApplyMove accepted an illegal move: %v", err)
	}
}

func TestResolveCaptureNotation(t *testing.T) {
	// The white king on a1 takes b2 and g7 on its way to h8, whichever
	// intermediate square it lands on
	b, side := mustLayout(t, "8/6b1/8/8/8/8/1b6/W7 w")
	white, black := newPlayers()
	g := New(b, side, white, black)

	want := core.Move{From: pos(7, 0), To: pos(0, 7), Captures: []core.Position{pos(6, 1), pos(1, 6)}}
	if all := g.LegalMoves().All(); len(all) != 1 || !all[0].Equal(want) {
		t.Fatalf("legal moves %v, want only %v", all, want)
	}

	for _, notation := range []string{"a1xh8(b2,g7)", "a1xh8", "A1Xh8"} {
		got, err := g.ResolveMove(notation)
		if err != nil {
			t.Fatalf("ResolveMove(%q): %v", notation, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ResolveMove(%q) = %v, want %v", notation, got, want)
		}
	}

	for _, notation := range []string{"a1xh8(g7,b2)", "a1-h8", "a1xd4"} {
		if _, err := g.ResolveMove(notation); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ResolveMove(%q) error = %v, want ErrIllegalMove", notation, err)
		}
	}
}

func TestCaptureScoresAndWin(t *testing.T) {
	// Last black man on e5 is captured by the white man on d4
	b, side := mustLayout(t, "8/8/8/4b3/3w4/8/8/8 w")
	white, black := newPlayers()
	g := New(b, side, white, black)

	move, err := g.ResolveMove("d4xf6")
	if err != nil {
		t.Fatalf("ResolveMove: %v", err)
	}
	res, err := g.ApplyMove(move)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}

	if res.GameState != core.StateWhiteWins || g.State() != core.StateWhiteWins {
		t.Fatalf("state %s, want white wins", g.State())
	}
	if g.Winner() != core.SideWhite {
		t.Fatalf("winner %s, want white", g.Winner())
	}
	if g.Score(core.SideWhite) != 1 || g.Score(core.SideBlack) != 0 {
		t.Fatalf("scores white=%d black=%d", g.Score(core.SideWhite), g.Score(core.SideBlack))
	}
	if _, err := g.ApplyMove(core.Move{From: pos(2, 5), To: pos(1, 4)}); !errors.Is(err, ErrGameOver) {
		t.Fatalf("move after game over: %v", err)
	}

	if err := g.UndoMoves(1); err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}
	if g.State() != core.StateOngoing || g.Winner() != core.SideNone {
		t.Fatalf("undo did not reopen the game: %s", g.State())
	}
	if g.Score(core.SideWhite) != 0 {
		t.Fatalf("score not recomputed on undo")
	}
	if g.NextTurn() != core.SideWhite || g.LastResult() != nil {
		t.Fatalf("undo did not restore the previous snapshot")
	}
}

func TestBlockedSideLosesAtStart(t *testing.T) {
	// White man on a7 cannot move: b8 is occupied and the jump leaves the board
	b, side := mustLayout(t, "1b6/w7/8/8/8/8/8/8 w")
	white, black := newPlayers()
	g := New(b, side, white, black)

	if g.State() != core.StateBlackWins || g.Winner() != core.SideBlack {
		t.Fatalf("state %s winner %s, want black wins", g.State(), g.Winner())
	}
}

func TestUndoBounds(t *testing.T) {
	white, black := newPlayers()
	g := New(board.Standard(), core.SideWhite, white, black)

	if err := g.UndoMoves(0); !errors.Is(err, ErrInvalidUndo) {
		t.Fatalf("UndoMoves(0) = %v", err)
	}
	if err := g.UndoMoves(1); !errors.Is(err, ErrInvalidUndo) {
		t.Fatalf("UndoMoves on fresh game = %v", err)
	}

	for _, n := range []string{"c3-d4", "b6-c5"} {
		m, err := g.ResolveMove(n)
		if err != nil {
			t.Fatalf("ResolveMove(%q): %v", n, err)
		}
		if _, err := g.ApplyMove(m); err != nil {
			t.Fatalf("ApplyMove(%q): %v", n, err)
		}
	}

	// Mandatory capture for white now: d4xb6
	if !g.LegalMoves().IsCapture() {
		t.Fatalf("expected capture after c3-d4 b6-c5")
	}

	if err := g.UndoMoves(2); err != nil {
		t.Fatalf("UndoMoves(2): %v", err)
	}
	if g.CurrentBoard() != board.Standard() || g.MoveCount() != 0 {
		t.Fatalf("undo did not restore the start position")
	}
	if g.LegalMoves().IsCapture() {
		t.Fatalf("legal move cache not refreshed on undo")
	}
}

func TestPendingClearedByMove(t *testing.T) {
	white, black := newPlayers()
	g := New(board.Standard(), core.SideWhite, white, black)
	g.SetState(core.StatePending)

	m, err := g.ResolveMove("g3-h4")
	if err != nil {
		t.Fatalf("ResolveMove: %v", err)
	}
	if _, err := g.ApplyMove(m); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if g.State() != core.StateOngoing {
		t.Fatalf("state %s after move, want ongoing", g.State())
	}
}
