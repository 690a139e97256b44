package game

import (
	"errors"
	"fmt"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"
)

var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrAmbiguousMove = errors.New("ambiguous move")
	ErrGameOver      = errors.New("game is over")
	ErrInvalidUndo   = errors.New("invalid undo")
)

type Snapshot struct {
	Board        board.Board // Board state at this point
	PreviousMove *core.Move  // Move that created this position (nil for initial)
	NextTurn     core.Side   // Whose turn it is at this position
	PlayerID     string      // Seat that played PreviousMove
}

// MoveResult tracks the outcome of a move
type MoveResult struct {
	Move      core.Move
	Player    core.Side
	GameState core.State
	Promoted  bool
	Score     int
	Depth     int
	Nodes     int
}

type Game struct {
	snapshots  []Snapshot
	players    map[core.Side]*core.Player
	state      core.State
	winner     core.Side
	captured   map[core.Side]int
	legal      rules.MoveMap // Cached for the current snapshot, nil when stale
	lastResult *MoveResult
}

func New(initial board.Board, startingTurn core.Side, whitePlayer, blackPlayer *core.Player) *Game {
	g := &Game{
		snapshots: []Snapshot{
			{
				Board:    initial,
				NextTurn: startingTurn,
			},
		},
		players: map[core.Side]*core.Player{
			core.SideWhite: whitePlayer,
			core.SideBlack: blackPlayer,
		},
		state:    core.StateOngoing,
		captured: make(map[core.Side]int, 2),
	}
	g.checkTerminal()
	return g
}

func (g *Game) SetLastResult(result *MoveResult) {
	g.lastResult = result
}

func (g *Game) LastResult() *MoveResult {
	return g.lastResult
}

func (g *Game) CurrentSnapshot() Snapshot {
	return g.snapshots[len(g.snapshots)-1]
}

func (g *Game) CurrentBoard() board.Board {
	return g.CurrentSnapshot().Board
}

func (g *Game) InitialBoard() board.Board {
	return g.snapshots[0].Board
}

// InitialLayout returns the starting position in layout notation
func (g *Game) InitialLayout() string {
	first := g.snapshots[0]
	return first.Board.Layout(first.NextTurn)
}

// Layout returns the current position in layout notation
func (g *Game) Layout() string {
	snap := g.CurrentSnapshot()
	return snap.Board.Layout(snap.NextTurn)
}

func (g *Game) NextTurn() core.Side {
	return g.CurrentSnapshot().NextTurn
}

func (g *Game) NextPlayer() *core.Player {
	return g.players[g.NextTurn()]
}

func (g *Game) GetPlayer(side core.Side) *core.Player {
	return g.players[side]
}

func (g *Game) UpdatePlayers(whitePlayer, blackPlayer *core.Player) {
	g.players[core.SideWhite] = whitePlayer
	g.players[core.SideBlack] = blackPlayer
}

// LegalMoves returns the legal moves of the side to move. The map is shared
// with the cache and must not be modified. Every mutation refills the cache,
// so callers holding only a read lock never write it.
func (g *Game) LegalMoves() rules.MoveMap {
	if g.legal == nil {
		snap := g.CurrentSnapshot()
		g.legal = rules.LegalMoves(snap.Board, snap.NextTurn)
	}
	return g.legal
}

// ResolveMove parses move notation and finds the matching legal move. A
// capture given without its capture list must be unambiguous.
func (g *Game) ResolveMove(notation string) (core.Move, error) {
	parsed, capture, err := core.ParseMove(notation)
	if err != nil {
		return core.Move{}, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	matches := g.LegalMoves().Match(parsed.From, parsed.To, parsed.Captures)
	if len(matches) == 0 || matches[0].IsCapture() != capture {
		return core.Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, notation)
	}
	if len(matches) > 1 {
		return core.Move{}, fmt.Errorf("%w: %s matches %d capture chains", ErrAmbiguousMove, notation, len(matches))
	}
	return matches[0], nil
}

// ApplyMove plays a legal move for the side to move and runs the terminal check
func (g *Game) ApplyMove(move core.Move) (*MoveResult, error) {
	if g.state.IsOver() {
		return nil, ErrGameOver
	}
	if !g.LegalMoves().Contains(move) {
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, move)
	}

	snap := g.CurrentSnapshot()
	mover := snap.NextTurn
	promoted := rules.Promotes(snap.Board, move)

	var playerID string
	if p := g.players[mover]; p != nil {
		playerID = p.ID
	}

	g.snapshots = append(g.snapshots, Snapshot{
		Board:        rules.ApplyMove(snap.Board, move),
		PreviousMove: &move,
		NextTurn:     core.OppositeSide(mover),
		PlayerID:     playerID,
	})
	g.legal = nil
	g.captured[mover] += len(move.Captures)
	g.state = core.StateOngoing
	g.checkTerminal()

	return &MoveResult{
		Move:      move,
		Player:    mover,
		GameState: g.state,
		Promoted:  promoted,
	}, nil
}

// checkTerminal ends the game when the side to move has no legal move
func (g *Game) checkTerminal() {
	if len(g.LegalMoves()) > 0 {
		return
	}
	g.winner = core.OppositeSide(g.NextTurn())
	g.state = core.WinState(g.winner)
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: count %d", ErrInvalidUndo, count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("%w: cannot undo %d moves, only %d available", ErrInvalidUndo, count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	g.state = core.StateOngoing // Reset game state when undoing
	g.winner = core.SideNone
	g.lastResult = nil
	g.legal = nil
	g.recountCaptures()
	g.checkTerminal()
	return nil
}

func (g *Game) recountCaptures() {
	clear(g.captured)
	for i := 1; i < len(g.snapshots); i++ {
		if m := g.snapshots[i].PreviousMove; m != nil {
			g.captured[g.snapshots[i-1].NextTurn] += len(m.Captures)
		}
	}
}

// Moves returns the history in move notation
func (g *Game) Moves() []string {
	moves := []string{}
	for i := 1; i < len(g.snapshots); i++ {
		if m := g.snapshots[i].PreviousMove; m != nil {
			moves = append(moves, m.String())
		}
	}
	return moves
}

func (g *Game) MoveCount() int {
	return len(g.snapshots) - 1
}

func (g *Game) State() core.State {
	return g.state
}

func (g *Game) SetState(s core.State) {
	g.state = s
}

// Winner is SideNone until the game is over
func (g *Game) Winner() core.Side {
	return g.winner
}

// Score returns the number of enemy pieces side has captured
func (g *Game) Score(side core.Side) int {
	return g.captured[side]
}
