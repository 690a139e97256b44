package service

import (
	"fmt"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/storage"
)

// ComputerTurn is the position handed to an engine worker. MoveCount
// identifies the position so stale results can be discarded.
type ComputerTurn struct {
	GameID    string
	Board     board.Board
	Side      core.Side
	Player    *core.Player
	MoveCount int
}

// SearchOutcome is what a worker reports back for a ComputerTurn
type SearchOutcome struct {
	Move  *core.Move
	Score int
	Depth int
	Nodes int
	Err   error
}

func hasComputer(white, black *core.Player) bool {
	return white.Type == core.PlayerComputer || black.Type == core.PlayerComputer
}

// CreateGame registers a new game with pre-constructed players
func (s *Service) CreateGame(id string, whitePlayer, blackPlayer *core.Player, initial board.Board, startingTurn core.Side) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, id)
	}

	if hasComputer(whitePlayer, blackPlayer) {
		if !s.CanCreateComputerGame() {
			return ErrTooManyComputers
		}
		s.computerGames.Add(1)
	}

	g := game.New(initial, startingTurn, whitePlayer, blackPlayer)
	s.games[id] = &entry{game: g, touchedAt: s.now()}

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:        id,
			InitialLayout: g.InitialLayout(),
			WhitePlayerID: whitePlayer.ID,
			WhiteType:     int(whitePlayer.Type),
			WhiteDepth:    whitePlayer.Depth,
			BlackPlayerID: blackPlayer.ID,
			BlackType:     int(blackPlayer.Type),
			BlackDepth:    blackPlayer.Depth,
			StartTimeUTC:  s.now().UTC(),
		})
		// A layout with a blocked side to move is decided on creation
		if g.State().IsOver() {
			s.store.RecordResult(id, g.State().String(), s.now().UTC())
		}
	}

	s.log.Debugw("game created", "game", id, "layout", g.InitialLayout())
	return nil
}

// UpdatePlayers replaces players in an existing game. A stuck game becomes
// playable again.
func (s *Service) UpdatePlayers(gameID string, whitePlayer, blackPlayer *core.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(gameID)
	if err != nil {
		return err
	}
	g := e.game

	if g.State() == core.StatePending {
		return ErrGamePending
	}

	wasComputer := hasComputer(g.GetPlayer(core.SideWhite), g.GetPlayer(core.SideBlack))
	isComputer := hasComputer(whitePlayer, blackPlayer)
	switch {
	case isComputer && !wasComputer:
		if !s.CanCreateComputerGame() {
			return ErrTooManyComputers
		}
		s.computerGames.Add(1)
	case wasComputer && !isComputer:
		s.computerGames.Add(-1)
	}

	g.UpdatePlayers(whitePlayer, blackPlayer)
	e.touchedAt = s.now()

	// New seats get a fresh attempt after an engine failure
	if g.State() == core.StateStuck {
		g.SetState(core.StateOngoing)
		s.waiter.NotifyAll(gameID)
	}

	if s.store != nil {
		s.store.UpdatePlayers(storage.GameRecord{
			GameID:        gameID,
			WhitePlayerID: whitePlayer.ID,
			WhiteType:     int(whitePlayer.Type),
			WhiteDepth:    whitePlayer.Depth,
			BlackPlayerID: blackPlayer.ID,
			BlackType:     int(blackPlayer.Type),
			BlackDepth:    blackPlayer.Depth,
		})
	}

	return nil
}

// checkPlayable rejects moves in games that cannot continue
func checkPlayable(g *game.Game) error {
	switch st := g.State(); {
	case st == core.StatePending:
		return ErrGamePending
	case st == core.StateStuck:
		return ErrGameStuck
	case st.IsOver():
		return fmt.Errorf("%w: %s", game.ErrGameOver, st)
	}
	return nil
}

// ApplyHumanMove resolves move notation for the side to move and plays it.
// side is the seat the caller was authorized for; the move is refused unless
// that seat is still to move. SideNone plays for whichever side is to move.
func (s *Service) ApplyHumanMove(gameID, notation string, side core.Side) (*game.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(gameID)
	if err != nil {
		return nil, err
	}
	g := e.game

	if err := checkPlayable(g); err != nil {
		return nil, err
	}
	if g.NextPlayer().Type != core.PlayerHuman {
		return nil, ErrNotHumanTurn
	}
	if side != core.SideNone && g.NextTurn() != side {
		return nil, fmt.Errorf("%w: %s is not to move", ErrUnauthorized, side.Name())
	}

	move, err := g.ResolveMove(notation)
	if err != nil {
		return nil, err
	}

	return s.applyLocked(gameID, e, move, nil)
}

// StartComputerMove marks the game pending and returns the position to search
func (s *Service) StartComputerMove(gameID string) (ComputerTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(gameID)
	if err != nil {
		return ComputerTurn{}, err
	}
	g := e.game

	if err := checkPlayable(g); err != nil {
		return ComputerTurn{}, err
	}
	if g.NextPlayer().Type != core.PlayerComputer {
		return ComputerTurn{}, ErrNotComputerTurn
	}

	g.SetState(core.StatePending)
	e.touchedAt = s.now()

	return ComputerTurn{
		GameID:    gameID,
		Board:     g.CurrentBoard(),
		Side:      g.NextTurn(),
		Player:    g.NextPlayer(),
		MoveCount: g.MoveCount(),
	}, nil
}

// CompleteComputerMove applies a worker's result. Results for deleted games or
// positions that changed meanwhile are dropped. A failed search leaves the
// game stuck.
func (s *Service) CompleteComputerMove(turn ComputerTurn, out SearchOutcome) (*game.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(turn.GameID)
	if err != nil {
		return nil, err
	}
	g := e.game

	if g.State() != core.StatePending || g.MoveCount() != turn.MoveCount {
		return nil, fmt.Errorf("stale computer result for game %s", turn.GameID)
	}

	if out.Err != nil || out.Move == nil {
		g.SetState(core.StateStuck)
		s.waiter.NotifyAll(turn.GameID)
		if out.Err != nil {
			return nil, out.Err
		}
		return nil, fmt.Errorf("engine returned no move for game %s", turn.GameID)
	}

	result, err := s.applyLocked(turn.GameID, e, *out.Move, &out)
	if err != nil {
		g.SetState(core.StateStuck)
		s.waiter.NotifyAll(turn.GameID)
		return nil, err
	}
	return result, nil
}

// applyLocked plays a resolved move, records it and wakes waiting clients
func (s *Service) applyLocked(gameID string, e *entry, move core.Move, search *SearchOutcome) (*game.MoveResult, error) {
	g := e.game

	result, err := g.ApplyMove(move)
	if err != nil {
		return nil, err
	}
	if search != nil {
		result.Score = search.Score
		result.Depth = search.Depth
		result.Nodes = search.Nodes
	}
	g.SetLastResult(result)
	e.touchedAt = s.now()

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.RecordMove(storage.MoveRecord{
			GameID:      gameID,
			MoveNumber:  g.MoveCount(),
			Move:        move.String(),
			Captures:    len(move.Captures),
			LayoutAfter: g.Layout(),
			PlayerColor: result.Player.String(),
			MoveTimeUTC: s.now().UTC(),
		})
		if g.State().IsOver() {
			s.store.RecordResult(gameID, g.State().String(), s.now().UTC())
		}
	}

	return result, nil
}

// UndoMoves removes the specified number of moves from game history
func (s *Service) UndoMoves(gameID string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(gameID)
	if err != nil {
		return err
	}
	g := e.game

	if g.State() == core.StatePending {
		return ErrGamePending
	}

	if err := g.UndoMoves(count); err != nil {
		return err
	}
	e.touchedAt = s.now()

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, g.MoveCount())
	}

	return nil
}

// DeleteGame removes a game from memory; its stored history is kept
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(gameID)
	if err != nil {
		return err
	}
	if e.game.State() == core.StatePending {
		return ErrGamePending
	}

	s.removeLocked(gameID, e)
	return nil
}

func (s *Service) lookupLocked(gameID string) (*entry, error) {
	e, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return e, nil
}

func (s *Service) removeLocked(gameID string, e *entry) {
	if hasComputer(e.game.GetPlayer(core.SideWhite), e.game.GetPlayer(core.SideBlack)) {
		s.computerGames.Add(-1)
	}

	// Wake all waiters before the game disappears
	s.waiter.RemoveGame(gameID)
	delete(s.games, gameID)
}
