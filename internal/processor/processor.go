package processor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/rules"
	"checkers/internal/service"

	"go.uber.org/zap"
)

// Processor handles command execution and coordinates between service and engine layers
type Processor struct {
	svc   *service.Service
	queue *EngineQueue
	log   *zap.SugaredLogger
}

// Config sizes the engine worker pool
type Config struct {
	Workers       int
	SearchTimeout time.Duration
}

func New(svc *service.Service, cfg Config, log *zap.SugaredLogger) *Processor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Processor{
		svc:   svc,
		queue: NewEngineQueue(cfg.Workers, cfg.SearchTimeout, log),
		log:   log,
	}
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdConfigurePlayers:
		return p.handleConfigurePlayers(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdGetLegalMoves:
		return p.handleGetLegalMoves(cmd)
	case CmdEngineLegalMoves:
		return p.handleEngineLegalMoves(cmd)
	case CmdEngineApply:
		return p.handleEngineApply(cmd)
	case CmdEngineBestMove:
		return p.handleEngineBestMove(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// handleCreateGame creates a new game from the standard or a supplied layout
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	initial, turn := board.Standard(), core.SideWhite
	if layout := strings.TrimSpace(args.Layout); layout != "" {
		b, side, err := board.ParseLayout(layout)
		if err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidBoard)
		}
		if err := b.Validate(); err != nil {
			return p.errorResponse(err.Error(), core.ErrInvalidBoard)
		}
		initial, turn = b, side
	}

	gameID := p.svc.GenerateGameID()
	whitePlayer := core.NewPlayer(args.White, core.SideWhite)
	blackPlayer := core.NewPlayer(args.Black, core.SideBlack)

	if err := p.svc.CreateGame(gameID, whitePlayer, blackPlayer, initial, turn); err != nil {
		return p.failure("failed to create game", err)
	}

	tokens, err := p.svc.IssueSeatTokens(gameID)
	if err != nil {
		return p.failure("failed to issue seat tokens", err)
	}

	return p.gameResponse(gameID, tokens, false)
}

// handleConfigurePlayers replaces both seats; old seat tokens stop working
func (p *Processor) handleConfigurePlayers(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ConfigurePlayersRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	if err := p.svc.Authorize(cmd.GameID, cmd.Token, core.SideNone); err != nil {
		return p.failure("not allowed to configure players", err)
	}

	whitePlayer := core.NewPlayer(args.White, core.SideWhite)
	blackPlayer := core.NewPlayer(args.Black, core.SideBlack)

	if err := p.svc.UpdatePlayers(cmd.GameID, whitePlayer, blackPlayer); err != nil {
		return p.failure("failed to update players", err)
	}

	tokens, err := p.svc.IssueSeatTokens(cmd.GameID)
	if err != nil {
		return p.failure("failed to issue seat tokens", err)
	}

	return p.gameResponse(cmd.GameID, tokens, false)
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	return p.gameResponse(cmd.GameID, nil, false)
}

// handleMakeMove plays a human move, or starts the computer search for "auto"
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	move := strings.TrimSpace(args.Move)
	if strings.EqualFold(move, core.ComputerMove) {
		return p.handleComputerMove(cmd)
	}

	var side core.Side
	if err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		side = g.NextTurn()
		return nil
	}); err != nil {
		return p.failure("game not found", err)
	}

	if err := p.svc.Authorize(cmd.GameID, cmd.Token, side); err != nil {
		return p.failure("not allowed to move for "+side.Name(), err)
	}

	if _, err := p.svc.ApplyHumanMove(cmd.GameID, move, side); err != nil {
		return p.failure("move rejected", err)
	}

	return p.gameResponse(cmd.GameID, nil, false)
}

// handleComputerMove marks the game pending and queues the search
func (p *Processor) handleComputerMove(cmd Command) ProcessorResponse {
	if err := p.svc.Authorize(cmd.GameID, cmd.Token, core.SideNone); err != nil {
		return p.failure("not allowed to trigger computer move", err)
	}

	turn, err := p.svc.StartComputerMove(cmd.GameID)
	if err != nil {
		return p.failure("cannot start computer move", err)
	}

	if err := p.triggerComputerMove(turn); err != nil {
		p.svc.CompleteComputerMove(turn, service.SearchOutcome{Err: err})
		return p.failure("engine unavailable", err)
	}

	return p.gameResponse(cmd.GameID, nil, true)
}

// triggerComputerMove submits the search; the callback applies the result
func (p *Processor) triggerComputerMove(turn service.ComputerTurn) error {
	return p.queue.SubmitAsync(turn.Board, turn.Side, turn.Player.Depth, func(result EngineResult) {
		out := service.SearchOutcome{Err: result.Error}
		if result.Search != nil {
			out.Move = result.Search.Move
			out.Score = result.Search.Score
			out.Depth = result.Search.Depth
			out.Nodes = result.Search.Nodes
		}

		applied, err := p.svc.CompleteComputerMove(turn, out)
		if err != nil {
			if errors.Is(err, service.ErrGameNotFound) {
				return // Game was deleted
			}
			p.log.Warnw("computer move failed", "game", turn.GameID, "error", err)
			return
		}
		p.log.Debugw("computer moved", "game", turn.GameID, "move", applied.Move.String(),
			"score", applied.Score, "nodes", applied.Nodes)
	})
}

func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok {
		args = req
	}

	if err := p.svc.Authorize(cmd.GameID, cmd.Token, core.SideNone); err != nil {
		return p.failure("not allowed to undo", err)
	}

	if err := p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		return p.failure("undo rejected", err)
	}

	return p.gameResponse(cmd.GameID, nil, false)
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	if err := p.svc.Authorize(cmd.GameID, cmd.Token, core.SideNone); err != nil {
		return p.failure("not allowed to delete game", err)
	}

	if err := p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.failure("cannot delete game", err)
	}

	return ProcessorResponse{Success: true}
}

// handleGetBoard returns the text rendering of the current position
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	var resp core.BoardResponse
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		b := g.CurrentBoard()
		resp = core.BoardResponse{
			Layout: g.Layout(),
			Board:  b.ToASCII(),
			Grid:   b.Grid(),
		}
		return nil
	})
	if err != nil {
		return p.failure("game not found", err)
	}

	return ProcessorResponse{Success: true, Data: resp}
}

func (p *Processor) handleGetLegalMoves(cmd Command) ProcessorResponse {
	var resp core.LegalMovesResponse
	err := p.svc.View(cmd.GameID, func(g *game.Game) error {
		resp = legalMovesResponse(g.NextTurn(), g.LegalMoves())
		return nil
	})
	if err != nil {
		return p.failure("game not found", err)
	}

	return ProcessorResponse{Success: true, Data: resp}
}

// handleEngineLegalMoves lists the legal moves of a posted position
func (p *Processor) handleEngineLegalMoves(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.PositionRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b := board.FromGrid(args.Board)
	if err := b.Validate(); err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidBoard)
	}

	return ProcessorResponse{
		Success: true,
		Data:    legalMovesResponse(args.Side, rules.LegalMoves(b, args.Side)),
	}
}

// handleEngineApply plays a move on a posted position. The move must be
// legal for the owner of the moved piece.
func (p *Processor) handleEngineApply(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ApplyRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b := board.FromGrid(args.Board)
	if err := b.Validate(); err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidBoard)
	}

	move := args.Move
	if !move.From.Valid() || !move.To.Valid() {
		return p.errorResponse("move squares off the board", core.ErrInvalidMove)
	}
	for _, c := range move.Captures {
		if !c.Valid() {
			return p.errorResponse("captured square off the board", core.ErrInvalidMove)
		}
	}

	side := b.At(move.From).Owner()
	if side == core.SideNone || !rules.LegalMoves(b, side).Contains(move) {
		return p.errorResponse(fmt.Sprintf("illegal move %s", move), core.ErrInvalidMove)
	}

	next := rules.ApplyMove(b, move)
	return ProcessorResponse{
		Success: true,
		Data: core.ApplyResponse{
			Board:    next.Grid(),
			Layout:   next.Layout(core.OppositeSide(side)),
			Promoted: rules.Promotes(b, move),
		},
	}
}

// handleEngineBestMove searches a posted position on the worker pool
func (p *Processor) handleEngineBestMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.PositionRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	b := board.FromGrid(args.Board)
	if err := b.Validate(); err != nil {
		return p.errorResponse(err.Error(), core.ErrInvalidBoard)
	}

	depth := args.Depth
	if depth == 0 {
		depth = core.DefaultSearchDepth
	}

	search, err := p.queue.Search(b, args.Side, depth)
	if err != nil {
		return p.failure("search failed", err)
	}

	resp := core.BestMoveResponse{
		Move:  search.Move,
		Score: search.Score,
		Depth: search.Depth,
		Nodes: search.Nodes,
	}
	if search.Move != nil {
		resp.Notation = search.Move.String()
	}

	return ProcessorResponse{Success: true, Data: resp}
}

func legalMovesResponse(side core.Side, moves rules.MoveMap) core.LegalMovesResponse {
	all := moves.All()
	resp := core.LegalMovesResponse{
		Side:     side.String(),
		Capture:  moves.IsCapture(),
		Moves:    make([]core.Move, 0, len(all)),
		Notation: make([]string, 0, len(all)),
	}
	for _, m := range all {
		resp.Moves = append(resp.Moves, m)
		resp.Notation = append(resp.Notation, m.String())
	}
	return resp
}

// gameResponse reads the game under the service lock and builds the standard response
func (p *Processor) gameResponse(gameID string, tokens map[string]string, pending bool) ProcessorResponse {
	var resp core.GameResponse
	err := p.svc.View(gameID, func(g *game.Game) error {
		resp = buildGameResponse(gameID, g)
		return nil
	})
	if err != nil {
		return p.failure("game not found", err)
	}
	resp.Tokens = tokens

	return ProcessorResponse{
		Success: true,
		Pending: pending,
		Data:    resp,
	}
}

// buildGameResponse constructs standard game response
func buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	resp := core.GameResponse{
		GameID: gameID,
		Layout: g.Layout(),
		Board:  g.CurrentBoard().Grid(),
		Turn:   g.NextTurn().String(),
		State:  g.State().String(),
		Scores: core.ScoresResponse{
			White: g.Score(core.SideWhite),
			Black: g.Score(core.SideBlack),
		},
		Moves: g.Moves(),
		Players: core.PlayersResponse{
			White: g.GetPlayer(core.SideWhite),
			Black: g.GetPlayer(core.SideBlack),
		},
	}

	if winner := g.Winner(); winner != core.SideNone {
		resp.Winner = winner.String()
	}

	if result := g.LastResult(); result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        result.Move.String(),
			PlayerColor: result.Player.String(),
			Score:       result.Score,
			Depth:       result.Depth,
		}
	}

	return resp
}

// failure maps service, game and queue errors onto API error codes
func (p *Processor) failure(message string, err error) ProcessorResponse {
	code := core.ErrInternalError
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		code = core.ErrGameNotFound
	case errors.Is(err, service.ErrUnauthorized):
		code = core.ErrUnauthorized
	case errors.Is(err, game.ErrIllegalMove), errors.Is(err, game.ErrAmbiguousMove):
		code = core.ErrInvalidMove
	case errors.Is(err, game.ErrGameOver), errors.Is(err, service.ErrGameStuck):
		code = core.ErrGameOver
	case errors.Is(err, service.ErrNotHumanTurn), errors.Is(err, service.ErrNotComputerTurn):
		code = core.ErrNotHumanTurn
	case errors.Is(err, service.ErrGamePending), errors.Is(err, game.ErrInvalidUndo):
		code = core.ErrInvalidRequest
	case errors.Is(err, service.ErrTooManyComputers), errors.Is(err, ErrQueueFull):
		code = core.ErrResourceLimit
	case errors.Is(err, ErrSearchTimeout):
		code = core.ErrEngineTimeout
	}

	if code == core.ErrInternalError {
		p.log.Errorw(message, "error", err)
	}

	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error:   message,
			Code:    code,
			Details: err.Error(),
		},
	}
}

// errorResponse creates error response
func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error: message,
			Code:  code,
		},
	}
}

// Close stops the engine workers
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
