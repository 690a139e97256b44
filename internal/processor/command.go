package processor

import (
	"checkers/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdConfigurePlayers
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdUndoMove
	CmdGetBoard
	CmdGetLegalMoves
	CmdEngineLegalMoves
	CmdEngineApply
	CmdEngineBestMove
)

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	Token  string // Seat token presented by the client
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Pending bool                `json:"pending,omitempty"` // For async operations
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewConfigurePlayersCommand(gameID, token string, req core.ConfigurePlayersRequest) Command {
	return Command{
		Type:   CmdConfigurePlayers,
		Token:  token,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID, token string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		Token:  token,
		GameID: gameID,
		Args:   req,
	}
}

func NewUndoMoveCommand(gameID, token string, req core.UndoRequest) Command {
	return Command{
		Type:   CmdUndoMove,
		Token:  token,
		GameID: gameID,
		Args:   req,
	}
}

func NewDeleteGameCommand(gameID, token string) Command {
	return Command{
		Type:   CmdDeleteGame,
		Token:  token,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
	}
}

func NewGetLegalMovesCommand(gameID string) Command {
	return Command{
		Type:   CmdGetLegalMoves,
		GameID: gameID,
	}
}

func NewEngineLegalMovesCommand(req core.PositionRequest) Command {
	return Command{
		Type: CmdEngineLegalMoves,
		Args: req,
	}
}

func NewEngineApplyCommand(req core.ApplyRequest) Command {
	return Command{
		Type: CmdEngineApply,
		Args: req,
	}
}

func NewEngineBestMoveCommand(req core.PositionRequest) Command {
	return Command{
		Type: CmdEngineBestMove,
		Args: req,
	}
}
