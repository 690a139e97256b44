package core

// Grid is the serialized form of a board: row-major, row 0 on top
type Grid = [8][8]Cell

// Request types

type CreateGameRequest struct {
	White  PlayerConfig `json:"white" validate:"required"`
	Black  PlayerConfig `json:"black" validate:"required"`
	Layout string       `json:"layout,omitempty" validate:"omitempty,max=100"`
}

type ConfigurePlayersRequest struct {
	White PlayerConfig `json:"white" validate:"required"`
	Black PlayerConfig `json:"black" validate:"required"`
}

// ComputerMove is the move string that asks the computer seat to play
const ComputerMove = "auto"

type MoveRequest struct {
	Move string `json:"move" validate:"required,min=4,max=64"` // "auto" for computer move, otherwise move notation
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=500"`
}

// PositionRequest carries a bare position for the stateless engine endpoints
type PositionRequest struct {
	Board Grid `json:"board"`
	Side  Side `json:"side" validate:"required,oneof=1 2"`
	Depth int  `json:"depth,omitempty" validate:"omitempty,min=1,max=6"`
}

type ApplyRequest struct {
	Board Grid `json:"board"`
	Move  Move `json:"move"`
}

// Response types

type GameResponse struct {
	GameID   string            `json:"gameId"`
	Layout   string            `json:"layout"`
	Board    Grid              `json:"board"`
	Turn     string            `json:"turn"`  // "w" or "b"
	State    string            `json:"state"` // "ongoing", "white wins", etc
	Winner   string            `json:"winner,omitempty"`
	Scores   ScoresResponse    `json:"scores"`
	Moves    []string          `json:"moves"`
	Players  PlayersResponse   `json:"players"`
	LastMove *MoveInfo         `json:"lastMove,omitempty"`
	Tokens   map[string]string `json:"tokens,omitempty"` // Seat tokens, only returned on creation
}

// ScoresResponse counts the enemy pieces each side has captured
type ScoresResponse struct {
	White int `json:"white"`
	Black int `json:"black"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
	Score       int    `json:"score,omitempty"`
	Depth       int    `json:"depth,omitempty"`
}

type BoardResponse struct {
	Layout string `json:"layout"`
	Board  string `json:"board"` // ASCII representation
	Grid   Grid   `json:"grid"`
}

type LegalMovesResponse struct {
	Side     string   `json:"side"`
	Capture  bool     `json:"capture"` // Mandatory capture in effect
	Moves    []Move   `json:"moves"`
	Notation []string `json:"notation"`
}

type ApplyResponse struct {
	Board    Grid   `json:"board"`
	Layout   string `json:"layout"`
	Promoted bool   `json:"promoted"`
}

type BestMoveResponse struct {
	Move     *Move  `json:"move"` // null when the side has no move
	Notation string `json:"notation,omitempty"`
	Score    int    `json:"score"`
	Depth    int    `json:"depth"`
	Nodes    int    `json:"nodes"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
