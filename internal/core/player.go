package core

import (
	"github.com/google/uuid"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota + 1
	PlayerComputer
)

const (
	DefaultSearchDepth = 3
	MaxSearchDepth     = 6
)

// Player is the complete seat entity with all state
type Player struct {
	ID    string     `json:"id"`
	Side  Side       `json:"side"`
	Type  PlayerType `json:"type"`
	Depth int        `json:"depth,omitempty"` // Only for computer
}

// PlayerConfig for API requests and configuration
type PlayerConfig struct {
	Type  PlayerType `json:"type" validate:"required,oneof=1 2"`
	Depth int        `json:"depth,omitempty" validate:"omitempty,min=1,max=6"`
}

// PlayersResponse for API responses
type PlayersResponse struct {
	White *Player `json:"white"`
	Black *Player `json:"black"`
}

// NewPlayer creates a Player from PlayerConfig
func NewPlayer(config PlayerConfig, side Side) *Player {
	player := &Player{
		ID:   uuid.New().String(),
		Side: side,
		Type: config.Type,
	}

	if config.Type == PlayerComputer {
		player.Depth = config.Depth
		if player.Depth == 0 {
			player.Depth = DefaultSearchDepth
		}
	}

	return player
}
