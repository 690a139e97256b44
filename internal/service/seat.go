package service

import (
	"fmt"

	"checkers/internal/core"
	"checkers/internal/game"

	"github.com/lixenwraith/auth"
)

// Seat tokens are HS256 JWTs whose subject is the seat's player ID. They stay
// valid as long as the game may live without activity.
const SeatTokenTTL = GameIdleTTL

// TokensEnabled reports whether moves require seat tokens
func (s *Service) TokensEnabled() bool {
	return len(s.jwtSecret) > 0
}

// IssueSeatTokens returns a token for every human seat keyed by side ("w", "b").
// Computer seats get none.
func (s *Service) IssueSeatTokens(gameID string) (map[string]string, error) {
	if !s.TokensEnabled() {
		return nil, nil
	}

	var players []*core.Player
	err := s.View(gameID, func(g *game.Game) error {
		players = []*core.Player{g.GetPlayer(core.SideWhite), g.GetPlayer(core.SideBlack)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tokens := make(map[string]string, 2)
	for _, p := range players {
		if p.Type != core.PlayerHuman {
			continue
		}
		claims := map[string]any{
			"game": gameID,
			"side": p.Side.String(),
		}
		token, err := auth.GenerateHS256Token(s.jwtSecret, p.ID, claims, SeatTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to issue %s seat token: %w", p.Side.Name(), err)
		}
		tokens[p.Side.String()] = token
	}
	return tokens, nil
}

// SeatOf validates a token against a game and returns the side it controls
func (s *Service) SeatOf(gameID, token string) (core.Side, error) {
	if token == "" {
		return core.SideNone, ErrUnauthorized
	}

	playerID, claims, err := auth.ValidateHS256Token(s.jwtSecret, token)
	if err != nil {
		return core.SideNone, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claimed, _ := claims["game"].(string); claimed != gameID {
		return core.SideNone, fmt.Errorf("%w: token belongs to another game", ErrUnauthorized)
	}

	side := core.SideNone
	err = s.View(gameID, func(g *game.Game) error {
		for _, candidate := range []core.Side{core.SideWhite, core.SideBlack} {
			if p := g.GetPlayer(candidate); p != nil && p.ID == playerID {
				side = candidate
			}
		}
		return nil
	})
	if err != nil {
		return core.SideNone, err
	}
	if side == core.SideNone {
		return core.SideNone, fmt.Errorf("%w: seat was reassigned", ErrUnauthorized)
	}
	return side, nil
}

// Authorize checks that token controls a human seat of the game. When want
// names a human seat the token must control that one. Games without human
// seats and services without a secret are open.
func (s *Service) Authorize(gameID, token string, want core.Side) error {
	if !s.TokensEnabled() {
		return nil
	}

	humans := 0
	err := s.View(gameID, func(g *game.Game) error {
		for _, side := range []core.Side{core.SideWhite, core.SideBlack} {
			if p := g.GetPlayer(side); p != nil && p.Type == core.PlayerHuman {
				humans++
			} else if side == want {
				want = core.SideNone
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if humans == 0 {
		return nil
	}

	side, err := s.SeatOf(gameID, token)
	if err != nil {
		return err
	}
	if want != core.SideNone && side != want {
		return fmt.Errorf("%w: token controls the %s seat", ErrUnauthorized, side.Name())
	}
	return nil
}
