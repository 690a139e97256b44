package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"checkers/internal/core"
	"checkers/internal/game"
	"checkers/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxComputerGames   = 10
	GameIdleTTL        = 24 * time.Hour
	CleanupJobInterval = 1 * time.Hour
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameExists       = errors.New("game already exists")
	ErrGamePending      = errors.New("computer move in progress")
	ErrGameStuck        = errors.New("game is stuck after an engine failure")
	ErrNotHumanTurn     = errors.New("not a human player's turn")
	ErrNotComputerTurn  = errors.New("not a computer player's turn")
	ErrTooManyComputers = errors.New("computer game limit reached")
	ErrUnauthorized     = errors.New("seat token required")
)

// entry is a game plus its last activity, used for idle expiry
type entry struct {
	game      *game.Game
	touchedAt time.Time
}

// Service coordinates game state, seat tokens and storage
type Service struct {
	games         map[string]*entry
	mu            sync.RWMutex
	store         *storage.Store // nil if persistence disabled
	jwtSecret     []byte         // nil disables seat tokens
	waiter        *WaitRegistry
	log           *zap.SugaredLogger
	computerGames atomic.Int32 // Active games with computer players
	now           func() time.Time
}

// New creates a new service instance with optional storage and seat tokens
func New(store *storage.Store, jwtSecret []byte, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		games:     make(map[string]*entry),
		store:     store,
		jwtSecret: jwtSecret,
		waiter:    NewWaitRegistry(),
		log:       log,
		now:       time.Now,
	}
}

// GenerateGameID creates a new unique game ID
func (s *Service) GenerateGameID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// View runs fn on a game under the read lock. fn must not keep the game.
func (s *Service) View(gameID string, fn func(*game.Game) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return fn(e.game)
}

// MoveCount returns the number of moves played in a game
func (s *Service) MoveCount(gameID string) (int, error) {
	n := 0
	err := s.View(gameID, func(g *game.Game) error {
		n = g.MoveCount()
		return nil
	})
	return n, err
}

// GameCount returns the number of games held in memory
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// RegisterWait registers a client to wait for game state changes
func (s *Service) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	return s.waiter.RegisterWait(gameID, moveCount, ctx)
}

// CanCreateComputerGame checks if a new computer game can be created
func (s *Service) CanCreateComputerGame() bool {
	return s.computerGames.Load() < MaxComputerGames
}

// GetComputerGameCount returns current computer game count
func (s *Service) GetComputerGameCount() int32 {
	return s.computerGames.Load()
}

// Shutdown gracefully shuts down the service
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*entry)
	s.computerGames.Store(0)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}

// RunCleanupJob periodically drops games idle for longer than GameIdleTTL
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.cleanupExpired(); n > 0 {
				s.log.Infow("cleanup: expired idle games", "count", n)
			}
		}
	}
}

func (s *Service) cleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-GameIdleTTL)
	expired := 0
	for id, e := range s.games {
		// Pending games stay until their worker reports back
		if e.touchedAt.After(cutoff) || e.game.State() == core.StatePending {
			continue
		}
		s.removeLocked(id, e)
		expired++
	}
	return expired
}
