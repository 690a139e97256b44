package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates. It fires
// exactly once: on a matching notification, timeout, disconnect or shutdown.
type WaitRequest struct {
	GameID    string
	MoveCount int           // Last known move count
	Notify    chan struct{} // Receives one value when the request fires
	Timer     *time.Timer
	done      chan struct{}
	fired     bool
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		timeout:  WaitTimeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client to wait for game state changes. The
// returned channel also fires on timeout, so callers re-read the game state.
func (w *WaitRegistry) RegisterWait(gameID string, moveCount int, ctx context.Context) <-chan struct{} {
	req := &WaitRequest{
		GameID:    gameID,
		MoveCount: moveCount,
		Notify:    make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	w.mu.Lock()
	req.Timer = time.AfterFunc(w.timeout, func() {
		w.fire(req)
	})
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			w.fire(req)
		case <-w.shutdown:
			w.fire(req)
		case <-req.done:
		}
	}()

	return req.Notify
}

// NotifyGame wakes clients whose known move count differs from the current one
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.notify(gameID, func(req *WaitRequest) bool {
		return req.MoveCount != currentMoveCount
	})
}

// NotifyAll wakes every client of a game, for state changes that keep the
// move count such as a failed computer move
func (w *WaitRegistry) NotifyAll(gameID string) {
	w.notify(gameID, func(*WaitRequest) bool { return true })
}

// RemoveGame wakes all waiters of a game before it is deleted
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.NotifyAll(gameID)
}

func (w *WaitRegistry) notify(gameID string, match func(*WaitRequest) bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// fireLocked edits the slice, iterate over a copy
	for _, req := range append([]*WaitRequest(nil), w.waiters[gameID]...) {
		if match(req) {
			w.fireLocked(req)
		}
	}
}

// Len returns the number of registered waiters for a game
func (w *WaitRegistry) Len(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown wakes every waiter and waits for the watchers to exit
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) fire(req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fireLocked(req)
}

func (w *WaitRegistry) fireLocked(req *WaitRequest) {
	if req.fired {
		return
	}
	req.fired = true
	req.Timer.Stop()
	req.Notify <- struct{}{}
	close(req.done)

	waitList := w.waiters[req.GameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[req.GameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}
	if len(w.waiters[req.GameID]) == 0 {
		delete(w.waiters, req.GameID)
	}
}
