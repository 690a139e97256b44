package processor

import (
	"errors"
	"testing"
	"time"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/rules"
)

func TestQueueSearch(t *testing.T) {
	q := NewEngineQueue(2, time.Second*5, nil)
	defer q.Shutdown(time.Second)

	b := board.Standard()
	res, err := q.Search(b, core.SideWhite, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Move == nil || !rules.LegalMoves(b, core.SideWhite).Contains(*res.Move) {
		t.Fatalf("queue returned %v", res.Move)
	}

	done := make(chan EngineResult, 1)
	if err := q.SubmitAsync(b, core.SideBlack, 2, func(r EngineResult) { done <- r }); err != nil {
		t.Fatalf("SubmitAsync: %v", err)
	}
	select {
	case r := <-done:
		if r.Error != nil || r.Search == nil || r.Search.Move == nil {
			t.Fatalf("async result %+v", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("callback not called")
	}
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	q := NewEngineQueue(1, time.Second, nil)
	if err := q.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, err := q.Search(board.Standard(), core.SideWhite, 1); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Search after shutdown: %v", err)
	}
	// Second shutdown is harmless
	if err := q.Shutdown(time.Second); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
}
