package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"checkers/internal/board"
	"checkers/internal/core"
	"checkers/internal/engine"

	"go.uber.org/zap"
)

const (
	DefaultWorkers       = 2
	DefaultSearchTimeout = 10 * time.Second
	queueSize            = 100
)

var (
	ErrQueueFull     = errors.New("engine queue is full")
	ErrQueueClosed   = errors.New("engine queue is shutting down")
	ErrSearchTimeout = errors.New("engine search timed out")
)

// EngineTask contains a search request and its response channel
type EngineTask struct {
	Board    board.Board
	Side     core.Side
	Depth    int
	Response chan<- EngineResult
}

// EngineResult contains the outcome of a search
type EngineResult struct {
	Search *engine.SearchResult
	Error  error
}

// EngineQueue runs searches on a fixed pool of workers
type EngineQueue struct {
	tasks   chan EngineTask
	workers int
	timeout time.Duration
	log     *zap.SugaredLogger
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// NewEngineQueue creates a queue with specified worker count and per-search timeout
func NewEngineQueue(workerCount int, timeout time.Duration, log *zap.SugaredLogger) *EngineQueue {
	if workerCount < 1 {
		workerCount = DefaultWorkers
	}
	if timeout <= 0 {
		timeout = DefaultSearchTimeout
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &EngineQueue{
		tasks:   make(chan EngineTask, queueSize),
		workers: workerCount,
		timeout: timeout,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	return q
}

// worker processes search tasks with its own engine, the shuffle source is not shared
func (q *EngineQueue) worker(id int) {
	defer q.wg.Done()

	eng := engine.NewSeeded(engine.DefaultDepth)
	q.log.Debugw("engine worker started", "worker", id)

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return
			}

			eng.SetDepth(task.Depth)
			search, err := eng.Search(task.Board, task.Side)

			// Response channels are buffered, a late reader never blocks the worker
			task.Response <- EngineResult{Search: search, Error: err}

		case <-q.ctx.Done():
			return
		}
	}
}

// Submit adds a task to the queue without blocking
func (q *EngineQueue) Submit(task EngineTask) error {
	select {
	case <-q.ctx.Done():
		return ErrQueueClosed
	default:
	}

	select {
	case q.tasks <- task:
		return nil
	case <-q.ctx.Done():
		return ErrQueueClosed
	default:
		return ErrQueueFull
	}
}

// Search runs one search and waits for the result or the timeout
func (q *EngineQueue) Search(b board.Board, side core.Side, depth int) (*engine.SearchResult, error) {
	respChan := make(chan EngineResult, 1)
	if err := q.Submit(EngineTask{Board: b, Side: side, Depth: depth, Response: respChan}); err != nil {
		return nil, err
	}
	return q.await(respChan)
}

// SubmitAsync submits a search and hands the result to callback from a
// separate goroutine
func (q *EngineQueue) SubmitAsync(b board.Board, side core.Side, depth int, callback func(EngineResult)) error {
	respChan := make(chan EngineResult, 1)
	if err := q.Submit(EngineTask{Board: b, Side: side, Depth: depth, Response: respChan}); err != nil {
		return err
	}

	go func() {
		search, err := q.await(respChan)
		callback(EngineResult{Search: search, Error: err})
	}()
	return nil
}

func (q *EngineQueue) await(respChan <-chan EngineResult) (*engine.SearchResult, error) {
	timer := time.NewTimer(q.timeout)
	defer timer.Stop()

	select {
	case res := <-respChan:
		return res.Search, res.Error
	case <-timer.C:
		return nil, ErrSearchTimeout
	case <-q.ctx.Done():
		return nil, ErrQueueClosed
	}
}

// Shutdown gracefully stops the queue
func (q *EngineQueue) Shutdown(timeout time.Duration) error {
	q.once.Do(q.cancel)

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("engine queue shutdown timeout exceeded")
	}
}
