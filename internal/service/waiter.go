package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// WaitTimeout bounds a single long-poll
var WaitTimeout = 25 * time.Second

// WaitRegistry tracks long-polling clients per game. A waiter's channel
// receives once when the game's move count moves away from the count the
// client last saw, when the game is deleted or when the wait times out.
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*waitRequest // gameID → waiting clients
	shutdown chan struct{}
	wg       sync.WaitGroup
}

type waitRequest struct {
	gameID    string
	moveCount int
	notify    chan struct{}
	fired     chan struct{}
	once      sync.Once
	timer     *time.Timer
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that fires once for this waiter. The
// registration is dropped when ctx ends.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &waitRequest{
		gameID:    gameID,
		moveCount: moveCount,
		notify:    make(chan struct{}, 1),
		fired:     make(chan struct{}),
	}
	req.timer = time.AfterFunc(WaitTimeout, func() {
		req.signal()
	})

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-req.fired:
		case <-ctx.Done():
		case <-w.shutdown:
			req.signal()
		}
		req.timer.Stop()
		w.remove(req)
	}()

	return req.notify
}

// signal delivers the single wake-up of a waiter, later calls are no-ops
func (r *waitRequest) signal() {
	r.once.Do(func() {
		r.notify <- struct{}{}
		close(r.fired)
	})
}

// NotifyGame wakes every waiter whose last seen move count differs
func (w *WaitRegistry) NotifyGame(gameID string, moveCount int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, req := range w.waiters[gameID] {
		if req.moveCount != moveCount {
			req.signal()
		}
	}
}

// RemoveGame wakes and forgets all waiters of a game
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	list := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range list {
		req.signal()
	}
}

// Waiting returns the number of registered waiters of a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown wakes every waiter and waits for their cleanup
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
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (w *WaitRegistry) remove(req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	list := w.waiters[req.gameID]
	for i, r := range list {
		if r == req {
			w.waiters[req.gameID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(w.waiters[req.gameID]) == 0 {
		delete(w.waiters, req.gameID)
	}
}
