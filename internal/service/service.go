package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chessgrid/internal/game"
	"chessgrid/internal/storage"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrInvalidSeat  = errors.New("invalid seat token")
)

// Service keeps the running games in memory, guards them with one lock and
// mirrors their history to the optional store
type Service struct {
	games     map[string]*session
	mu        sync.RWMutex
	store     *storage.Store // nil if persistence disabled
	jwtSecret []byte
	tokenTTL  time.Duration
	waiter    *WaitRegistry
}

// New creates a service. store may be nil.
func New(store *storage.Store, jwtSecret []byte, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		games:     make(map[string]*session),
		store:     store,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		waiter:    NewWaitRegistry(),
	}
}

// View runs fn against a game under the read lock. fn must not keep g.
func (s *Service) View(gameID string, fn func(g *game.Game)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	fn(sess.game)
	return nil
}

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

// RegisterWait registers a client to wait for a change of the game's move count
func (s *Service) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	return s.waiter.RegisterWait(ctx, gameID, moveCount)
}

// Shutdown releases waiters, drops all games and closes the store
func (s *Service) Shutdown(timeout time.Duration) error {
	var errs []error

	if err := s.waiter.Shutdown(timeout); err != nil {
		errs = append(errs, fmt.Errorf("wait registry: %w", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*session)

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	return errors.Join(errs...)
}
