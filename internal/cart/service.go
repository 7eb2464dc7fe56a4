package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ManuC12/Raices-de-vida/internal/kv"
	"go.uber.org/zap"
)

var ErrMissingSession = errors.New("missing session id")

// Service hands out the cart of each browser session.
type Service struct {
	kv  kv.Store
	log *zap.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(store kv.Store, log *zap.Logger) *Service {
	return &Service{
		kv:    store,
		log:   log,
		locks: make(map[string]*sessionLock),
	}
}

func Key(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Get loads the current cart of a session.
func (s *Service) Get(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	unlock := s.lock(sessionID)
	defer unlock()

	return Load(ctx, s.kv, Key(sessionID), s.log), nil
}

// Update loads the cart of a session, applies fn and returns the resulting cart.
// Updates for the same session never interleave.
func (s *Service) Update(ctx context.Context, sessionID string, fn func(*Store) error) (*Store, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	unlock := s.lock(sessionID)
	defer unlock()

	store := Load(ctx, s.kv, Key(sessionID), s.log)
	if err := fn(store); err != nil {
		s.log.Error("cart update failed", zap.String("session", sessionID), zap.Error(err))
		return nil, err
	}
	return store, nil
}

func (s *Service) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}
