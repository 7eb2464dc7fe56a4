package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ManuC12/Raices-de-vida/internal/kv"
	"go.uber.org/zap"
)

// Sessions remembers which user is signed in on each browser session.
type Sessions struct {
	store    kv.Store
	provider Provider
	log      *zap.Logger
}

func NewSessions(store kv.Store, provider Provider, log *zap.Logger) *Sessions {
	return &Sessions{store: store, provider: provider, log: log}
}

func SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Current returns the signed-in user, or ErrNotSignedIn.
func (s *Sessions) Current(ctx context.Context, sessionID string) (*User, error) {
	data, err := s.store.Get(ctx, SessionKey(sessionID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("auth: load session: %w", err)
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		s.log.Warn("discarding corrupt auth session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, ErrNotSignedIn
	}
	return &u, nil
}

func (s *Sessions) SignIn(ctx context.Context, sessionID, email, password string) (*User, error) {
	u, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, newError(err)
	}
	if err := s.remember(ctx, sessionID, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SignUp registers a user. The session is only signed in when the provider
// issues a token right away.
func (s *Sessions) SignUp(ctx context.Context, sessionID, email, password string) (*User, error) {
	u, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, newError(err)
	}
	if !u.HasSession() {
		return u, nil
	}
	if err := s.remember(ctx, sessionID, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SignOut forgets the session's user. A provider failure is logged and the
// local session is cleared regardless.
func (s *Sessions) SignOut(ctx context.Context, sessionID string) error {
	u, err := s.Current(ctx, sessionID)
	if errors.Is(err, ErrNotSignedIn) {
		return nil
	}
	if err != nil {
		return newError(err)
	}

	if err := s.provider.SignOut(ctx, u); err != nil {
		s.log.Warn("provider sign-out failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	if err := s.store.Clear(ctx, SessionKey(sessionID)); err != nil {
		return newError(fmt.Errorf("auth: clear session: %w", err))
	}
	return nil
}

func (s *Sessions) remember(ctx context.Context, sessionID string, u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return newError(fmt.Errorf("auth: encode session: %w", err))
	}
	if err := s.store.Set(ctx, SessionKey(sessionID), data); err != nil {
		return newError(fmt.Errorf("auth: save session: %w", err))
	}
	return nil
}
