package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/ManuC12/Raices-de-vida/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingProvider struct {
	Provider
	signOutErr error
}

func (p failingProvider) SignOut(context.Context, *User) error {
	return p.signOutErr
}

func TestSessions_SignInRemembersUser(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	sut := NewSessions(store, newTestLocal(), zap.NewNop())

	_, err := sut.Current(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = sut.SignUp(ctx, "sid-1", "ana@example.com", "secret1")
	require.NoError(t, err)

	u, err := sut.Current(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)

	_, err = sut.Current(ctx, "sid-2")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	u2, err := sut.SignIn(ctx, "sid-2", "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)

	_, err = store.Get(ctx, "session:sid-2")
	assert.NoError(t, err)
}

func TestSessions_TranslatedErrors(t *testing.T) {
	ctx := context.Background()
	sut := NewSessions(kv.NewMemory(), newTestLocal(), zap.NewNop())

	_, err := sut.SignIn(ctx, "sid-1", "ana@example.com", "secret1")
	var authErr *Error
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, MsgInvalidCredentials, authErr.Message)

	_, err = sut.Current(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSessions_SignUpAwaitingConfirmation(t *testing.T) {
	ctx := context.Background()
	sut := NewSessions(kv.NewMemory(), newTestLocal(WithEmailConfirmation()), zap.NewNop())

	u, err := sut.SignUp(ctx, "sid-1", "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.False(t, u.HasSession())

	_, err = sut.Current(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSessions_SignOut(t *testing.T) {
	ctx := context.Background()
	provider := newTestLocal()
	sut := NewSessions(kv.NewMemory(), failingProvider{Provider: provider, signOutErr: errors.New("provider down")}, zap.NewNop())

	// signing out an anonymous session is fine
	assert.NoError(t, sut.SignOut(ctx, "sid-1"))

	_, err := provider.SignUp(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	_, err = sut.SignIn(ctx, "sid-1", "ana@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, sut.SignOut(ctx, "sid-1"))
	_, err = sut.Current(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSessions_CorruptSessionIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, SessionKey("sid-1"), []byte("{not json")))
	sut := NewSessions(store, newTestLocal(), zap.NewNop())

	_, err := sut.Current(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}
