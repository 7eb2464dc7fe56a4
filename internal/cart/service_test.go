package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ManuC12/Raices-de-vida/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	sut := NewService(kv.NewMemory(), zap.NewNop())

	_, err := sut.Update(ctx, "alice", func(s *Store) error {
		return s.AddItem(ctx, productA, productA.Variants[0], 2)
	})
	require.NoError(t, err)

	alice, err := sut.Get(ctx, "alice")
	require.NoError(t, err)
	bob, err := sut.Get(ctx, "bob")
	require.NoError(t, err)

	assert.Equal(t, 2, alice.TotalItems())
	assert.Equal(t, 0, bob.TotalItems())
}

func TestService_MissingSession(t *testing.T) {
	sut := NewService(kv.NewMemory(), zap.NewNop())

	_, err := sut.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingSession)

	_, err = sut.Update(context.Background(), "", func(*Store) error { return nil })
	assert.ErrorIs(t, err, ErrMissingSession)
}

func TestService_UpdateError(t *testing.T) {
	ctx := context.Background()
	m := newMockKV()
	m.setErr = errors.New("redis set failed")
	sut := NewService(m, zap.NewNop())

	_, err := sut.Update(ctx, "alice", func(s *Store) error {
		return s.AddItem(ctx, productA, productA.Variants[0], 1)
	})
	require.ErrorContains(t, err, "redis set failed")
}

func TestService_ConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	sut := NewService(kv.NewMemory(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sut.Update(ctx, "alice", func(s *Store) error {
				return s.AddItem(ctx, productA, productA.Variants[0], 1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := sut.Get(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 50, s.TotalItems())

	sut.mu.Lock()
	defer sut.mu.Unlock()
	assert.Empty(t, sut.locks)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cart:abc", Key("abc"))
}
