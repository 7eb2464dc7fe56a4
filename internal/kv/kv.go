// Package kv abstracts the small key-value store carts and sessions are saved in.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is a byte-oriented key-value store.
type Store interface {
	// Get returns ErrNotFound when the key has never been set or was cleared.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Clear removes the key. Clearing an absent key is not an error.
	Clear(ctx context.Context, key string) error
	Close() error
}
