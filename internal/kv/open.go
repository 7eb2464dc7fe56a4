package kv

import (
	"context"
	"fmt"
	"time"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend string // memory, file, sqlite, redis or mongo

	Dir        string // file
	SQLitePath string // sqlite

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	MongoURI string
	MongoDB  string
	MongoTTL time.Duration
}

func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(opts.Dir)
	case "sqlite":
		return NewSQLite(ctx, opts.SQLitePath)
	case "redis":
		client, err := ConnectRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, opts.RedisTTL), nil
	case "mongo":
		db, err := ConnectMongoDB(ctx, opts.MongoURI, opts.MongoDB)
		if err != nil {
			return nil, err
		}
		store := NewMongo(db, opts.MongoTTL)
		if err := store.CreateIndexes(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown kv backend %q", opts.Backend)
	}
}
