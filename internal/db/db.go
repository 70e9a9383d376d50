// Package db defines the storage facade backing the interaction log.
package db

import (
	"context"
	"time"
)

// Store is the database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces (ISP).
type Store interface {
	Pinger
	KVStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ListStore provides append-only list operations.
type ListStore interface {
	// RPush appends values to the list at key, creating it if absent.
	RPush(ctx context.Context, key string, values ...[]byte) error
	// LRange returns list elements in [start, stop], inclusive, with
	// Redis semantics: negative indexes count from the tail.
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	// LLen returns the list length, 0 for a missing key.
	LLen(ctx context.Context, key string) (int64, error)
}
