// Package kv binds the persistent key-value store that holds user profiles.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

// Store is a flat string-keyed byte store. Get returns ErrNotFound for a
// missing key; any other error is a storage fault.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
