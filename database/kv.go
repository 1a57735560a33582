package database

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when a storage key has no value.
var ErrKeyNotFound = errors.New("key not found in storage")

// KeyValue is the persistence contract for the tracker. The whole document
// lives under a single well-known key, so the surface is deliberately small.
type KeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Broadcaster is implemented by backends that can relay change
// notifications to other processes holding the same data (the analog of
// the browser storage event between tabs). Subscribe blocks until ctx is
// cancelled, invoking handler with each changed key.
type Broadcaster interface {
	Subscribe(ctx context.Context, handler func(key string)) error
}
