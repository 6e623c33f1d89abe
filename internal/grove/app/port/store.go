package port

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("record version conflict")
	ErrClosed          = errors.New("store is closed")
)

// Record is an opaque serialized entity plus its write version. Version 0
// means "absent"; every successful write bumps it by one.
type Record struct {
	Value   []byte
	Version uint64
}

// Store is the key-value contract every backend implements.
type Store interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) (Record, error)
	// Set writes unconditionally (last write wins) and returns the new version.
	Set(ctx context.Context, key string, value []byte) (uint64, error)
	// CompareAndSwap writes only when the stored version equals expected
	// (expected 0: only when absent). Otherwise ErrVersionConflict.
	CompareAndSwap(ctx context.Context, key string, expected uint64, value []byte) (uint64, error)
	Close(ctx context.Context) error
}
