package memory

import (
	"context"

	"github.com/sasha-s/go-deadlock"

	"GroveWorld/internal/grove/app/port"
)

var _ port.Store = (*Store)(nil)

// Store is the in-process backend used by tests and single-node dev runs.
type Store struct {
	mu     deadlock.RWMutex
	data   map[string]port.Record
	closed bool
}

func NewStore() *Store {
	return &Store{data: make(map[string]port.Record)}
}

func (s *Store) Get(ctx context.Context, key string) (port.Record, error) {
	if err := ctx.Err(); err != nil {
		return port.Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return port.Record{}, port.ErrClosed
	}
	rec, ok := s.data[key]
	if !ok {
		return port.Record{}, port.ErrNotFound
	}
	rec.Value = append([]byte(nil), rec.Value...)
	return rec, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, port.ErrClosed
	}
	next := s.data[key].Version + 1
	s.data[key] = port.Record{Value: append([]byte(nil), value...), Version: next}
	return next, nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key string, expected uint64, value []byte) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, port.ErrClosed
	}
	if s.data[key].Version != expected {
		return 0, port.ErrVersionConflict
	}
	next := expected + 1
	s.data[key] = port.Record{Value: append([]byte(nil), value...), Version: next}
	return next, nil
}

func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len reports how many keys are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
