// Package storetest holds the behaviour every port.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"GroveWorld/internal/grove/app/port"
)

// Run exercises s against the Store contract. Keys are prefixed so one
// backend instance can be shared across runs.
func Run(t *testing.T, s port.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := s.Get(ctx, "storetest:missing"); !errors.Is(err, port.ErrNotFound) {
			t.Fatalf("err=%v want ErrNotFound", err)
		}
	})

	t.Run("SetBumpsVersion", func(t *testing.T) {
		v1, err := s.Set(ctx, "storetest:set", []byte(`{"a":1}`))
		if err != nil {
			t.Fatalf("Set err=%v", err)
		}
		v2, err := s.Set(ctx, "storetest:set", []byte(`{"a":2}`))
		if err != nil {
			t.Fatalf("Set err=%v", err)
		}
		if v1 != 1 || v2 != 2 {
			t.Fatalf("versions %d,%d", v1, v2)
		}
		rec, err := s.Get(ctx, "storetest:set")
		if err != nil || string(rec.Value) != `{"a":2}` || rec.Version != 2 {
			t.Fatalf("rec=%+v err=%v", rec, err)
		}
	})

	t.Run("CASCreateOnly", func(t *testing.T) {
		v, err := s.CompareAndSwap(ctx, "storetest:cas", 0, []byte("one"))
		if err != nil || v != 1 {
			t.Fatalf("create v=%d err=%v", v, err)
		}
		if _, err := s.CompareAndSwap(ctx, "storetest:cas", 0, []byte("again")); !errors.Is(err, port.ErrVersionConflict) {
			t.Fatalf("second create err=%v", err)
		}
	})

	t.Run("CASUpdate", func(t *testing.T) {
		v, err := s.CompareAndSwap(ctx, "storetest:upd", 0, []byte("a"))
		if err != nil {
			t.Fatalf("create err=%v", err)
		}
		v2, err := s.CompareAndSwap(ctx, "storetest:upd", v, []byte("b"))
		if err != nil || v2 != v+1 {
			t.Fatalf("update v=%d err=%v", v2, err)
		}
		if _, err := s.CompareAndSwap(ctx, "storetest:upd", v, []byte("stale")); !errors.Is(err, port.ErrVersionConflict) {
			t.Fatalf("stale update err=%v", err)
		}
		rec, _ := s.Get(ctx, "storetest:upd")
		if string(rec.Value) != "b" {
			t.Fatalf("stale write leaked: %q", rec.Value)
		}
	})

	t.Run("CASOnMissingWithVersion", func(t *testing.T) {
		if _, err := s.CompareAndSwap(ctx, "storetest:ghost", 3, []byte("x")); !errors.Is(err, port.ErrVersionConflict) {
			t.Fatalf("err=%v", err)
		}
	})

	t.Run("ConcurrentCASHasOneWinner", func(t *testing.T) {
		const n = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.CompareAndSwap(ctx, "storetest:race", 0, []byte(fmt.Sprint(i)))
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		if wins != 1 {
			t.Fatalf("wins=%d want 1", wins)
		}
	})
}
