package actor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"GroveWorld/internal/grove/chat"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/infra/persistence/kv"
	"GroveWorld/internal/grove/infra/persistence/memory"
	"GroveWorld/internal/grove/plot"
	"GroveWorld/internal/grove/service"
	"GroveWorld/internal/shared/transport"
	"GroveWorld/modules/kit/errx"
)

func newRuntime(t *testing.T, repo *kv.Repository, cellsX int) *Runtime {
	t.Helper()
	rt := NewRuntime(Options{
		Service: service.Options{
			Repo: repo,
			World: service.WorldSettings{
				BiomeID:     "grove-rt",
				Name:        "Runtime Grove",
				Type:        "forest",
				Grid:        plot.Centered(float64(cellsX*10), 10, 10),
				Environment: entity.Environment{MaxPlayers: 100},
			},
			Chat:       chat.NewRing(10),
			CASRetries: 5,
		},
		ChatRepo:   repo,
		ChatFlush:  time.Hour,
		AskTimeout: 2 * time.Second,
	})
	t.Cleanup(rt.Shutdown)
	return rt
}

func TestRuntime_InitThroughActors(t *testing.T) {
	repo := kv.NewRepository(memory.NewStore(), time.Second, nil)
	rt := newRuntime(t, repo, 3)

	res, err := rt.Do(context.Background(), "alice", service.Init{Username: "alice"})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	ir, ok := res.(*service.InitResult)
	if !ok || !ir.Created {
		t.Fatalf("result = %#v", res)
	}
	if got := len(ir.GameState.Player.LandPlots); got != 1 {
		t.Fatalf("land plots = %d, want 1", got)
	}
}

func TestRuntime_ConcurrentInitsClaimDistinctPlots(t *testing.T) {
	repo := kv.NewRepository(memory.NewStore(), time.Second, nil)
	rt := newRuntime(t, repo, 4)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		full  int
		plots = map[entity.PlotID]entity.PlayerID{}
	)
	for i := 0; i < 6; i++ {
		pid := entity.PlayerID(fmt.Sprintf("p%d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := rt.Do(context.Background(), pid, service.Init{Username: string(pid)})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if CodeFromError(err) == transport.WorldFull {
					full++
					return
				}
				t.Errorf("init %s: %v", pid, err)
				return
			}
			for _, id := range res.(*service.InitResult).GameState.Player.LandPlots {
				if other, dup := plots[id]; dup {
					t.Errorf("plot %s given to %s and %s", id, other, pid)
				}
				plots[id] = pid
			}
		}()
	}
	wg.Wait()
	if len(plots) != 4 || full != 2 {
		t.Fatalf("claimed %d plots with %d full rejections, want 4 and 2", len(plots), full)
	}
}

func TestRuntime_ShutdownFlushesChat(t *testing.T) {
	repo := kv.NewRepository(memory.NewStore(), time.Second, nil)
	rt := newRuntime(t, repo, 3)
	ctx := context.Background()

	if _, err := rt.Do(ctx, "alice", service.Init{Username: "alice"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := rt.Do(ctx, "alice", service.ChatSend{Text: "hello grove"}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	res, err := rt.Do(ctx, "", service.ChatRecent{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if msgs := res.(*service.ChatRecentResult).Messages; len(msgs) != 2 {
		t.Fatalf("recent = %d messages, want join notice and hello", len(msgs))
	}

	rt.Shutdown()
	saved, err := repo.LoadChat(ctx, "grove-rt")
	if err != nil {
		t.Fatalf("load chat: %v", err)
	}
	if len(saved) != 2 || saved[1].Text != "hello grove" {
		t.Fatalf("saved chat = %+v", saved)
	}
}

func TestCodeFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, transport.OK},
		{service.ErrPlayerNotFound, transport.NotFound},
		{service.ErrWorldFull, transport.WorldFull},
		{service.ErrConflict.WithData("key", "biome:x"), transport.Retry},
		{service.ErrBadAction, transport.InvalidParam},
		{errx.ErrTimeout, transport.Timeout},
		{fmt.Errorf("wrapped: %w", errx.ErrUnavailable), transport.Unavailable},
		{&RuntimeError{Code: transport.Timeout, Message: "x"}, transport.Timeout},
		{errors.New("boom"), transport.SystemError},
	}
	for _, c := range cases {
		if got := CodeFromError(c.err); got != c.want {
			t.Errorf("CodeFromError(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
