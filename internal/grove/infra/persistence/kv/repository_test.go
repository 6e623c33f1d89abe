package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/infra/persistence/memory"
	"GroveWorld/internal/shared/metrics"
)

type slowStore struct {
	*memory.Store
}

func (s slowStore) Get(ctx context.Context, key string) (port.Record, error) {
	<-ctx.Done()
	return port.Record{}, ctx.Err()
}

func TestRepository_BiomeRoundTripWithVersions(t *testing.T) {
	r := NewRepository(memory.NewStore(), time.Second, metrics.New())
	ctx := context.Background()

	b := &entity.Biome{ID: "main", Name: "Grove", Plots: []entity.LandPlot{{ID: "p1", GridX: 1}}}
	v, err := r.SaveBiome(ctx, b, 0)
	if err != nil || v != 1 {
		t.Fatalf("SaveBiome v=%d err=%v", v, err)
	}
	got, gv, err := r.LoadBiome(ctx, "main")
	if err != nil || gv != 1 || got.Plots[0].GridX != 1 {
		t.Fatalf("LoadBiome %+v v=%d err=%v", got, gv, err)
	}
	if _, err := r.SaveBiome(ctx, b, 0); !errors.Is(err, port.ErrVersionConflict) {
		t.Fatalf("stale save err=%v", err)
	}
}

func TestRepository_MissingIsNotFound(t *testing.T) {
	r := NewRepository(memory.NewStore(), time.Second, nil)
	if _, _, err := r.LoadPlayer(context.Background(), "ghost"); !errors.Is(err, port.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
	msgs, err := r.LoadChat(context.Background(), "main")
	if err != nil || msgs != nil {
		t.Fatalf("chat msgs=%v err=%v", msgs, err)
	}
}

func TestRepository_TimeoutSurfacesDeadline(t *testing.T) {
	r := NewRepository(slowStore{memory.NewStore()}, 10*time.Millisecond, nil)
	_, _, err := r.LoadGameState(context.Background(), "p")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err=%v", err)
	}
}

func TestRepository_ChatOverwrites(t *testing.T) {
	r := NewRepository(memory.NewStore(), time.Second, nil)
	ctx := context.Background()
	_ = r.SaveChat(ctx, "main", []entity.ChatMessage{{ID: "a"}})
	if err := r.SaveChat(ctx, "main", []entity.ChatMessage{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatal(err)
	}
	msgs, err := r.LoadChat(ctx, "main")
	if err != nil || len(msgs) != 2 {
		t.Fatalf("msgs=%v err=%v", msgs, err)
	}
}
