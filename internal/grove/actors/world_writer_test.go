package actors

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/infra/persistence/kv"
	"GroveWorld/internal/grove/infra/persistence/memory"
	"GroveWorld/internal/grove/plot"
	"GroveWorld/internal/grove/service"
	"GroveWorld/modules/kit/tracex"
)

func spawnWorld(t *testing.T) (*WorldWriter, *kv.Repository) {
	t.Helper()
	repo := kv.NewRepository(memory.NewStore(), time.Second, nil)
	world := service.WorldSettings{
		BiomeID: "grove-actors",
		Type:    "forest",
		Grid:    plot.Centered(100, 10, 10),
	}
	writer := service.NewCASBiomeWriter(repo, world, 1, nil)

	system := actor.NewActorSystem()
	pid := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewWorldActor(writer, nil, nil)
	}))
	t.Cleanup(func() {
		_ = system.Root.StopFuture(pid).Wait()
		system.Shutdown()
	})
	return NewWorldWriter(system.Root, pid, time.Second), repo
}

func TestWorldWriter_SerializesUpdates(t *testing.T) {
	w, repo := spawnWorld(t)

	// One CAS attempt per update: without the mailbox these would conflict.
	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		id := entity.PlayerID(string(rune('a' + i)))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.UpdateBiome(context.Background(), func(b *entity.Biome, _ *plot.Allocator) (bool, error) {
				b.UpsertRoster(entity.RosterEntry{ID: id})
				return true, nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	b, _, err := repo.LoadBiome(context.Background(), "grove-actors")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(b.Players) != 20 {
		t.Fatalf("roster = %d entries, want 20", len(b.Players))
	}
}

func TestWorldWriter_ReadsEmptyBiome(t *testing.T) {
	w, _ := spawnWorld(t)
	b, err := w.Biome(tracex.WithTraceID(context.Background(), "trace-1"))
	if err != nil {
		t.Fatalf("biome: %v", err)
	}
	if b.ID != "grove-actors" || len(b.Plots) != 0 {
		t.Fatalf("biome = %+v", b)
	}
}

func TestWorldWriter_MutationErrorReturned(t *testing.T) {
	w, _ := spawnWorld(t)
	_, err := w.UpdateBiome(context.Background(), func(*entity.Biome, *plot.Allocator) (bool, error) {
		return false, service.ErrBadAction
	})
	if !errors.Is(err, service.ErrBadAction) {
		t.Fatalf("err = %v, want ErrBadAction", err)
	}
}

func TestRestore_CarriesTraceAndDeadline(t *testing.T) {
	deadline := time.Now().Add(time.Minute)
	ctx, cancel := context.WithDeadline(tracex.WithTraceID(context.Background(), "t-9"), deadline)
	defer cancel()

	traceID, d := carry(ctx)
	rebuilt, done := restore(traceID, d)
	defer done()
	if got, _ := tracex.TraceIDFrom(rebuilt); got != "t-9" {
		t.Fatalf("trace = %q", got)
	}
	if got, ok := rebuilt.Deadline(); !ok || !got.Equal(deadline) {
		t.Fatalf("deadline = %v %v", got, ok)
	}
}
