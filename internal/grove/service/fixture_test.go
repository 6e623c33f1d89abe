package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/chat"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/infra/persistence/kv"
	"GroveWorld/internal/grove/infra/persistence/memory"
	"GroveWorld/internal/grove/plot"
	"GroveWorld/internal/shared/gameconfig/balance"
	"GroveWorld/modules/kit/logx"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	c     *Coordinator
	clock *testClock
	repo  *kv.Repository
	store port.Store
}

type fixtureOpt func(o *Options, b *balance.Balance)

// withGrid sets the world rectangle in 10-unit cells.
func withGrid(cellsX, cellsZ int) fixtureOpt {
	return func(o *Options, _ *balance.Balance) {
		o.World.Grid = plot.Centered(float64(cellsX*10), float64(cellsZ*10), 10)
	}
}

func withBalance(fn func(b *balance.Balance)) fixtureOpt {
	return func(_ *Options, b *balance.Balance) { fn(b) }
}

func withOptions(fn func(o *Options)) fixtureOpt {
	return func(o *Options, _ *balance.Balance) { fn(o) }
}

// newFixture builds a coordinator over an in-memory store on a 3x1 grid
// centred on the origin: cell centres at x = -10, 0, 10 and z = 0.
func newFixture(t *testing.T, opts ...fixtureOpt) *fixture {
	t.Helper()
	return newFixtureOn(t, memory.NewStore(), opts...)
}

func newFixtureOn(t *testing.T, store port.Store, opts ...fixtureOpt) *fixture {
	t.Helper()
	clock := &testClock{now: t0}
	repo := kv.NewRepository(store, time.Second, nil)
	var seq atomic.Int64
	b := balance.Default()
	o := Options{
		Repo: repo,
		World: WorldSettings{
			BiomeID:     "grove-test",
			Name:        "Test Grove",
			Type:        "forest",
			Grid:        plot.Centered(30, 10, 10),
			Environment: entity.Environment{MaxPlayers: 100},
		},
		Balance:    b,
		Chat:       chat.NewRing(chat.DefaultCapacity),
		CASRetries: 10,
		Logger:     logx.Nop(),
		Now:        clock.Now,
		NewID: func(prefix string) (string, error) {
			return fmt.Sprintf("%s_%d", prefix, seq.Add(1)), nil
		},
	}
	for _, fn := range opts {
		fn(&o, b)
	}
	return &fixture{c: NewCoordinator(o), clock: clock, repo: repo, store: store}
}

func (f *fixture) init(t *testing.T, pid entity.PlayerID) *InitResult {
	t.Helper()
	res, err := f.c.Init(context.Background(), pid, Init{Username: string(pid)})
	if err != nil {
		t.Fatalf("init %s: %v", pid, err)
	}
	return res
}

func (f *fixture) stored(t *testing.T, pid entity.PlayerID) (*entity.GameState, uint64) {
	t.Helper()
	gs, v, err := f.repo.LoadGameState(context.Background(), pid)
	if err != nil {
		t.Fatalf("load game state %s: %v", pid, err)
	}
	return gs, v
}

func (f *fixture) biome(t *testing.T) *entity.Biome {
	t.Helper()
	b, _, err := f.repo.LoadBiome(context.Background(), "grove-test")
	if err != nil {
		t.Fatalf("load biome: %v", err)
	}
	return b
}

func assertCoins(t *testing.T, gs *entity.GameState) {
	t.Helper()
	if !gs.CoinsConsistent() {
		t.Fatalf("player coins %d != wallet coins %d", gs.Player.Coins, gs.Resources.Coins)
	}
}

func hasAchievement(list []entity.Achievement, id string) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}
