package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/errs"
	"GroveWorld/internal/shared/metrics"
)

const (
	OpLoad = "repo.kv.Load"
	OpSave = "repo.kv.Save"
)

const defaultTimeout = 3 * time.Second

var (
	_ port.WorldRepository = (*Repository)(nil)
	_ port.ChatRepository  = (*Repository)(nil)
)

// Repository stores entities as JSON records on a port.Store. Every store
// call runs under its own timeout.
type Repository struct {
	store   port.Store
	timeout time.Duration
	metrics *metrics.Metrics
}

func NewRepository(store port.Store, timeout time.Duration, m *metrics.Metrics) *Repository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Repository{store: store, timeout: timeout, metrics: m}
}

func (r *Repository) Store() port.Store {
	return r.store
}

func (r *Repository) load(ctx context.Context, key string, out any) (uint64, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rec, err := r.store.Get(cctx, key)
	r.metrics.StoreOp("get", ignoreNotFound(err))
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return 0, port.ErrNotFound
		}
		return 0, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"key": key})
	}
	if err := json.Unmarshal(rec.Value, out); err != nil {
		return 0, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"key": key, "version": rec.Version})
	}
	return rec.Version, nil
}

func (r *Repository) save(ctx context.Context, key string, v any, expected uint64) (uint64, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return 0, errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"key": key})
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	version, err := r.store.CompareAndSwap(cctx, key, expected, raw)
	r.metrics.StoreOp("cas", err)
	if err != nil {
		if errors.Is(err, port.ErrVersionConflict) {
			r.metrics.CASConflict(port.KeyKind(key))
		}
		return 0, errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"key": key, "expected": expected})
	}
	return version, nil
}

func (r *Repository) LoadBiome(ctx context.Context, id entity.BiomeID) (*entity.Biome, uint64, error) {
	var b entity.Biome
	v, err := r.load(ctx, port.BiomeKey(id), &b)
	if err != nil {
		return nil, 0, err
	}
	return &b, v, nil
}

func (r *Repository) SaveBiome(ctx context.Context, b *entity.Biome, expected uint64) (uint64, error) {
	return r.save(ctx, port.BiomeKey(b.ID), b, expected)
}

func (r *Repository) LoadPlayer(ctx context.Context, id entity.PlayerID) (*entity.Player, uint64, error) {
	var p entity.Player
	v, err := r.load(ctx, port.PlayerKey(id), &p)
	if err != nil {
		return nil, 0, err
	}
	return &p, v, nil
}

func (r *Repository) SavePlayer(ctx context.Context, p *entity.Player, expected uint64) (uint64, error) {
	return r.save(ctx, port.PlayerKey(p.ID), p, expected)
}

func (r *Repository) LoadGameState(ctx context.Context, id entity.PlayerID) (*entity.GameState, uint64, error) {
	var g entity.GameState
	v, err := r.load(ctx, port.GameStateKey(id), &g)
	if err != nil {
		return nil, 0, err
	}
	return &g, v, nil
}

func (r *Repository) SaveGameState(ctx context.Context, g *entity.GameState, expected uint64) (uint64, error) {
	return r.save(ctx, port.GameStateKey(g.Player.ID), g, expected)
}

// LoadChat returns an empty log when nothing was persisted yet.
func (r *Repository) LoadChat(ctx context.Context, id entity.BiomeID) ([]entity.ChatMessage, error) {
	var msgs []entity.ChatMessage
	if _, err := r.load(ctx, port.ChatKey(id), &msgs); err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return msgs, nil
}

// SaveChat overwrites the snapshot; the chat writer is the only producer.
func (r *Repository) SaveChat(ctx context.Context, id entity.BiomeID, msgs []entity.ChatMessage) error {
	key := port.ChatKey(id)
	raw, err := json.Marshal(msgs)
	if err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"key": key})
	}
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	_, err = r.store.Set(cctx, key, raw)
	r.metrics.StoreOp("set", err)
	return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"key": key})
}

func ignoreNotFound(err error) error {
	if errors.Is(err, port.ErrNotFound) {
		return nil
	}
	return err
}
