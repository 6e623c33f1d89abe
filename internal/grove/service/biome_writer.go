package service

import (
	"context"
	"errors"
	"time"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/plot"
)

// BiomeMutation edits b in place using alloc, built from b's plots.
// Returning false skips the write (the mutation was rejected). It may run
// more than once when a concurrent writer wins the race, so it must
// derive everything from its arguments.
type BiomeMutation func(b *entity.Biome, alloc *plot.Allocator) (bool, error)

// BiomeWriter is the single writer of the shared biome record.
type BiomeWriter interface {
	Biome(ctx context.Context) (*entity.Biome, error)
	UpdateBiome(ctx context.Context, fn BiomeMutation) (*entity.Biome, error)
}

// WorldSettings describe the canonical biome of this deployment.
type WorldSettings struct {
	BiomeID     entity.BiomeID
	Name        string
	Type        string
	Grid        plot.Grid
	MaxPlots    int
	Environment entity.Environment
}

// NewBiome is the empty biome written on first contact.
func (w WorldSettings) NewBiome(now time.Time) *entity.Biome {
	return &entity.Biome{
		ID:          w.BiomeID,
		Name:        w.Name,
		Type:        w.Type,
		Environment: w.Environment,
		Plots:       []entity.LandPlot{},
		Players:     []entity.RosterEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CASBiomeWriter applies every mutation as load, mutate, compare-and-swap,
// reloading on conflict up to Retries times. Find-and-claim of a plot is
// therefore a single conditional update even across processes.
type CASBiomeWriter struct {
	repo    port.WorldRepository
	world   WorldSettings
	retries int
	now     func() time.Time
}

func NewCASBiomeWriter(repo port.WorldRepository, world WorldSettings, retries int, now func() time.Time) *CASBiomeWriter {
	if retries <= 0 {
		retries = 1
	}
	if now == nil {
		now = time.Now
	}
	return &CASBiomeWriter{repo: repo, world: world, retries: retries, now: now}
}

func (w *CASBiomeWriter) load(ctx context.Context) (*entity.Biome, uint64, error) {
	b, version, err := w.repo.LoadBiome(ctx, w.world.BiomeID)
	if errors.Is(err, port.ErrNotFound) {
		return w.world.NewBiome(w.now()), 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return b, version, nil
}

func (w *CASBiomeWriter) Biome(ctx context.Context) (*entity.Biome, error) {
	b, _, err := w.load(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

func (w *CASBiomeWriter) UpdateBiome(ctx context.Context, fn BiomeMutation) (*entity.Biome, error) {
	var lastErr error
	for attempt := 0; attempt < w.retries; attempt++ {
		b, version, err := w.load(ctx)
		if err != nil {
			return nil, storeErr(err)
		}
		alloc := plot.FromPlots(w.world.Grid, w.world.MaxPlots, b.Plots)
		changed, err := fn(b, alloc)
		if err != nil {
			return nil, err
		}
		if !changed {
			return b, nil
		}
		b.UpdatedAt = w.now()
		if _, err := w.repo.SaveBiome(ctx, b, version); err != nil {
			if errors.Is(err, port.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, storeErr(err)
		}
		return b, nil
	}
	return nil, ErrConflict.WithData("key", port.BiomeKey(w.world.BiomeID)).WithCause(lastErr)
}
