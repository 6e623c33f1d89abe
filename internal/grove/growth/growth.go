// Package growth computes tree maturity and health from timestamps.
//
// Stage and health are never stored as truth. The only persisted effects are
// the discrete ones of watering and fertilizing: LastWatered,
// HealthAtWatering and BonusGrowth.
package growth

import (
	"math"
	"time"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/shared/gameconfig/balance"
)

const MaxHealth = 100.0

type Params struct {
	MaxStage         int
	GrowthPeriod     time.Duration
	WateredWindow    time.Duration
	WaterMultiplier  float64
	GracePeriod      time.Duration
	DecayPerHour     float64
	WaterHealthBonus float64
	FertilizerBoost  time.Duration
}

func ParamsFrom(g balance.Growth) Params {
	return Params{
		MaxStage:         g.MaxStage,
		GrowthPeriod:     g.GrowthPeriod,
		WateredWindow:    g.WateredWindow,
		WaterMultiplier:  g.WaterGrowthMultiplier,
		GracePeriod:      g.GracePeriod,
		DecayPerHour:     g.DecayPerHour,
		WaterHealthBonus: g.WaterHealthBonus,
		FertilizerBoost:  g.FertilizerBoost,
	}
}

func DefaultParams() Params {
	return ParamsFrom(balance.Default().Growth)
}

// wateredOverlap is the part of [plantedAt, now] inside the current watered
// window [lastWatered, lastWatered+window).
func wateredOverlap(t *entity.Tree, now time.Time, p Params) time.Duration {
	if !t.Watered() || p.WateredWindow <= 0 {
		return 0
	}
	start := t.LastWatered
	if t.PlantedAt.After(start) {
		start = t.PlantedAt
	}
	end := t.LastWatered.Add(p.WateredWindow)
	if now.Before(end) {
		end = now
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

func bonusFor(overlap time.Duration, p Params) time.Duration {
	if p.WaterMultiplier <= 1 || overlap <= 0 {
		return 0
	}
	return time.Duration(float64(overlap) * (p.WaterMultiplier - 1))
}

// Effective is the growth time credited to t at now: elapsed time, plus
// banked bonus, plus the multiplier's share of the live watered window.
// It is non-decreasing in now.
func Effective(t *entity.Tree, now time.Time, p Params) time.Duration {
	elapsed := now.Sub(t.PlantedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed + t.BonusGrowth + bonusFor(wateredOverlap(t, now, p), p)
}

// Stage returns min(maxStage, floor(effective / growthPeriod)).
func Stage(t *entity.Tree, now time.Time, p Params) int {
	if p.GrowthPeriod <= 0 {
		return 0
	}
	stage := int(Effective(t, now, p) / p.GrowthPeriod)
	if stage > p.MaxStage {
		return p.MaxStage
	}
	return stage
}

func Mature(t *entity.Tree, now time.Time, p Params) bool {
	return Stage(t, now, p) >= p.MaxStage
}

// Health decays linearly per hour once the grace period after the last
// watering (or planting, if never watered) has passed.
func Health(t *entity.Tree, now time.Time, p Params) float64 {
	ref := t.PlantedAt
	base := t.HealthAtWatering
	if t.Watered() {
		ref = t.LastWatered
	} else if base == 0 {
		base = MaxHealth
	}
	neglect := now.Sub(ref) - p.GracePeriod
	if neglect > 0 {
		base -= neglect.Hours() * p.DecayPerHour
	}
	return clamp(base, 0, MaxHealth)
}

// Water banks the bonus earned by the previous window, lifts health by the
// watering bonus and opens a new window at now.
func Water(t *entity.Tree, now time.Time, p Params) {
	banked := bonusFor(wateredOverlap(t, now, p), p)
	t.HealthAtWatering = math.Min(MaxHealth, Health(t, now, p)+p.WaterHealthBonus)
	t.BonusGrowth += banked
	t.LastWatered = now
	t.TimesWatered++
}

func Fertilize(t *entity.Tree, p Params) {
	if p.FertilizerBoost > 0 {
		t.BonusGrowth += p.FertilizerBoost
	}
}

// Snapshot fills the derived view fields of t for now.
func Snapshot(t *entity.Tree, now time.Time, p Params) {
	t.GrowthStage = Stage(t, now, p)
	t.Health = Health(t, now, p)
}

// ScaleReward returns floor(base * health / 100).
func ScaleReward(base int64, health float64) int64 {
	if base <= 0 {
		return 0
	}
	return int64(math.Floor(float64(base) * clamp(health, 0, MaxHealth) / MaxHealth))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
