package growth

import (
	"testing"
	"time"

	"GroveWorld/internal/grove/entity"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTree() *entity.Tree {
	return &entity.Tree{ID: "t1", Species: "oak", PlantedAt: t0, HealthAtWatering: MaxHealth}
}

func TestStage_WateredAtPlantReachesOneWithinOnePeriod(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	Water(tr, t0, p)

	if got := Stage(tr, t0.Add(p.GrowthPeriod), p); got != 1 {
		t.Fatalf("stage=%d want 1", got)
	}
}

func TestStage_UnwateredTreeStillGrows(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	if got := Stage(tr, t0.Add(2*p.GrowthPeriod+time.Minute), p); got != 2 {
		t.Fatalf("stage=%d want 2", got)
	}
}

func TestStage_CappedAtMax(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	if got := Stage(tr, t0.Add(100*p.GrowthPeriod), p); got != p.MaxStage {
		t.Fatalf("stage=%d want %d", got, p.MaxStage)
	}
}

func TestStage_MonotonicAcrossTime(t *testing.T) {
	p := DefaultParams()
	histories := []func(*entity.Tree){
		func(tr *entity.Tree) {},
		func(tr *entity.Tree) { Water(tr, t0, p) },
		func(tr *entity.Tree) { Water(tr, t0.Add(-time.Hour), p) },
		func(tr *entity.Tree) { Water(tr, t0.Add(90*time.Minute), p) },
	}
	for i, h := range histories {
		tr := newTree()
		h(tr)
		prev := -1
		for step := 0; step < 24*12; step++ {
			now := t0.Add(time.Duration(step) * 5 * time.Minute)
			s := Stage(tr, now, p)
			if s < prev {
				t.Fatalf("history %d: stage fell from %d to %d at %v", i, prev, s, now)
			}
			prev = s
		}
	}
}

func TestStage_MonotonicAcrossRewatering(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	Water(tr, t0, p)

	prev := 0
	for h := 1; h <= 12; h++ {
		now := t0.Add(time.Duration(h) * 50 * time.Minute)
		before := Effective(tr, now, p)
		Water(tr, now, p)
		after := Effective(tr, now, p)
		if after != before {
			t.Fatalf("watering at %v changed effective growth %v -> %v", now, before, after)
		}
		if s := Stage(tr, now, p); s < prev {
			t.Fatalf("stage decreased at %v", now)
		} else {
			prev = s
		}
	}
}

func TestStage_WaterBonusNeverBelowPlain(t *testing.T) {
	p := DefaultParams()
	for offset := time.Duration(0); offset < 5*time.Hour; offset += 17 * time.Minute {
		watered := newTree()
		Water(watered, t0.Add(offset), p)
		plain := newTree()
		for q := offset; q < offset+p.WateredWindow; q += 13 * time.Minute {
			now := t0.Add(q)
			if Stage(watered, now, p) < Stage(plain, now, p) {
				t.Fatalf("watered stage below plain at offset %v, q %v", offset, q)
			}
		}
	}
}

func TestHealth_GraceThenDecay(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	if h := Health(tr, t0.Add(p.GracePeriod), p); h != MaxHealth {
		t.Fatalf("health inside grace=%v", h)
	}
	if h := Health(tr, t0.Add(p.GracePeriod+2*time.Hour), p); h != MaxHealth-2*p.DecayPerHour {
		t.Fatalf("health after 2h neglect=%v", h)
	}
	if h := Health(tr, t0.Add(p.GracePeriod+1000*time.Hour), p); h != 0 {
		t.Fatalf("health floor=%v", h)
	}
}

func TestWater_BumpsHealthCapped(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	now := t0.Add(p.GracePeriod + 10*time.Hour) // 50 health
	Water(tr, now, p)
	if h := Health(tr, now, p); h != 70 {
		t.Fatalf("health after watering=%v want 70", h)
	}
	Water(tr, now.Add(time.Minute), p)
	Water(tr, now.Add(2*time.Minute), p)
	if h := Health(tr, now.Add(2*time.Minute), p); h != MaxHealth {
		t.Fatalf("health not capped: %v", h)
	}
	if tr.TimesWatered != 3 {
		t.Fatalf("times watered=%d", tr.TimesWatered)
	}
}

func TestMature_ZeroHealthStillMature(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	now := t0.Add(p.GracePeriod + 1000*time.Hour)
	if !Mature(tr, now, p) {
		t.Fatalf("expected mature")
	}
	if Health(tr, now, p) != 0 {
		t.Fatalf("expected zero health")
	}
	if ScaleReward(50, Health(tr, now, p)) != 0 {
		t.Fatalf("zero health must scale reward to zero")
	}
}

func TestFertilize_AddsBankedGrowth(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	before := Effective(tr, t0, p)
	Fertilize(tr, p)
	if Effective(tr, t0, p)-before != p.FertilizerBoost {
		t.Fatalf("fertilizer boost not applied")
	}
}

func TestScaleReward_Floors(t *testing.T) {
	if got := ScaleReward(50, 75); got != 37 {
		t.Fatalf("ScaleReward=%d want 37", got)
	}
	if got := ScaleReward(50, 100); got != 50 {
		t.Fatalf("ScaleReward=%d want 50", got)
	}
}

func TestSnapshot_FillsView(t *testing.T) {
	p := DefaultParams()
	tr := newTree()
	Snapshot(tr, t0.Add(3*p.GrowthPeriod), p)
	if tr.GrowthStage != 3 || tr.Health != MaxHealth {
		t.Fatalf("view=%d/%v", tr.GrowthStage, tr.Health)
	}
}
