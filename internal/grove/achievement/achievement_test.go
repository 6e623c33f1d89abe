package achievement

import (
	"testing"
	"time"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/shared/gameconfig/balance"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func newEvaluator() *Evaluator {
	return NewEvaluator(balance.Default().Achievements)
}

func ids(as []entity.Achievement) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID)
	}
	return out
}

func TestEvaluate_FirstPlant(t *testing.T) {
	p := &entity.Player{Stats: entity.Stats{TreesPlanted: 1}, Level: 1}
	got := newEvaluator().Evaluate(p, TriggerPlant, now)
	if len(got) != 1 || got[0].ID != "first_sprout" || !got[0].UnlockedAt.Equal(now) {
		t.Fatalf("got %v", got)
	}
	if len(p.Achievements) != 0 {
		t.Fatalf("Evaluate mutated the player")
	}
}

func TestApply_IsIdempotent(t *testing.T) {
	e := newEvaluator()
	p := &entity.Player{Stats: entity.Stats{TreesPlanted: 10}, Level: 1}
	first := e.Apply(p, TriggerPlant, now)
	if got := ids(first); len(got) != 2 || got[0] != "first_sprout" || got[1] != "green_thumb" {
		t.Fatalf("first=%v", got)
	}
	if second := e.Apply(p, TriggerPlant, now.Add(time.Second)); len(second) != 0 {
		t.Fatalf("second call re-unlocked %v", ids(second))
	}
}

func TestEvaluate_TwiceWithSameInputIsEmptyAfterApply(t *testing.T) {
	e := newEvaluator()
	p := &entity.Player{Stats: entity.Stats{TreesHarvested: 1}, Coins: 2000, Level: 6}
	e.Apply(p, TriggerHarvest, now)
	if got := e.Evaluate(p, TriggerHarvest, now); len(got) != 0 {
		t.Fatalf("got %v", ids(got))
	}
}

func TestEvaluate_LandownerNeedsFivePlots(t *testing.T) {
	e := newEvaluator()
	p := &entity.Player{LandPlots: []entity.PlotID{"a", "b"}, Coins: 100, Level: 1}
	if got := e.Evaluate(p, TriggerBuyLand, now); len(got) != 0 {
		t.Fatalf("unexpected unlock %v", ids(got))
	}
	p.LandPlots = append(p.LandPlots, "c", "d", "e")
	if got := ids(e.Evaluate(p, TriggerBuyLand, now)); len(got) != 1 || got[0] != "landowner" {
		t.Fatalf("got %v", got)
	}
}

func TestEvaluate_OnlyListeningRulesFire(t *testing.T) {
	e := newEvaluator()
	p := &entity.Player{Stats: entity.Stats{TreesPlanted: 3}, Level: 1}
	if got := e.Evaluate(p, TriggerMove, now); len(got) != 0 {
		t.Fatalf("move unlocked %v", ids(got))
	}
}

func TestEvaluate_SeasonedOnAnyTrigger(t *testing.T) {
	e := newEvaluator()
	p := &entity.Player{Level: 5}
	if got := ids(e.Evaluate(p, TriggerMove, now)); len(got) != 1 || got[0] != "seasoned" {
		t.Fatalf("got %v", got)
	}
}

func TestEvaluate_MultipleInTableOrder(t *testing.T) {
	e := newEvaluator()
	p := &entity.Player{Stats: entity.Stats{TreesHarvested: 25}, Coins: 1500, Level: 7}
	got := ids(e.Evaluate(p, TriggerHarvest, now))
	want := []string{"first_harvest", "master_harvester", "wealthy", "seasoned"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
