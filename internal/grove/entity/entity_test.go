package entity

import (
	"encoding/json"
	"testing"
	"time"
)

func TestGameState_CoinsGoThroughOneSetter(t *testing.T) {
	var g GameState
	g.SetCoins(200)
	if !g.Spend(150) {
		t.Fatalf("expected spend to succeed")
	}
	if g.Spend(100) {
		t.Fatalf("overspend allowed")
	}
	g.Earn(25)
	if g.Player.Coins != 75 || !g.CoinsConsistent() {
		t.Fatalf("coins=%d wallet=%d", g.Player.Coins, g.Resources.Coins)
	}
}

func TestPlayer_UnlockIsIdempotent(t *testing.T) {
	var p Player
	a := Achievement{ID: "first_sprout"}
	if !p.Unlock(a) {
		t.Fatalf("first unlock refused")
	}
	if p.Unlock(a) {
		t.Fatalf("second unlock accepted")
	}
	if len(p.Achievements) != 1 {
		t.Fatalf("achievements=%v", p.Achievements)
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{{0, 1}, {99, 1}, {100, 2}, {450, 5}}
	for _, c := range cases {
		if got := LevelFor(c.xp, 100); got != c.want {
			t.Fatalf("LevelFor(%d)=%d want %d", c.xp, got, c.want)
		}
	}
}

func TestBounds_SharedEdgeBelongsToOneCell(t *testing.T) {
	left := Bounds{StartX: 0, EndX: 10, StartZ: 0, EndZ: 10}
	right := Bounds{StartX: 10, EndX: 20, StartZ: 0, EndZ: 10}
	if left.Contains(10, 5) || !right.Contains(10, 5) {
		t.Fatalf("edge x=10 must belong to the right cell only")
	}
}

func TestBiome_UpsertRosterReplaces(t *testing.T) {
	var b Biome
	b.UpsertRoster(RosterEntry{ID: "p1", Level: 1})
	b.UpsertRoster(RosterEntry{ID: "p1", Level: 3})
	if len(b.Players) != 1 || b.Players[0].Level != 3 {
		t.Fatalf("roster=%+v", b.Players)
	}
}

func TestGameState_JSONKeepsUnwateredZeroTime(t *testing.T) {
	g := GameState{Trees: []Tree{{ID: "t1", PlantedAt: time.Unix(100, 0).UTC()}}}
	g.AddSeeds("oak", 3)
	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	var back GameState
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Trees[0].Watered() {
		t.Fatalf("never-watered tree came back watered")
	}
	if back.Seeds("oak") != 3 {
		t.Fatalf("seeds=%v", back.Resources.Seeds)
	}
}

func TestGameState_CloneIsDeep(t *testing.T) {
	var g GameState
	g.AddSeeds("oak", 1)
	g.Biome.Plots = []LandPlot{{ID: "p", TreeIDs: []TreeID{"t"}}}
	cp := g.Clone()
	cp.AddSeeds("oak", 5)
	cp.Biome.Plots[0].TreeIDs[0] = "x"
	if g.Seeds("oak") != 1 || g.Biome.Plots[0].TreeIDs[0] != "t" {
		t.Fatalf("clone shares state with original")
	}
}

func TestLandPlot_RetainKeepsMarkersInStep(t *testing.T) {
	var lp LandPlot
	lp.AddTree(TreeMarker{ID: "a", Species: "oak"})
	lp.AddTree(TreeMarker{ID: "b", Species: "pine"})
	lp.AddTree(TreeMarker{ID: "c", Species: "oak"})

	if !lp.RemoveTree("b") {
		t.Fatalf("expected b to be removed")
	}
	if lp.RemoveTree("b") {
		t.Fatalf("second removal must report nothing dropped")
	}
	if len(lp.TreeIDs) != 2 || len(lp.Trees) != 2 || lp.Trees[1].ID != "c" {
		t.Fatalf("ids=%v markers=%v", lp.TreeIDs, lp.Trees)
	}
	if lp.Retain(func(TreeID) bool { return true }) {
		t.Fatalf("keep-all must report no change")
	}
	if !lp.Retain(func(id TreeID) bool { return id == "c" }) || len(lp.TreeIDs) != 1 || lp.Trees[0].ID != "c" {
		t.Fatalf("ids=%v markers=%v", lp.TreeIDs, lp.Trees)
	}
}
