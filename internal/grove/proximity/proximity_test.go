package proximity

import (
	"fmt"
	"math/rand"
	"testing"

	"GroveWorld/internal/grove/entity"
)

func entry(id string, x, y, z float64) entity.RosterEntry {
	return entity.RosterEntry{ID: entity.PlayerID(id), Position: entity.Vec3{X: x, Y: y, Z: z}}
}

func TestNearby_ExcludesSelfAndUsesInclusiveBoundary(t *testing.T) {
	roster := []entity.RosterEntry{
		entry("me", 0, 0, 0),
		entry("edge", 3, 0, 4),
		entry("past", 3, 0, 4.0001),
		entry("tall", 1, 500, 1),
	}
	got := Nearby("me", entity.Vec3{}, roster, 5)
	if len(got) != 2 || got[0].ID != "edge" || got[1].ID != "tall" {
		t.Fatalf("got %+v", got)
	}
}

func TestNearby_NegativeRadius(t *testing.T) {
	if got := Nearby("me", entity.Vec3{}, []entity.RosterEntry{entry("a", 0, 0, 0)}, -1); got != nil {
		t.Fatalf("got %+v", got)
	}
}

func TestBucketed_MatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	roster := make([]entity.RosterEntry, 0, 300)
	for i := 0; i < 300; i++ {
		roster = append(roster, entry(fmt.Sprintf("p%d", i), rng.Float64()*200-100, 0, rng.Float64()*200-100))
	}
	idx := NewBucketed(roster, 7)
	for q := 0; q < 50; q++ {
		self := roster[rng.Intn(len(roster))]
		r := rng.Float64() * 40
		want := Nearby(self.ID, self.Position, roster, r)
		got := idx.Nearby(self.ID, self.Position, r)
		if len(got) != len(want) {
			t.Fatalf("query %d: got %d want %d", q, len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i].ID {
				t.Fatalf("query %d: order mismatch at %d", q, i)
			}
		}
	}
}

func TestBucketed_InclusiveBoundary(t *testing.T) {
	roster := []entity.RosterEntry{entry("me", 0, 0, 0), entry("edge", 0, 0, 10), entry("past", 0, 0, 10.001)}
	got := NewBucketed(roster, 10).Nearby("me", entity.Vec3{}, 10)
	if len(got) != 1 || got[0].ID != "edge" {
		t.Fatalf("got %+v", got)
	}
}
