// Package proximity answers "who is near me" over a biome roster.
//
// Distance is Euclidean on the horizontal x/z plane. The querying player is
// never returned and the boundary is inclusive (distance <= radius).
package proximity

import (
	"math"
	"sort"

	"GroveWorld/internal/grove/entity"
)

func within(a, b entity.Vec3, radius float64) bool {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return dx*dx+dz*dz <= radius*radius
}

// Nearby is the linear scan over the roster. Roster order is preserved.
func Nearby(self entity.PlayerID, pos entity.Vec3, roster []entity.RosterEntry, radius float64) []entity.RosterEntry {
	if radius < 0 {
		return nil
	}
	var out []entity.RosterEntry
	for _, e := range roster {
		if e.ID == self {
			continue
		}
		if within(pos, e.Position, radius) {
			out = append(out, e)
		}
	}
	return out
}

type bucket struct {
	x, z int
}

// Bucketed is a uniform grid index with the same contract as Nearby.
type Bucketed struct {
	cell    float64
	buckets map[bucket][]int
	roster  []entity.RosterEntry
}

func NewBucketed(roster []entity.RosterEntry, cellSize float64) *Bucketed {
	if cellSize <= 0 {
		cellSize = 10
	}
	b := &Bucketed{
		cell:    cellSize,
		buckets: make(map[bucket][]int),
		roster:  roster,
	}
	for i, e := range roster {
		k := b.key(e.Position.X, e.Position.Z)
		b.buckets[k] = append(b.buckets[k], i)
	}
	return b
}

func (b *Bucketed) key(x, z float64) bucket {
	return bucket{x: int(math.Floor(x / b.cell)), z: int(math.Floor(z / b.cell))}
}

// Nearby returns matches in roster order, like the linear scan.
func (b *Bucketed) Nearby(self entity.PlayerID, pos entity.Vec3, radius float64) []entity.RosterEntry {
	if radius < 0 {
		return nil
	}
	lo := b.key(pos.X-radius, pos.Z-radius)
	hi := b.key(pos.X+radius, pos.Z+radius)
	var hits []int
	for x := lo.x; x <= hi.x; x++ {
		for z := lo.z; z <= hi.z; z++ {
			for _, i := range b.buckets[bucket{x: x, z: z}] {
				e := b.roster[i]
				if e.ID != self && within(pos, e.Position, radius) {
					hits = append(hits, i)
				}
			}
		}
	}
	sort.Ints(hits)
	out := make([]entity.RosterEntry, 0, len(hits))
	for _, i := range hits {
		out = append(out, b.roster[i])
	}
	return out
}
