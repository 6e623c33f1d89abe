package entity

import "time"

type Environment struct {
	SkyColor   string  `json:"skyColor"`
	FogColor   string  `json:"fogColor"`
	FogDensity float64 `json:"fogDensity"`
	MaxPlayers int     `json:"maxPlayers"`
}

// RosterEntry is the biome's view of a registered player.
type RosterEntry struct {
	ID          PlayerID  `json:"id"`
	DisplayName string    `json:"displayName"`
	Level       int       `json:"level"`
	Position    Vec3      `json:"position"`
	LastActive  time.Time `json:"lastActive"`
}

// Biome is the canonical shared world record.
type Biome struct {
	ID          BiomeID       `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Environment Environment   `json:"environment"`
	Plots       []LandPlot    `json:"plots"`
	Players     []RosterEntry `json:"players"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (b *Biome) Plot(id PlotID) (*LandPlot, bool) {
	for i := range b.Plots {
		if b.Plots[i].ID == id {
			return &b.Plots[i], true
		}
	}
	return nil, false
}

// PlotContaining returns the plot whose footprint holds (x, z).
func (b *Biome) PlotContaining(x, z float64) (*LandPlot, bool) {
	for i := range b.Plots {
		if b.Plots[i].Bounds.Contains(x, z) {
			return &b.Plots[i], true
		}
	}
	return nil, false
}

func (b *Biome) PlotsOwnedBy(owner PlayerID) []LandPlot {
	var out []LandPlot
	for _, p := range b.Plots {
		if p.OwnerID == owner {
			out = append(out, p)
		}
	}
	return out
}

func (b *Biome) Roster(id PlayerID) (*RosterEntry, bool) {
	for i := range b.Players {
		if b.Players[i].ID == id {
			return &b.Players[i], true
		}
	}
	return nil, false
}

// UpsertRoster replaces the entry with the same id or appends a new one.
func (b *Biome) UpsertRoster(e RosterEntry) {
	if cur, ok := b.Roster(e.ID); ok {
		*cur = e
		return
	}
	b.Players = append(b.Players, e)
}

func (b *Biome) Clone() Biome {
	cp := *b
	cp.Plots = make([]LandPlot, len(b.Plots))
	for i, p := range b.Plots {
		p.TreeIDs = append([]TreeID(nil), p.TreeIDs...)
		p.Trees = append([]TreeMarker(nil), p.Trees...)
		cp.Plots[i] = p
	}
	cp.Players = append([]RosterEntry(nil), b.Players...)
	return cp
}
