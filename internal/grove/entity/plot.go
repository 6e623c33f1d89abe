package entity

import "time"

type Bounds struct {
	StartX  float64 `json:"startX"`
	StartZ  float64 `json:"startZ"`
	EndX    float64 `json:"endX"`
	EndZ    float64 `json:"endZ"`
	CenterX float64 `json:"centerX"`
	CenterZ float64 `json:"centerZ"`
}

// Contains is inclusive on the start edge and exclusive on the end edge, so
// a point on a shared border belongs to exactly one cell.
func (b Bounds) Contains(x, z float64) bool {
	return x >= b.StartX && x < b.EndX && z >= b.StartZ && z < b.EndZ
}

// LandPlot is one claimed grid cell. OwnerID is fixed at creation.
type LandPlot struct {
	ID          PlotID       `json:"id"`
	OwnerID     PlayerID     `json:"ownerId"`
	BiomeType   string       `json:"biomeType"`
	GridX       int          `json:"gridX"`
	GridZ       int          `json:"gridZ"`
	Position    Vec3         `json:"position"`
	Bounds      Bounds       `json:"bounds"`
	TreeIDs     []TreeID     `json:"treeIds"`
	// Trees mirrors TreeIDs with what other players need to see of each tree.
	Trees       []TreeMarker `json:"trees"`
	PurchasedAt time.Time    `json:"purchasedAt"`
	Price       int64        `json:"price"`
}

func (p *LandPlot) HasTree(id TreeID) bool {
	for _, t := range p.TreeIDs {
		if t == id {
			return true
		}
	}
	return false
}

func (p *LandPlot) AddTree(m TreeMarker) {
	p.TreeIDs = append(p.TreeIDs, m.ID)
	p.Trees = append(p.Trees, m)
}

func (p *LandPlot) RemoveTree(id TreeID) bool {
	return p.Retain(func(t TreeID) bool { return t != id })
}

// Retain drops every tree for which keep returns false and reports whether
// anything was dropped.
func (p *LandPlot) Retain(keep func(TreeID) bool) bool {
	ids := p.TreeIDs[:0:0]
	for _, t := range p.TreeIDs {
		if keep(t) {
			ids = append(ids, t)
		}
	}
	markers := p.Trees[:0:0]
	for _, m := range p.Trees {
		if keep(m.ID) {
			markers = append(markers, m)
		}
	}
	changed := len(ids) != len(p.TreeIDs) || len(markers) != len(p.Trees)
	p.TreeIDs, p.Trees = ids, markers
	return changed
}
