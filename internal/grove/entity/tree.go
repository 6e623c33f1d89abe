package entity

import "time"

// Tree stores only timestamps and the banked effects of discrete actions.
// GrowthStage and Health are a read-time view filled by the growth engine;
// nothing reads them back as truth.
type Tree struct {
	ID       TreeID   `json:"id"`
	Species  Species  `json:"species"`
	OwnerID  PlayerID `json:"ownerId"`
	PlotID   PlotID   `json:"plotId"`
	Position Vec3     `json:"position"`

	PlantedAt time.Time `json:"plantedAt"`
	// LastWatered is zero until the first watering.
	LastWatered time.Time `json:"lastWatered"`
	// HealthAtWatering is the health recorded at the last watering (100 at plant).
	HealthAtWatering float64 `json:"healthAtWatering"`
	// BonusGrowth is extra growth banked by earlier watering windows and fertilizer.
	BonusGrowth  time.Duration `json:"bonusGrowth"`
	TimesWatered int           `json:"timesWatered"`

	GrowthStage int     `json:"growthStage"`
	Health      float64 `json:"health"`
}

func (t *Tree) Watered() bool {
	return !t.LastWatered.IsZero()
}

// TreeMarker is the part of a tree recorded on its plot in the shared
// biome. Growth stays with the owner's Tree.
type TreeMarker struct {
	ID        TreeID    `json:"id"`
	Species   Species   `json:"species"`
	OwnerID   PlayerID  `json:"ownerId"`
	Position  Vec3      `json:"position"`
	PlantedAt time.Time `json:"plantedAt"`
}

func (t *Tree) Marker() TreeMarker {
	return TreeMarker{ID: t.ID, Species: t.Species, OwnerID: t.OwnerID, Position: t.Position, PlantedAt: t.PlantedAt}
}
