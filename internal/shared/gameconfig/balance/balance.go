package balance

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Balance is the full game tuning table. Every field has a compiled-in
// default; the yaml file only needs to carry overrides.
type Balance struct {
	Growth       Growth       `yaml:"growth"`
	Economy      Economy      `yaml:"economy"`
	Achievements Achievements `yaml:"achievements"`
	Species      []Species    `yaml:"species"`
}

type Growth struct {
	MaxStage              int           `yaml:"max_stage"`
	GrowthPeriod          time.Duration `yaml:"growth_period"`
	WateredWindow         time.Duration `yaml:"watered_window"`
	WaterGrowthMultiplier float64       `yaml:"water_growth_multiplier"`
	GracePeriod           time.Duration `yaml:"grace_period"`
	DecayPerHour          float64       `yaml:"decay_per_hour"`
	WaterHealthBonus      float64       `yaml:"water_health_bonus"`
	FertilizerBoost       time.Duration `yaml:"fertilizer_boost"`
}

type Economy struct {
	StartingCoins      int64   `yaml:"starting_coins"`
	StartingSeeds      int     `yaml:"starting_seeds"`
	StartingSpecies    string  `yaml:"starting_species"`
	StartingWater      int     `yaml:"starting_water"`
	StartingFertilizer int     `yaml:"starting_fertilizer"`
	LandPrice          int64   `yaml:"land_price"`
	WaterCost          int     `yaml:"water_cost"`
	WaterPrice         int64   `yaml:"water_price"`
	FertilizerPrice    int64   `yaml:"fertilizer_price"`
	MaxPurchase        int     `yaml:"max_purchase"`
	XPPerLevel         int64   `yaml:"xp_per_level"`
	PlotTreeCapacity   int     `yaml:"plot_tree_capacity"`
	HarvestWaterRefund int     `yaml:"harvest_water_refund"`
	NearbyRadius       float64 `yaml:"nearby_radius"`
	MaxNearbyRadius    float64 `yaml:"max_nearby_radius"`
}

type Achievements struct {
	GreenThumbPlants       int   `yaml:"green_thumb_plants"`
	CaretakerWaters        int   `yaml:"caretaker_waters"`
	MasterHarvesterHarvest int   `yaml:"master_harvester_harvests"`
	LandownerPlots         int   `yaml:"landowner_plots"`
	WealthyCoins           int64 `yaml:"wealthy_coins"`
	SeasonedLevel          int   `yaml:"seasoned_level"`
}

type Species struct {
	Name         string `yaml:"name"`
	SeedPrice    int64  `yaml:"seed_price"`
	HarvestCoins int64  `yaml:"harvest_coins"`
	HarvestSeeds int    `yaml:"harvest_seeds"`
	HarvestXP    int64  `yaml:"harvest_xp"`
}

// Default returns the reference balance.
func Default() *Balance {
	return &Balance{
		Growth: Growth{
			MaxStage:              5,
			GrowthPeriod:          time.Hour,
			WateredWindow:         6 * time.Hour,
			WaterGrowthMultiplier: 1.5,
			GracePeriod:           24 * time.Hour,
			DecayPerHour:          5,
			WaterHealthBonus:      20,
			FertilizerBoost:       30 * time.Minute,
		},
		Economy: Economy{
			StartingCoins:      100,
			StartingSeeds:      5,
			StartingSpecies:    "oak",
			StartingWater:      10,
			StartingFertilizer: 1,
			LandPrice:          100,
			WaterCost:          1,
			WaterPrice:         2,
			FertilizerPrice:    15,
			MaxPurchase:        99,
			XPPerLevel:         100,
			PlotTreeCapacity:   4,
			HarvestWaterRefund: 1,
			NearbyRadius:       50,
			MaxNearbyRadius:    500,
		},
		Achievements: Achievements{
			GreenThumbPlants:       10,
			CaretakerWaters:        20,
			MasterHarvesterHarvest: 25,
			LandownerPlots:         5,
			WealthyCoins:           1000,
			SeasonedLevel:          5,
		},
		Species: []Species{
			{Name: "oak", SeedPrice: 10, HarvestCoins: 50, HarvestSeeds: 2, HarvestXP: 25},
			{Name: "pine", SeedPrice: 8, HarvestCoins: 40, HarvestSeeds: 2, HarvestXP: 20},
			{Name: "birch", SeedPrice: 12, HarvestCoins: 60, HarvestSeeds: 2, HarvestXP: 30},
			{Name: "maple", SeedPrice: 15, HarvestCoins: 75, HarvestSeeds: 2, HarvestXP: 35},
			{Name: "cherry", SeedPrice: 20, HarvestCoins: 100, HarvestSeeds: 3, HarvestXP: 50},
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Balance, error) {
	b := Default()
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, fmt.Errorf("read balance: %w", err)
	}
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("decode balance %s: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("balance %s: %w", path, err)
	}
	return b, nil
}

func (b *Balance) Validate() error {
	switch {
	case b.Growth.MaxStage <= 0:
		return fmt.Errorf("growth.max_stage must be > 0")
	case b.Growth.GrowthPeriod <= 0:
		return fmt.Errorf("growth.growth_period must be > 0")
	case b.Growth.WaterGrowthMultiplier < 1:
		return fmt.Errorf("growth.water_growth_multiplier must be >= 1")
	case b.Economy.XPPerLevel <= 0:
		return fmt.Errorf("economy.xp_per_level must be > 0")
	case b.Economy.PlotTreeCapacity <= 0:
		return fmt.Errorf("economy.plot_tree_capacity must be > 0")
	case len(b.Species) == 0:
		return fmt.Errorf("species list is empty")
	}
	seen := make(map[string]struct{}, len(b.Species))
	for _, s := range b.Species {
		if s.Name == "" {
			return fmt.Errorf("species with empty name")
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate species %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	if _, ok := seen[b.Economy.StartingSpecies]; !ok {
		return fmt.Errorf("starting species %q is not in the species list", b.Economy.StartingSpecies)
	}
	return nil
}

// SpeciesByName looks up a species row.
func (b *Balance) SpeciesByName(name string) (Species, bool) {
	for _, s := range b.Species {
		if s.Name == name {
			return s, true
		}
	}
	return Species{}, false
}
