// Package achievement evaluates the unlock rule table against a player's
// post-action state.
package achievement

import (
	"time"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/shared/gameconfig/balance"
)

// Trigger names the action that was just applied.
type Trigger string

const (
	TriggerInit      Trigger = "init"
	TriggerMove      Trigger = "move"
	TriggerPlant     Trigger = "plant"
	TriggerWater     Trigger = "water"
	TriggerFertilize Trigger = "fertilize"
	TriggerHarvest   Trigger = "harvest"
	TriggerBuySeeds  Trigger = "buy_seeds"
	TriggerBuyLand   Trigger = "buy_land"
	TriggerSupplies  Trigger = "buy_supplies"
)

// Rule fires for any trigger in On (all triggers when On is empty).
type Rule struct {
	ID          string
	Name        string
	Description string
	On          []Trigger
	Met         func(p *entity.Player) bool
}

func (r Rule) listens(t Trigger) bool {
	if len(r.On) == 0 {
		return true
	}
	for _, on := range r.On {
		if on == t {
			return true
		}
	}
	return false
}

type Evaluator struct {
	rules []Rule
}

// NewEvaluator builds the default rule table with thresholds from balance.
func NewEvaluator(a balance.Achievements) *Evaluator {
	return &Evaluator{rules: DefaultRules(a)}
}

func NewEvaluatorWithRules(rules []Rule) *Evaluator {
	return &Evaluator{rules: append([]Rule(nil), rules...)}
}

func (e *Evaluator) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Evaluate returns, in table order, every rule that listens to trigger, is
// met by p and is not held yet. It does not modify p.
func (e *Evaluator) Evaluate(p *entity.Player, trigger Trigger, now time.Time) []entity.Achievement {
	var out []entity.Achievement
	for _, r := range e.rules {
		if !r.listens(trigger) || p.HasAchievement(r.ID) || !r.Met(p) {
			continue
		}
		out = append(out, entity.Achievement{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			UnlockedAt:  now,
		})
	}
	return out
}

// Apply evaluates and appends the new unlocks to p.
func (e *Evaluator) Apply(p *entity.Player, trigger Trigger, now time.Time) []entity.Achievement {
	unlocked := e.Evaluate(p, trigger, now)
	for _, a := range unlocked {
		p.Unlock(a)
	}
	return unlocked
}

func DefaultRules(a balance.Achievements) []Rule {
	coinTriggers := []Trigger{TriggerHarvest, TriggerBuySeeds, TriggerBuyLand, TriggerSupplies}
	return []Rule{
		{
			ID: "first_sprout", Name: "First Sprout", Description: "Plant your first tree.",
			On:  []Trigger{TriggerPlant},
			Met: func(p *entity.Player) bool { return p.Stats.TreesPlanted >= 1 },
		},
		{
			ID: "green_thumb", Name: "Green Thumb", Description: "Plant many trees.",
			On:  []Trigger{TriggerPlant},
			Met: func(p *entity.Player) bool { return p.Stats.TreesPlanted >= a.GreenThumbPlants },
		},
		{
			ID: "caretaker", Name: "Caretaker", Description: "Water trees again and again.",
			On:  []Trigger{TriggerWater},
			Met: func(p *entity.Player) bool { return p.Stats.TreesWatered >= a.CaretakerWaters },
		},
		{
			ID: "first_harvest", Name: "First Harvest", Description: "Harvest a mature tree.",
			On:  []Trigger{TriggerHarvest},
			Met: func(p *entity.Player) bool { return p.Stats.TreesHarvested >= 1 },
		},
		{
			ID: "master_harvester", Name: "Master Harvester", Description: "Harvest a whole orchard.",
			On:  []Trigger{TriggerHarvest},
			Met: func(p *entity.Player) bool { return p.Stats.TreesHarvested >= a.MasterHarvesterHarvest },
		},
		{
			ID: "landowner", Name: "Landowner", Description: "Own several plots of land.",
			On:  []Trigger{TriggerBuyLand},
			Met: func(p *entity.Player) bool { return len(p.LandPlots) >= a.LandownerPlots },
		},
		{
			ID: "wealthy", Name: "Wealthy", Description: "Hold a fortune in coins.",
			On:  coinTriggers,
			Met: func(p *entity.Player) bool { return p.Coins >= a.WealthyCoins },
		},
		{
			ID: "seasoned", Name: "Seasoned", Description: "Reach a high level.",
			Met: func(p *entity.Player) bool { return p.Level >= a.SeasonedLevel },
		},
	}
}
