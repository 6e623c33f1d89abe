package service

import (
	"context"
	"time"

	"GroveWorld/internal/grove/achievement"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/growth"
	"GroveWorld/internal/grove/plot"
)

// Plant spends one seed and places a tree at (x, z), which must lie on a
// plot the player owns that still has room.
func (c *Coordinator) Plant(ctx context.Context, pid entity.PlayerID, a Plant) (*TreeResult, error) {
	var planted entity.TreeID
	s, out, unlocked, err := c.apply(ctx, pid, achievement.TriggerPlant, func(s *session, now time.Time) (Outcome, error) {
		if _, known := c.species(a.Species); !known {
			return rejected(ReasonUnknownSpecies), nil
		}
		if !finite(a.X, a.Z) {
			return rejected(ReasonBadPosition), nil
		}
		if s.state.Seeds(a.Species) <= 0 {
			return rejected(ReasonNoSeeds), nil
		}
		id, err := c.nextID("tree")
		if err != nil {
			return Outcome{}, err
		}
		treeID := entity.TreeID(id)
		p := s.player()
		capacity := c.balance.Economy.PlotTreeCapacity

		tree := entity.Tree{
			ID:               treeID,
			Species:          a.Species,
			OwnerID:          pid,
			Position:         entity.Vec3{X: a.X, Z: a.Z},
			PlantedAt:        now,
			HealthAtWatering: growth.MaxHealth,
		}

		var reason Reason
		err = c.updateBiome(ctx, s, func(b *entity.Biome, _ *plot.Allocator) (bool, error) {
			reason = Reason{}
			lp, found := b.PlotContaining(a.X, a.Z)
			if !found || lp.OwnerID != pid || !p.OwnsPlot(lp.ID) {
				reason = ReasonPlotNotOwned
				return false, nil
			}
			// Ids left by a plant whose game-state save failed have no tree
			// behind them; the owner's game state is the list of record.
			pruned := lp.Retain(func(id entity.TreeID) bool {
				_, held := s.state.Tree(id)
				return held
			})
			if capacity > 0 && len(lp.TreeIDs) >= capacity {
				reason = ReasonPlotFull
				return pruned, nil
			}
			tree.PlotID = lp.ID
			lp.AddTree(tree.Marker())
			return true, nil
		})
		if err != nil {
			return Outcome{}, err
		}
		if reason.Code != "" {
			return rejected(reason), nil
		}

		s.state.AddSeeds(a.Species, -1)
		s.state.Trees = append(s.state.Trees, tree)
		p.Stats.TreesPlanted++
		planted = treeID
		return ok("tree planted"), nil
	})
	if err != nil {
		return nil, err
	}
	return &TreeResult{Outcome: out, GameState: s.state, Tree: c.treeByID(s, planted), NewAchievements: unlocked}, nil
}

// Water spends water to open a new watered window on the tree and lift
// its health.
func (c *Coordinator) Water(ctx context.Context, pid entity.PlayerID, a Water) (*TreeResult, error) {
	var target entity.TreeID
	s, out, unlocked, err := c.apply(ctx, pid, achievement.TriggerWater, func(s *session, now time.Time) (Outcome, error) {
		t, found := s.state.Tree(a.TreeID)
		if !found {
			return Outcome{}, ErrTreeNotFound.WithData("tree_id", string(a.TreeID))
		}
		cost := c.balance.Economy.WaterCost
		if s.state.Resources.Water < cost {
			return rejected(ReasonNoWater), nil
		}
		s.state.Resources.Water -= cost
		growth.Water(t, now, c.growth)
		s.player().Stats.TreesWatered++
		target = t.ID
		return ok("tree watered"), nil
	})
	if err != nil {
		return nil, err
	}
	return &TreeResult{Outcome: out, GameState: s.state, Tree: c.treeByID(s, target), NewAchievements: unlocked}, nil
}

// Fertilize spends one fertilizer to bank extra growth on the tree.
func (c *Coordinator) Fertilize(ctx context.Context, pid entity.PlayerID, a Fertilize) (*TreeResult, error) {
	var target entity.TreeID
	s, out, unlocked, err := c.apply(ctx, pid, achievement.TriggerFertilize, func(s *session, now time.Time) (Outcome, error) {
		t, found := s.state.Tree(a.TreeID)
		if !found {
			return Outcome{}, ErrTreeNotFound.WithData("tree_id", string(a.TreeID))
		}
		if s.state.Resources.Fertilizer <= 0 {
			return rejected(ReasonNoFertilizer), nil
		}
		s.state.Resources.Fertilizer--
		growth.Fertilize(t, c.growth)
		target = t.ID
		return ok("tree fertilized"), nil
	})
	if err != nil {
		return nil, err
	}
	return &TreeResult{Outcome: out, GameState: s.state, Tree: c.treeByID(s, target), NewAchievements: unlocked}, nil
}

// Harvest removes a mature tree and pays out its species rewards scaled by
// the tree's health. A mature tree at zero health is still harvestable for
// a zero reward.
func (c *Coordinator) Harvest(ctx context.Context, pid entity.PlayerID, a Harvest) (*HarvestResult, error) {
	var rewards Rewards
	s, out, unlocked, err := c.apply(ctx, pid, achievement.TriggerHarvest, func(s *session, now time.Time) (Outcome, error) {
		t, found := s.state.Tree(a.TreeID)
		if !found {
			return Outcome{}, ErrTreeNotFound.WithData("tree_id", string(a.TreeID))
		}
		if !growth.Mature(t, now, c.growth) {
			return rejected(ReasonNotMature), nil
		}
		health := growth.Health(t, now, c.growth)
		sp, _ := c.species(t.Species)
		eco := c.balance.Economy
		rewards = Rewards{
			Coins:      growth.ScaleReward(sp.HarvestCoins, health),
			Seeds:      int(growth.ScaleReward(int64(sp.HarvestSeeds), health)),
			Experience: growth.ScaleReward(sp.HarvestXP, health),
			Water:      int(growth.ScaleReward(int64(eco.HarvestWaterRefund), health)),
		}

		treeID, plotID, species := t.ID, t.PlotID, t.Species
		err := c.updateBiome(ctx, s, func(b *entity.Biome, _ *plot.Allocator) (bool, error) {
			lp, found := b.Plot(plotID)
			if !found {
				return false, nil
			}
			return lp.RemoveTree(treeID), nil
		})
		if err != nil {
			return Outcome{}, err
		}

		s.state.RemoveTree(treeID)
		s.state.Earn(rewards.Coins)
		s.state.AddSeeds(species, rewards.Seeds)
		s.state.Resources.Water += rewards.Water
		p := s.player()
		p.AddExperience(rewards.Experience, eco.XPPerLevel)
		p.Stats.TreesHarvested++
		return ok("tree harvested"), nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Success {
		rewards = Rewards{}
	}
	return &HarvestResult{Outcome: out, Rewards: rewards, GameState: s.state, NewAchievements: unlocked}, nil
}

func (c *Coordinator) treeByID(s *session, id entity.TreeID) *entity.Tree {
	if id == "" {
		return nil
	}
	t, found := s.state.Tree(id)
	if !found {
		return nil
	}
	cp := *t
	return &cp
}
