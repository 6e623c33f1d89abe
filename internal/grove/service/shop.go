package service

import (
	"context"
	"time"

	"GroveWorld/internal/grove/achievement"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/plot"
)

func (c *Coordinator) validQuantity(q int) bool {
	return q >= 1 && q <= c.balance.Economy.MaxPurchase
}

// BuySeeds trades coins for seeds of one species.
func (c *Coordinator) BuySeeds(ctx context.Context, pid entity.PlayerID, a BuySeeds) (*PurchaseResult, error) {
	s, out, unlocked, err := c.apply(ctx, pid, achievement.TriggerBuySeeds, func(s *session, _ time.Time) (Outcome, error) {
		sp, known := c.species(a.Species)
		if !known {
			return rejected(ReasonUnknownSpecies), nil
		}
		if !c.validQuantity(a.Quantity) {
			return rejected(ReasonBadQuantity), nil
		}
		if !s.state.Spend(sp.SeedPrice * int64(a.Quantity)) {
			return rejected(ReasonInsufficientCoins), nil
		}
		s.state.AddSeeds(a.Species, a.Quantity)
		return ok("seeds purchased"), nil
	})
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{Outcome: out, GameState: s.state, NewAchievements: unlocked}, nil
}

// BuySupplies trades coins for water or fertilizer.
func (c *Coordinator) BuySupplies(ctx context.Context, pid entity.PlayerID, a BuySupplies) (*PurchaseResult, error) {
	s, out, unlocked, err := c.apply(ctx, pid, achievement.TriggerSupplies, func(s *session, _ time.Time) (Outcome, error) {
		var price int64
		switch a.Kind {
		case SupplyWater:
			price = c.balance.Economy.WaterPrice
		case SupplyFertilizer:
			price = c.balance.Economy.FertilizerPrice
		default:
			return rejected(ReasonBadSupply), nil
		}
		if !c.validQuantity(a.Quantity) {
			return rejected(ReasonBadQuantity), nil
		}
		if !s.state.Spend(price * int64(a.Quantity)) {
			return rejected(ReasonInsufficientCoins), nil
		}
		if a.Kind == SupplyWater {
			s.state.Resources.Water += a.Quantity
		} else {
			s.state.Resources.Fertilizer += a.Quantity
		}
		return ok("supplies purchased"), nil
	})
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{Outcome: out, GameState: s.state, NewAchievements: unlocked}, nil
}

// BuyLand claims the grid cell holding (x, z) for the player. The
// availability check and the claim are one conditional biome update.
func (c *Coordinator) BuyLand(ctx context.Context, pid entity.PlayerID, a BuyLand) (*BuyLandResult, error) {
	var bought *entity.LandPlot
	s, out, unlocked, err := c.apply(ctx, pid, achievement.TriggerBuyLand, func(s *session, now time.Time) (Outcome, error) {
		if !finite(a.X, a.Z) {
			return rejected(ReasonBadPosition), nil
		}
		cell, inside := c.world.Grid.CellAt(a.X, a.Z)
		if !inside {
			return rejected(ReasonOutsideWorld), nil
		}
		price := c.balance.Economy.LandPrice
		if s.state.Player.Coins < price {
			return rejected(ReasonInsufficientCoins), nil
		}
		id, err := c.nextID("plot")
		if err != nil {
			return Outcome{}, err
		}

		var (
			reason  Reason
			lp      entity.LandPlot
			resumed bool
		)
		p := s.player()
		err = c.updateBiome(ctx, s, func(b *entity.Biome, alloc *plot.Allocator) (bool, error) {
			reason, resumed = Reason{}, false
			switch {
			case alloc.IsClaimed(cell):
				// A claim whose player save failed is finished here, not refused.
				if held, found := b.PlotContaining(a.X, a.Z); found && held.OwnerID == pid && !p.OwnsPlot(held.ID) {
					lp, resumed = *held, true
					return false, nil
				}
				reason = ReasonLandClaimed
				return false, nil
			case alloc.Full():
				reason = ReasonLandCapacity
				return false, nil
			case !alloc.Claim(cell):
				reason = ReasonLandClaimed
				return false, nil
			}
			lp = c.newPlot(entity.PlotID(id), pid, b.Type, alloc.Grid(), cell, price, now)
			b.Plots = append(b.Plots, lp)
			return true, nil
		})
		if err != nil {
			return Outcome{}, err
		}
		if reason.Code != "" {
			return rejected(reason), nil
		}

		if resumed {
			price = lp.Price
			if s.state.Player.Coins < price {
				return rejected(ReasonInsufficientCoins), nil
			}
		}
		s.state.Spend(price)
		p.LandPlots = append(p.LandPlots, lp.ID)
		bought = &lp
		return ok("land purchased"), nil
	})
	if err != nil {
		return nil, err
	}
	return &BuyLandResult{Outcome: out, GameState: s.state, LandPlot: bought, NewAchievements: unlocked}, nil
}
