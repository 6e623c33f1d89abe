package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"GroveWorld/internal/grove/achievement"
	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/plot"
)

// Init admits pid into the world. A new player gets the first free plot,
// spawns at its centre and starts with the default wallet; a returning
// player keeps their record and only refreshes lastActive and the roster.
func (c *Coordinator) Init(ctx context.Context, pid entity.PlayerID, a Init) (*InitResult, error) {
	if pid == "" {
		return nil, ErrBadAction.WithData("reason", "empty player id")
	}
	now := c.now()

	player, pVersion, err := c.repo.LoadPlayer(ctx, pid)
	if err != nil && !errors.Is(err, port.ErrNotFound) {
		return nil, storeErr(err)
	}
	gs, gsVersion, err := c.repo.LoadGameState(ctx, pid)
	if err != nil && !errors.Is(err, port.ErrNotFound) {
		return nil, storeErr(err)
	}

	created := player == nil && gs == nil
	switch {
	case player == nil && gs != nil:
		p := gs.Player
		player = &p
	case player == nil:
		player = c.newPlayer(pid, a, now)
	}
	player.LastActive = now

	plotID, err := c.nextID("plot")
	if err != nil {
		return nil, err
	}
	s := &session{playerVersion: pVersion, stateVersion: gsVersion}
	if gs == nil {
		s.state = c.newGameState(*player, now)
	} else {
		gs.Player = *player
		s.state = gs
	}

	err = c.updateBiome(ctx, s, c.admit(s.player(), entity.PlotID(plotID), now))
	if err != nil {
		return nil, err
	}

	c.achievements.Apply(s.player(), achievement.TriggerInit, now)
	if err := c.persist(ctx, s, now); err != nil {
		return nil, err
	}
	if created {
		c.announce(fmt.Sprintf("%s joined the grove", s.player().DisplayName), now)
	}

	return &InitResult{
		GameState:     s.state,
		NearbyPlayers: c.nearbyOf(s.player(), s.state.Biome.Players, c.capRadius(c.balance.Economy.NearbyRadius)),
		Created:       created,
	}, nil
}

func (c *Coordinator) newPlayer(pid entity.PlayerID, a Init, now time.Time) *entity.Player {
	username := a.Username
	if username == "" {
		username = string(pid)
	}
	display := a.DisplayName
	if display == "" {
		display = username
	}
	return &entity.Player{
		ID:           pid,
		Username:     username,
		DisplayName:  display,
		Level:        1,
		Coins:        c.balance.Economy.StartingCoins,
		Achievements: []entity.Achievement{},
		LandPlots:    []entity.PlotID{},
		CreatedAt:    now,
		LastActive:   now,
	}
}

func (c *Coordinator) newGameState(p entity.Player, now time.Time) *entity.GameState {
	eco := c.balance.Economy
	gs := &entity.GameState{
		Player: p,
		Trees:  []entity.Tree{},
		Resources: entity.Resources{
			Seeds:      map[entity.Species]int{},
			Water:      eco.StartingWater,
			Fertilizer: eco.StartingFertilizer,
		},
		UpdatedAt: now,
	}
	if eco.StartingSpecies != "" && eco.StartingSeeds > 0 {
		gs.AddSeeds(entity.Species(eco.StartingSpecies), eco.StartingSeeds)
	}
	gs.SetCoins(p.Coins)
	return gs
}

// admit registers p in the roster, claiming a starting plot when p owns
// none. A plot left behind by an interrupted earlier init is reused.
func (c *Coordinator) admit(p *entity.Player, plotID entity.PlotID, now time.Time) BiomeMutation {
	base := p.Clone()
	return func(b *entity.Biome, alloc *plot.Allocator) (bool, error) {
		*p = base.Clone()
		owned := b.PlotsOwnedBy(p.ID)
		if len(owned) == 0 {
			if _, registered := b.Roster(p.ID); !registered && b.Environment.MaxPlayers > 0 && len(b.Players) >= b.Environment.MaxPlayers {
				return false, ErrWorldFull.WithData("players", len(b.Players))
			}
			cell, ok := alloc.ClaimFirstAvailable()
			if !ok {
				return false, ErrWorldFull.WithData("plots", alloc.Claimed())
			}
			lp := c.newPlot(plotID, p.ID, b.Type, alloc.Grid(), cell, 0, now)
			b.Plots = append(b.Plots, lp)
			owned = []entity.LandPlot{lp}
		}
		for _, lp := range owned {
			if !p.OwnsPlot(lp.ID) {
				p.LandPlots = append(p.LandPlots, lp.ID)
			}
		}
		if len(base.LandPlots) == 0 {
			p.Position = owned[0].Position
		}
		b.UpsertRoster(p.Summary())
		return true, nil
	}
}

func (c *Coordinator) newPlot(id entity.PlotID, owner entity.PlayerID, biomeType string, g plot.Grid, cell plot.Cell, price int64, now time.Time) entity.LandPlot {
	bounds := g.CellToWorldBounds(cell)
	return entity.LandPlot{
		ID:          id,
		OwnerID:     owner,
		BiomeType:   biomeType,
		GridX:       cell.X,
		GridZ:       cell.Z,
		Position:    entity.Vec3{X: bounds.CenterX, Z: bounds.CenterZ},
		Bounds:      bounds,
		TreeIDs:     []entity.TreeID{},
		Trees:       []entity.TreeMarker{},
		PurchasedAt: now,
		Price:       price,
	}
}

// announce appends a system message to the chat ring.
func (c *Coordinator) announce(text string, now time.Time) {
	c.chat.Append(entity.ChatMessage{
		ID:         entity.MessageID(uuid.NewString()),
		SenderID:   "system",
		SenderName: "Grove",
		Text:       text,
		Timestamp:  now,
		Kind:       entity.MessageSystem,
	})
}
