package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"GroveWorld/internal/grove/achievement"
	"GroveWorld/internal/grove/chat"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/plot"
	"GroveWorld/internal/grove/proximity"
)

// bucketedRosterSize is the roster size above which nearby queries go
// through a grid bucket index instead of a linear scan.
const bucketedRosterSize = 256

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Move updates the player's position and their roster entry. Height is
// clamped at ground level.
func (c *Coordinator) Move(ctx context.Context, pid entity.PlayerID, a Move) (*MoveResult, error) {
	s, out, _, err := c.apply(ctx, pid, achievement.TriggerMove, func(s *session, now time.Time) (Outcome, error) {
		if !finite(a.X, a.Y, a.Z) {
			return rejected(ReasonBadPosition), nil
		}
		pos := entity.Vec3{X: a.X, Y: math.Max(0, a.Y), Z: a.Z}
		p := s.player()
		p.Position = pos
		p.LastActive = now
		entry := p.Summary()
		err := c.updateBiome(ctx, s, func(b *entity.Biome, _ *plot.Allocator) (bool, error) {
			b.UpsertRoster(entry)
			return true, nil
		})
		if err != nil {
			return Outcome{}, err
		}
		return ok("moved"), nil
	})
	if err != nil {
		return nil, err
	}
	return &MoveResult{Outcome: out, GameState: s.state, Position: s.player().Position}, nil
}

// Nearby lists the other roster entries within radius of the player on
// the x/z plane, boundary inclusive. Radii above the configured cap are
// searched at the cap, which the result reports.
func (c *Coordinator) Nearby(ctx context.Context, pid entity.PlayerID, a Nearby) (*NearbyResult, error) {
	s, err := c.loadSession(ctx, pid)
	if err != nil {
		return nil, err
	}
	radius := c.balance.Economy.NearbyRadius
	if a.Radius != nil {
		radius = *a.Radius
		if !finite(radius) || radius < 0 {
			return &NearbyResult{Outcome: rejected(ReasonBadRadius), Players: []entity.RosterEntry{}}, nil
		}
	}
	b, err := c.biomes.Biome(ctx)
	if err != nil {
		return nil, err
	}
	radius = c.capRadius(radius)
	return &NearbyResult{Outcome: ok("nearby players"), Players: c.nearbyOf(s.player(), b.Players, radius), Radius: radius}, nil
}

func (c *Coordinator) capRadius(radius float64) float64 {
	if limit := c.balance.Economy.MaxNearbyRadius; limit > 0 && radius > limit {
		return limit
	}
	return radius
}

func (c *Coordinator) nearbyOf(p *entity.Player, roster []entity.RosterEntry, radius float64) []entity.RosterEntry {
	var out []entity.RosterEntry
	if len(roster) > bucketedRosterSize {
		out = proximity.NewBucketed(roster, radius).Nearby(p.ID, p.Position, radius)
	} else {
		out = proximity.Nearby(p.ID, p.Position, roster, radius)
	}
	if out == nil {
		out = []entity.RosterEntry{}
	}
	return out
}

// SendChat appends a player message to the biome chat ring.
func (c *Coordinator) SendChat(ctx context.Context, pid entity.PlayerID, a ChatSend) (*ChatSendResult, error) {
	s, err := c.loadSession(ctx, pid)
	if err != nil {
		return nil, err
	}
	text, err := chat.Normalize(a.Text, c.chatMaxLen)
	switch {
	case errors.Is(err, chat.ErrEmpty):
		return &ChatSendResult{Outcome: rejected(ReasonChatEmpty)}, nil
	case errors.Is(err, chat.ErrTooLong):
		return &ChatSendResult{Outcome: rejected(ReasonChatTooLong)}, nil
	case err != nil:
		return nil, err
	}
	msg := entity.ChatMessage{
		ID:         entity.MessageID(uuid.NewString()),
		SenderID:   pid,
		SenderName: s.player().DisplayName,
		Text:       text,
		Timestamp:  c.now(),
		Kind:       entity.MessagePlayer,
	}
	c.chat.Append(msg)
	return &ChatSendResult{Outcome: ok("sent"), ChatMessage: &msg}, nil
}

// RecentChat returns the last limit messages, oldest first. It is global
// and needs no player record.
func (c *Coordinator) RecentChat(_ context.Context, a ChatRecent) (*ChatRecentResult, error) {
	limit := a.Limit
	if limit <= 0 || limit > c.chat.Capacity() {
		limit = c.chat.Capacity()
	}
	msgs := c.chat.Recent(limit)
	if msgs == nil {
		msgs = []entity.ChatMessage{}
	}
	return &ChatRecentResult{Messages: msgs}, nil
}
