package entity

import "time"

type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

// Stats are lifetime counters read by the achievement rules.
type Stats struct {
	TreesPlanted   int `json:"treesPlanted"`
	TreesWatered   int `json:"treesWatered"`
	TreesHarvested int `json:"treesHarvested"`
}

// entity
type Player struct {
	ID           PlayerID      `json:"id"`
	Username     string        `json:"username"`
	DisplayName  string        `json:"displayName"`
	Level        int           `json:"level"`
	Experience   int64         `json:"experience"`
	Coins        int64         `json:"coins"`
	Achievements []Achievement `json:"achievements"`
	LandPlots    []PlotID      `json:"landPlots"`
	Position     Vec3          `json:"position"`
	Stats        Stats         `json:"stats"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastActive   time.Time     `json:"lastActive"`
}

func (p *Player) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Unlock appends a unless an achievement with the same id is already held.
func (p *Player) Unlock(a Achievement) bool {
	if p.HasAchievement(a.ID) {
		return false
	}
	p.Achievements = append(p.Achievements, a)
	return true
}

func (p *Player) OwnsPlot(id PlotID) bool {
	for _, owned := range p.LandPlots {
		if owned == id {
			return true
		}
	}
	return false
}

// AddExperience never lets experience go negative and keeps level in step.
func (p *Player) AddExperience(xp, perLevel int64) {
	if xp > 0 {
		p.Experience += xp
	}
	p.Level = LevelFor(p.Experience, perLevel)
}

func LevelFor(experience, perLevel int64) int {
	if perLevel <= 0 || experience < 0 {
		return 1
	}
	return 1 + int(experience/perLevel)
}

// Summary is the roster view of the player.
func (p *Player) Summary() RosterEntry {
	return RosterEntry{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Level:       p.Level,
		Position:    p.Position,
		LastActive:  p.LastActive,
	}
}

func (p *Player) Clone() Player {
	cp := *p
	cp.Achievements = append([]Achievement(nil), p.Achievements...)
	cp.LandPlots = append([]PlotID(nil), p.LandPlots...)
	return cp
}
