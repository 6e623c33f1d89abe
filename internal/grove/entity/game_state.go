package entity

import "time"

type Resources struct {
	Seeds      map[Species]int `json:"seeds"`
	Water      int             `json:"water"`
	Fertilizer int             `json:"fertilizer"`
	Coins      int64           `json:"coins"`
}

// GameState is the per-player aggregate. Resources.Coins mirrors
// Player.Coins and is only ever written through SetCoins.
type GameState struct {
	Player    Player    `json:"player"`
	Biome     Biome     `json:"biome"`
	Trees     []Tree    `json:"trees"`
	Resources Resources `json:"resources"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g *GameState) SetCoins(n int64) {
	g.Player.Coins = n
	g.Resources.Coins = n
}

// Spend deducts n coins when affordable.
func (g *GameState) Spend(n int64) bool {
	if n < 0 || g.Player.Coins < n {
		return false
	}
	g.SetCoins(g.Player.Coins - n)
	return true
}

func (g *GameState) Earn(n int64) {
	if n <= 0 {
		return
	}
	g.SetCoins(g.Player.Coins + n)
}

func (g *GameState) CoinsConsistent() bool {
	return g.Player.Coins == g.Resources.Coins
}

func (g *GameState) Tree(id TreeID) (*Tree, bool) {
	for i := range g.Trees {
		if g.Trees[i].ID == id {
			return &g.Trees[i], true
		}
	}
	return nil, false
}

func (g *GameState) RemoveTree(id TreeID) bool {
	for i := range g.Trees {
		if g.Trees[i].ID == id {
			g.Trees = append(g.Trees[:i:i], g.Trees[i+1:]...)
			return true
		}
	}
	return false
}

func (g *GameState) Seeds(s Species) int {
	if g.Resources.Seeds == nil {
		return 0
	}
	return g.Resources.Seeds[s]
}

func (g *GameState) AddSeeds(s Species, n int) {
	if g.Resources.Seeds == nil {
		g.Resources.Seeds = make(map[Species]int)
	}
	g.Resources.Seeds[s] += n
	if g.Resources.Seeds[s] < 0 {
		g.Resources.Seeds[s] = 0
	}
}

func (g *GameState) Clone() GameState {
	cp := *g
	cp.Player = g.Player.Clone()
	cp.Biome = g.Biome.Clone()
	cp.Trees = append([]Tree(nil), g.Trees...)
	cp.Resources.Seeds = make(map[Species]int, len(g.Resources.Seeds))
	for k, v := range g.Resources.Seeds {
		cp.Resources.Seeds[k] = v
	}
	return cp
}
