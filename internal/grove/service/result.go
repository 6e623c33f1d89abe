package service

import "GroveWorld/internal/grove/entity"

// Outcome distinguishes success from a validation failure. A failed
// outcome leaves the world untouched.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func ok(msg string) Outcome {
	return Outcome{Success: true, Message: msg}
}

func rejected(r Reason) Outcome {
	return Outcome{Message: r.Message, Reason: r.Code}
}

type InitResult struct {
	GameState     *entity.GameState    `json:"gameState"`
	NearbyPlayers []entity.RosterEntry `json:"nearbyPlayers"`
	Created       bool                 `json:"created"`
}

type MoveResult struct {
	Outcome
	GameState *entity.GameState `json:"gameState"`
	Position  entity.Vec3       `json:"position"`
}

type TreeResult struct {
	Outcome
	GameState       *entity.GameState    `json:"gameState"`
	Tree            *entity.Tree         `json:"tree,omitempty"`
	NewAchievements []entity.Achievement `json:"newAchievements"`
}

type Rewards struct {
	Coins      int64 `json:"coins"`
	Seeds      int   `json:"seeds"`
	Experience int64 `json:"experience"`
	Water      int   `json:"water"`
}

type HarvestResult struct {
	Outcome
	Rewards         Rewards              `json:"rewards"`
	GameState       *entity.GameState    `json:"gameState"`
	NewAchievements []entity.Achievement `json:"newAchievements"`
}

type PurchaseResult struct {
	Outcome
	GameState       *entity.GameState    `json:"gameState"`
	NewAchievements []entity.Achievement `json:"newAchievements"`
}

type BuyLandResult struct {
	Outcome
	GameState       *entity.GameState    `json:"gameState"`
	LandPlot        *entity.LandPlot     `json:"landPlot,omitempty"`
	NewAchievements []entity.Achievement `json:"newAchievements"`
}

type NearbyResult struct {
	Outcome
	Players []entity.RosterEntry `json:"players"`
	// Radius is the radius actually searched, after the default and cap.
	Radius float64 `json:"radius"`
}

type ChatSendResult struct {
	Outcome
	ChatMessage *entity.ChatMessage `json:"chatMessage,omitempty"`
}

type ChatRecentResult struct {
	Messages []entity.ChatMessage `json:"messages"`
}

func (o Outcome) Status() Outcome {
	return o
}
