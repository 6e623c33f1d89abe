package port

import (
	"context"

	"GroveWorld/internal/grove/entity"
)

// WorldRepository is the typed view over Store used by the coordinator.
// Every Save takes the version read by the matching Load (0 for a new
// record) and fails with ErrVersionConflict when another writer got there
// first.
type WorldRepository interface {
	LoadBiome(ctx context.Context, id entity.BiomeID) (*entity.Biome, uint64, error)
	SaveBiome(ctx context.Context, b *entity.Biome, expected uint64) (uint64, error)

	LoadPlayer(ctx context.Context, id entity.PlayerID) (*entity.Player, uint64, error)
	SavePlayer(ctx context.Context, p *entity.Player, expected uint64) (uint64, error)

	LoadGameState(ctx context.Context, id entity.PlayerID) (*entity.GameState, uint64, error)
	SaveGameState(ctx context.Context, g *entity.GameState, expected uint64) (uint64, error)
}

// ChatRepository persists the chat ring snapshot of a biome.
type ChatRepository interface {
	LoadChat(ctx context.Context, id entity.BiomeID) ([]entity.ChatMessage, error)
	SaveChat(ctx context.Context, id entity.BiomeID, msgs []entity.ChatMessage) error
}
