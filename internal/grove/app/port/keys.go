package port

import "GroveWorld/internal/grove/entity"

const (
	prefixPlayer    = "player:"
	prefixBiome     = "biome:"
	prefixGameState = "gameState:"
	prefixChat      = "chat:"
)

func PlayerKey(id entity.PlayerID) string {
	return prefixPlayer + string(id)
}

func BiomeKey(id entity.BiomeID) string {
	return prefixBiome + string(id)
}

func GameStateKey(id entity.PlayerID) string {
	return prefixGameState + string(id)
}

func ChatKey(id entity.BiomeID) string {
	return prefixChat + string(id)
}

// KeyKind returns the record kind of key ("player", "biome", ...), used as a metric label.
func KeyKind(key string) string {
	for _, p := range []string{prefixPlayer, prefixBiome, prefixGameState, prefixChat} {
		if len(key) > len(p) && key[:len(p)] == p {
			return p[:len(p)-1]
		}
	}
	return "other"
}
